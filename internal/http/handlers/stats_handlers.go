package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
)

// StatsHandlers serves the admin dashboard counters
type StatsHandlers struct {
	stats domain.StatsService
	users domain.UserService
}

func NewStatsHandlers(stats domain.StatsService, users domain.UserService) *StatsHandlers {
	return &StatsHandlers{stats: stats, users: users}
}

func (h *StatsHandlers) TotalUsers(c *gin.Context) {
	total, users, err := h.stats.TotalUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Total users fetched successfully", gin.H{"totalUsers": total, "users": users})
}

func (h *StatsHandlers) TotalContacts(c *gin.Context) {
	n, err := h.stats.TotalContacts(c.Request.Context())
	respondCount(c, "totalContacts", "Total contacts fetched successfully", n, err)
}

func (h *StatsHandlers) TotalImages(c *gin.Context) {
	n, err := h.stats.TotalImages(c.Request.Context())
	respondCount(c, "totalImages", "Total images fetched successfully", n, err)
}

func (h *StatsHandlers) TotalBooks(c *gin.Context) {
	n, err := h.stats.TotalBooks(c.Request.Context())
	respondCount(c, "totalBooks", "Total books fetched successfully", n, err)
}

func (h *StatsHandlers) TotalCategories(c *gin.Context) {
	n, err := h.stats.TotalCategories(c.Request.Context())
	respondCount(c, "totalBookCategories", "Total book categories fetched successfully", n, err)
}

func respondCount(c *gin.Context, key, message string, n int64, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, message, gin.H{key: n})
}

func (h *StatsHandlers) AverageBooks(c *gin.Context) {
	avg, err := h.stats.AverageBooksPerCategory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Average books per category fetched successfully", gin.H{"averageBooksPerCategory": avg})
}

func (h *StatsHandlers) UserContacts(c *gin.Context) {
	id, err := paramID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}
	contacts, err := h.users.Contacts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	respondOK(c, http.StatusOK, "User contacts fetched successfully", gin.H{"contacts": contacts})
}

func (h *StatsHandlers) UserGallery(c *gin.Context) {
	id, err := paramID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}
	photos, err := h.users.Photos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if photos == nil {
		photos = []domain.Photo{}
	}
	respondOK(c, http.StatusOK, "User gallery fetched successfully", gin.H{"photos": photos})
}
