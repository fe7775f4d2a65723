package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/http/middleware"
)

// UserHandlers serves account administration and the end-user surface
type UserHandlers struct {
	users   domain.UserService
	catalog domain.CatalogService
	limits  UploadLimits
}

func NewUserHandlers(users domain.UserService, catalog domain.CatalogService, limits UploadLimits) *UserHandlers {
	return &UserHandlers{users: users, catalog: catalog, limits: limits}
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

type syncContactsRequest struct {
	Contacts []domain.ContactPayload `json:"contacts"`
}

func (h *UserHandlers) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Users fetched successfully", gin.H{"users": users})
}

func (h *UserHandlers) GetUser(c *gin.Context) {
	id, err := paramID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User fetched successfully", gin.H{"user": user})
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	id, err := paramID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User deleted successfully", gin.H{"id": id})
}

// AdminDetails returns the calling admin's own record
func (h *UserHandlers) AdminDetails(c *gin.Context) {
	id, _ := middleware.UserID(c)
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Admin details fetched successfully", gin.H{"user": user})
}

func (h *UserHandlers) UpdateRole(c *gin.Context) {
	id, err := paramID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User role updated successfully", gin.H{"user": user})
}

func (h *UserHandlers) UploadPhotos(c *gin.Context) {
	id, _ := middleware.UserID(c)
	limit := h.limits.MaxPhotoBytes
	form, err := parseMultipart(c, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	uploads, err := manyUploads(form, domain.FieldPhotos)
	if err != nil {
		respondError(c, err)
		return
	}
	photos, err := h.users.UploadPhotos(c.Request.Context(), id, uploads)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Photos uploaded successfully", gin.H{"photos": photos})
}

func (h *UserHandlers) SyncContacts(c *gin.Context) {
	id, _ := middleware.UserID(c)
	var req syncContactsRequest
	if !bindJSON(c, &req) {
		return
	}
	contacts, err := h.users.SyncContacts(c.Request.Context(), id, domain.NormalizeContacts(req.Contacts))
	if err != nil {
		respondError(c, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	respondOK(c, http.StatusOK, "Contacts synced successfully", gin.H{"contacts": contacts})
}

// Books lists the catalog for readers
func (h *UserHandlers) Books(c *gin.Context) {
	books, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Books retrieved successfully", gin.H{"books": books})
}
