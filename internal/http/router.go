package httpx

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/internal/http/handlers"
	"github.com/you/neuraread/internal/http/middleware"
	"github.com/you/neuraread/internal/logging"
)

// Handlers groups everything BuildRouter mounts
type Handlers struct {
	Auth    *handlers.AuthHandlers
	Catalog *handlers.CatalogHandlers
	Stats   *handlers.StatsHandlers
	Users   *handlers.UserHandlers
	Policy  *handlers.PolicyHandlers
}

// RouterOptions holds the transport settings of the engine
type RouterOptions struct {
	APIBase     string
	CORSOrigins []string
	Logger      logging.Logger
}

func BuildRouter(h Handlers, authmw *middleware.AuthMW, gate *middleware.AccessGate, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestContext(opts.Logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group(opts.APIBase)

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/mobile-forgot-password", h.Auth.ForgotPassword)
	auth.POST("/mobile-reset-password", h.Auth.ResetPassword)

	verified := auth.Group("/").Use(authmw.Verify())
	verified.GET("/me", h.Auth.Me)
	verified.POST("/logout", h.Auth.Logout)
	verified.POST("/logout-all", h.Auth.LogoutAll)

	stats := api.Group("/admin-stats").Use(authmw.Verify(), gate.Enforce())
	stats.GET("/get-total-users", h.Stats.TotalUsers)
	stats.GET("/get-total-contacts", h.Stats.TotalContacts)
	stats.GET("/get-total-images", h.Stats.TotalImages)
	stats.GET("/get-total-books", h.Stats.TotalBooks)
	stats.GET("/get-total-book-categories", h.Stats.TotalCategories)
	stats.GET("/get-avaerage-books", h.Stats.AverageBooks)
	stats.GET("/get-specific-user-contacts/:userId", h.Stats.UserContacts)
	stats.GET("/get-specific-user-gallery/:userId", h.Stats.UserGallery)

	books := api.Group("/book-admin").Use(authmw.Verify(), gate.Enforce())
	books.GET("/get-all-category", h.Catalog.ListCategories)
	books.GET("/get-category/:catId", h.Catalog.GetCategory)
	books.POST("/create-category", h.Catalog.CreateCategory)
	books.PUT("/update-category/:id", h.Catalog.UpdateCategory)
	books.DELETE("/delete-category/:id", h.Catalog.DeleteCategory)
	books.GET("/get-all-books", h.Catalog.ListBooks)
	books.GET("/get-book/:bookId", h.Catalog.GetBook)
	books.POST("/upload-books", h.Catalog.CreateBook)
	books.PUT("/update-books/:bookId", h.Catalog.UpdateBook)
	books.DELETE("/delete-books/:bookId", h.Catalog.DeleteBook)
	books.GET("/get-all-users", h.Users.ListUsers)
	books.GET("/get-user/:userId", h.Users.GetUser)
	books.DELETE("/delete-user/:userId", h.Users.DeleteUser)
	books.GET("/get-admin-details", h.Users.AdminDetails)
	books.PUT("/update-user-role/:userId", h.Users.UpdateRole)

	user := api.Group("/user").Use(authmw.Verify(), gate.Enforce())
	user.POST("/upload-photos", h.Users.UploadPhotos)
	user.POST("/sync-contacts", h.Users.SyncContacts)
	user.GET("/get-all-books", h.Users.Books)

	adm := api.Group("/admin").Use(authmw.Verify(), gate.Enforce())
	adm.GET("/policies", h.Policy.List)
	adm.POST("/policies", h.Policy.Add)
	adm.DELETE("/policies", h.Policy.Remove)

	return r
}
