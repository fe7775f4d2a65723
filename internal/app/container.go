package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/config"
	httpx "github.com/you/neuraread/internal/http"
	"github.com/you/neuraread/internal/http/handlers"
	"github.com/you/neuraread/internal/http/middleware"
	"github.com/you/neuraread/internal/infrastructure/audit"
	"github.com/you/neuraread/internal/infrastructure/auth"
	"github.com/you/neuraread/internal/infrastructure/database"
	"github.com/you/neuraread/internal/infrastructure/imaging"
	"github.com/you/neuraread/internal/infrastructure/notifications"
	"github.com/you/neuraread/internal/infrastructure/repositories"
	"github.com/you/neuraread/internal/infrastructure/storage"
	"github.com/you/neuraread/internal/logging"
	"github.com/you/neuraread/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    logging.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Blobs       domain.BlobStore
	Enforcer    *casbin.Enforcer

	// Repositories
	UserRepo     domain.UserRepository
	CategoryRepo domain.CategoryRepository
	BookRepo     domain.BookRepository
	StatsRepo    domain.StatsRepository

	// Services
	Audit           domain.AuditLogger
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
	MediaSvc        domain.MediaService
	CatalogSvc      domain.CatalogService
	UserSvc         domain.UserService
	StatsSvc        domain.StatsService
}

// Infra is what the container cannot build itself in tests
type Infra struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Blobs    domain.BlobStore
	Enforcer *casbin.Enforcer
	Notifier domain.NotificationService
}

// NewContainer opens the configured stores and wires everything on top
func NewContainer(ctx context.Context, cfg *config.Config, log logging.Logger) (*Container, error) {
	db, err := database.Open(cfg.DSN, cfg.DBLogLevel)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	cas, err := auth.NewCasbinService(db)
	if err != nil {
		return nil, fmt.Errorf("init casbin: %w", err)
	}
	seeded, err := cas.SeedDefaults(cfg.APIBase)
	if err != nil {
		return nil, fmt.Errorf("seed policies: %w", err)
	}
	if seeded {
		log.Info(ctx, "casbin: seeded default policies")
	}

	var blobs domain.BlobStore
	if cfg.S3.Bucket != "" {
		if blobs, err = storage.NewS3Store(ctx, cfg.S3); err != nil {
			return nil, err
		}
	} else {
		log.Warn(ctx, "no bucket configured, media kept in memory")
		blobs = storage.NewMemoryStore("localhost:" + cfg.Port + "/media")
	}

	return Build(cfg, log, Infra{
		DB:       db,
		Redis:    rdb.Client,
		Blobs:    blobs,
		Enforcer: cas.E,
		Notifier: notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, log),
	}), nil
}

// Build wires repositories, services and handlers over ready infrastructure
func Build(cfg *config.Config, log logging.Logger, in Infra) *Container {
	c := &Container{
		Config:          cfg,
		Log:             log,
		DB:              in.DB,
		RedisClient:     in.Redis,
		Blobs:           in.Blobs,
		Enforcer:        in.Enforcer,
		NotificationSvc: in.Notifier,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.CategoryRepo = repositories.NewCategoryRepository(c.DB)
	c.BookRepo = repositories.NewBookRepository(c.DB)
	c.StatsRepo = repositories.NewStatsRepository(c.DB)
}

func (c *Container) initServices() {
	c.Audit = audit.NewLogger(c.Log)
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.TokenTTL)

	otpConfig := services.OTPConfig{
		Length:       c.Config.OTP_Length,
		TTL:          c.Config.OTP_TTL,
		MaxAttempts:  c.Config.OTP_MaxAttempts,
		ResendWindow: c.Config.OTP_ResendWindow,
	}
	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.UserRepo, c.RedisClient, otpConfig)
	c.PolicySvc = services.NewPolicyService(c.Enforcer)
	c.AuthSvc = services.NewAuthService(c.UserRepo, c.PasswordSvc, c.TokenSvc, c.OTPSvc, c.Audit)

	c.MediaSvc = services.NewMediaService(c.Blobs, imaging.NewCoverTranscoder(), services.MediaConfig{
		MaxBookBytes:  c.Config.MaxBookBytes,
		MaxPhotoBytes: c.Config.MaxPhotoBytes,
		MaxPhotos:     c.Config.MaxPhotos,
	})
	c.CatalogSvc = services.NewCatalogService(c.CategoryRepo, c.BookRepo, c.MediaSvc, c.Audit, c.Log)
	c.UserSvc = services.NewUserService(c.UserRepo, c.MediaSvc, c.Audit, c.Log)
	c.StatsSvc = services.NewStatsService(c.StatsRepo, c.UserRepo)
}

// Router builds the gin engine serving the container's services
func (c *Container) Router() *gin.Engine {
	limits := handlers.UploadLimits{
		MaxBookBytes:  c.Config.MaxBookBytes,
		MaxPhotoBytes: c.Config.MaxPhotoBytes,
		MaxPhotos:     c.Config.MaxPhotos,
	}
	h := httpx.Handlers{
		Auth:    handlers.NewAuthHandlers(c.AuthSvc, handlers.CookieOptions{Secure: c.Config.CookieSecure}),
		Catalog: handlers.NewCatalogHandlers(c.CatalogSvc, limits),
		Stats:   handlers.NewStatsHandlers(c.StatsSvc, c.UserSvc),
		Users:   handlers.NewUserHandlers(c.UserSvc, c.CatalogSvc, limits),
		Policy:  handlers.NewPolicyHandlers(c.PolicySvc),
	}
	return httpx.BuildRouter(h,
		middleware.NewAuthMW(c.TokenSvc, c.UserRepo),
		middleware.NewAccessGate(c.UserRepo, c.PolicySvc, c.Audit),
		httpx.RouterOptions{APIBase: c.Config.APIBase, CORSOrigins: c.Config.CORSOrigins, Logger: c.Log},
	)
}

// SeedAdmin creates the configured admin account when it does not exist yet
// and promotes it when it does. Nothing happens without admin credentials.
func (c *Container) SeedAdmin(ctx context.Context) error {
	email, password := c.Config.AdminEmail, c.Config.AdminPassword
	if email == "" || password == "" {
		return nil
	}

	existing, err := c.UserRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		return c.UserRepo.UpdateRole(ctx, existing.ID, domain.RoleAdmin)
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("lookup admin: %w", err)
	}

	user, err := c.AuthSvc.Register(ctx, domain.RegisterInput{
		UserName: c.Config.AdminUserName,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	if err := c.UserRepo.UpdateRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return err
	}
	c.Log.Info(ctx, "seeded admin account", "email", user.Email)
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
