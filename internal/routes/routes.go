package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kycdesk/kycdesk/internal/auth"
	"github.com/kycdesk/kycdesk/internal/config"
	"github.com/kycdesk/kycdesk/internal/kyc"
	"github.com/kycdesk/kycdesk/internal/middleware"
	"github.com/kycdesk/kycdesk/internal/notification"
	"github.com/kycdesk/kycdesk/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes, and ensures the
// bootstrap Admin account exists.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var userRepo user.Repository
	var kycRepo kyc.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		kycRepo = kyc.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		kycRepo = kyc.NewMemoryRepository()
	}

	userSvc := user.NewService(userRepo)
	authSvc := auth.NewService(userRepo, []byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL)
	notifier := notification.NewLoggerNotifier(d.Logger)
	kycSvc := kyc.NewService(kycRepo, userRepo, notifier)

	authHandler := auth.NewHandler(authSvc, userSvc)
	userHandler := user.NewHandler(userSvc)
	kycHandler := kyc.NewHandler(kycSvc)

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	created, err := userSvc.EnsureAdmin(bootCtx, d.Cfg.AdminEmail, d.Cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created && d.Logger != nil {
		d.Logger.Info("bootstrap admin created", slog.String("email", d.Cfg.AdminEmail))
	}

	api := app.Group("/api/v1")

	authn := middleware.Authenticate([]byte(d.Cfg.JWTSecret), userRepo)
	adminOnly := middleware.RequireRole(user.RoleAdmin)

	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))
	RegisterUserRoutes(api, userHandler, authn, adminOnly)
	RegisterKYCRoutes(api, kycHandler, authn, adminOnly)

	return nil
}
