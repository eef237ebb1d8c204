package server

import (
	"context"
	"errors"
	"io"
	"time"

	"storerating/internal/handlers"
	"storerating/internal/metrics"
	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps is everything the HTTP application is built from.
type Deps struct {
	DB          *gorm.DB
	Credentials *services.Credentials
	// Events receives domain events; nil only counts them.
	Events  services.EventPublisher
	Metrics *metrics.Metrics
	// AllowOrigins is the CORS origin list; empty allows any origin.
	AllowOrigins string
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
}

// New wires repositories, services and handlers into a Fiber app with every
// API route mounted under /api.
func New(deps Deps) *fiber.App {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	events := deps.Metrics.CountEvents(deps.Events)

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	storeRepo := repositories.NewGORMStoreRepository(deps.DB)
	ratingRepo := repositories.NewGORMRatingRepository(deps.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, deps.Credentials, events)
	adminService := services.NewAdminService(userRepo, storeRepo, ratingRepo, deps.Credentials, events)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo, events)
	ratingService := services.NewRatingService(ratingRepo, storeRepo, events)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService, storeService)
	userHandler := handlers.NewUserHandler(storeService, ratingService)
	ownerHandler := handlers.NewOwnerHandler(storeService)

	app := fiber.New(fiber.Config{
		AppName:      "storerating",
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if deps.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: deps.AccessLog}))
	}
	origins := deps.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(deps.Metrics.Middleware())

	// --- API Routes ---
	auth := middleware.AuthRequired(deps.Credentials)
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, auth)
	adminHandler.RegisterRoutes(api, auth, middleware.RequireRoles(models.RoleAdmin))
	userHandler.RegisterRoutes(api, auth, middleware.RequireRoles(models.RoleNormal))
	ownerHandler.RegisterRoutes(api, auth, middleware.RequireRoles(models.RoleStoreOwner))

	// --- Operational endpoints ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the store rating API."})
	})
	app.Get("/health", healthHandler(deps.DB))
	app.Get("/metrics", deps.Metrics.Handler())

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status, database, code := "healthy", "connected", fiber.StatusOK
		if err := ping(ctx, db); err != nil {
			log.WithError(err).Warn("health check: database unreachable")
			status, database, code = "unhealthy", "unreachable", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
		})
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// errorHandler answers errors that escape handlers, such as unknown routes
// and recovered panics, with the same {message} body handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{"message": msg})
}
