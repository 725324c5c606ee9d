package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/api/handlers"
	"github.com/veloxevents/doorman/internal/api/middleware"
	"github.com/veloxevents/doorman/internal/config"
	"github.com/veloxevents/doorman/internal/metrics"
	"github.com/veloxevents/doorman/internal/models"
	"github.com/veloxevents/doorman/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.UserEvent{},
		&models.Guest{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Services
	auditService := services.NewAuditService(db)
	authService := services.NewAuthService(db, cfg)
	eventService := services.NewEventService(db, auditService)
	guestService := services.NewGuestService(db, auditService)
	userService := services.NewUserService(db, auditService)
	notificationService := services.NewNotificationService(cfg.NotifyURLs)
	importService := services.NewImportService(db, auditService, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	eventHandler := handlers.NewEventHandler(eventService)
	guestHandler := handlers.NewGuestHandler(guestService, eventService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)
	userHandler := handlers.NewUserHandler(userService)
	importHandler := handlers.NewImportHandler(importService, eventService)

	authMiddleware := middleware.AuthMiddleware(authService)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	// Me answers with a null user when unauthenticated, so it stays outside
	// the auth middleware and inspects the token itself.
	api.GET("/auth/me", authHandler.Me)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Events: listing is role-filtered inside the service, the
		// per-event routes apply the assignment gate in the handler.
		protected.GET("/events", eventHandler.List)
		protected.GET("/events/:id", eventHandler.Get)
		protected.GET("/events/:id/guests", guestHandler.List)
		protected.POST("/events/:id/guests/manual", guestHandler.CreateManual)
		protected.POST("/events/:id/check-in/undo", guestHandler.Undo)
		protected.GET("/events/:id/guests/:guestId/history", guestHandler.History)

		protected.PATCH("/guests/:id/attendance", guestHandler.SetAttendance)

		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/events", eventHandler.Create)
			admin.POST("/events/:id/assign-user", eventHandler.AssignUser)
			admin.POST("/events/:id/guests/import", importHandler.ImportGuests)

			admin.GET("/audit", auditHandler.List)

			admin.GET("/admin/users", userHandler.List)
			admin.POST("/admin/users", userHandler.Create)
			admin.POST("/admin/users/:id/password", userHandler.ResetPassword)
		}
	}

	return nil
}
