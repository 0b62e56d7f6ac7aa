package routes

import (
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	imageHandler *handlers.ImageHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API limiter only runs in production so local development and
	// tests are never throttled. Auth and upload limiters always apply.
	if cfg.IsProduction() {
		api.Use(middleware.GeneralLimiter())
	}

	api.Get("/health", healthHandler.Check)

	protect := middleware.Protect(authService)

	// One shared budget across every credential-issuing route.
	authLimiter := middleware.AuthLimiter()

	admin := api.Group("/admin")
	admin.Post("/login", authLimiter, authHandler.AdminLogin)
	admin.Post("/create", protect, middleware.AdminRequired(), authHandler.CreateAdmin)

	auth := api.Group("/auth", authLimiter)
	auth.Post("/google-login", authHandler.GoogleLogin)

	images := api.Group("/images")
	images.Get("/", protect, imageHandler.List)
	images.Get("/admin/all", protect, middleware.AdminRequired(), imageHandler.AdminList)
	images.Get("/liked", protect, imageHandler.Liked)
	images.Post("/upload", middleware.UploadLimiter(), protect, imageHandler.Upload)
	images.Post("/:id/like", protect, imageHandler.ToggleLike)
	images.Delete("/:id", protect, imageHandler.Delete)
}
