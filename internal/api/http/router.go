package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/delivery-service/internal/api/http/handlers"
	"github.com/spec-kit/delivery-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiters   RateLimiters
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/login", cfg.RateLimiters.Login, cfg.Auth.Login)
	api.Post("/password/forgot", cfg.RateLimiters.Password, cfg.Auth.ForgotPassword)
	api.Post("/password/reset", cfg.RateLimiters.Password, cfg.Auth.ResetPassword)

	adminGroup := api.Group("/admin")
	adminGroup.Post("/bootstrap", cfg.Admin.Bootstrap)
	adminGroup.Post("/create", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Admin.CreateAdmin)
	adminGroup.Get("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Admin.ListUsers)
	adminGroup.Get("/agents", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Admin.ListAgents)
}
