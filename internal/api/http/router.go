package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/miniticket/internal/api/http/handlers"
	"github.com/spec-kit/miniticket/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every ticket route requires a valid
// bearer token; the status-update and history routes additionally require
// the admin role claim.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Put("/:id", auth.RequireAdmin(), cfg.Tickets.UpdateStatus)
	tickets.Get("/:id/history", auth.RequireAdmin(), cfg.Tickets.History)
}
