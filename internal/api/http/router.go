package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Users   *handlers.UsersHandler
	Tickets *handlers.TicketsHandler
	Metrics fiber.Handler
	Gate    *auth.Gate
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.Gate.RequireAuthenticated, cfg.Users.Me)

	tickets := api.Group("/tickets", cfg.Gate.RequireAuthenticated)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/my", cfg.Tickets.ListMine)
	tickets.Get("/all", auth.RequireAdmin(), cfg.Tickets.ListAll)
	tickets.Patch("/:id/status", auth.RequireAdmin(), cfg.Tickets.UpdateStatus)
}
