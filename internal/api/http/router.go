package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	Trends         *handlers.TrendsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)

	api.Get("/dashboard/stats", cfg.Dashboard.Stats)
	api.Get("/dashboard/monthly", cfg.Dashboard.Monthly)
	api.Get("/dashboard/status-distribution", cfg.Dashboard.StatusDistribution)

	api.Post("/trends", cfg.Trends.Generate)
	api.Get("/trends/latest", cfg.Trends.Latest)
	api.Delete("/trends", cfg.Trends.Abandon)
}
