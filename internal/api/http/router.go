package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Tickets    *handlers.TicketsHandler
	Webhooks   *handlers.WebhooksHandler
	AdminGuard *auth.AdminGuard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Post("/analyze", cfg.Tickets.Analyze)
	tickets.Post("/bulk-delete", cfg.AdminGuard.Handle, cfg.Tickets.BulkDelete)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Delete("/:id", cfg.AdminGuard.Handle, cfg.Tickets.Delete)

	app.Post("/webhooks/analysis-complete", cfg.Webhooks.AnalysisComplete)
}
