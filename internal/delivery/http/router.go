package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, metricsHandler nethttp.Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)
	if metricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))
	}

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Sidebar controls
		api.Get("/filters", handler.GetFilters)

		// Dashboard tabs
		api.Get("/map", handler.GetMap)
		api.Get("/analytics", handler.GetAnalytics)
		api.Get("/fires", handler.GetFires)
		api.Get("/about", handler.GetAbout)

		// Natural-language assistant
		api.Post("/assistant", handler.Ask)
	}
}
