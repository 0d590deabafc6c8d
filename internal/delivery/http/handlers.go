package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/pipeline"
	"github.com/firehistory/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	assistant    *service.Assistant
	queryTimeout time.Duration
	demo         bool
}

// NewHandler creates a new handler. demo marks the in-memory repository.
func NewHandler(dashboardSvc *service.DashboardService, assistant *service.Assistant, queryTimeout time.Duration, demo bool) *Handler {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &Handler{
		dashboardSvc: dashboardSvc,
		assistant:    assistant,
		queryTimeout: queryTimeout,
		demo:         demo,
	}
}

func (h *Handler) queryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.queryTimeout)
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	status, database, code := "ok", "ok", fiber.StatusOK
	if err := h.dashboardSvc.Health(ctx); err != nil {
		status, database, code = "degraded", "unavailable", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"service":   "firehistory-backend",
		"version":   "1.0.0",
		"database":  database,
		"demo_mode": h.demo,
		"assistant": h.assistant.Enabled(),
	})
}

// GetFilters returns the sidebar catalog and the initial selections
func (h *Handler) GetFilters(c *fiber.Ctx) error {
	labels := make([]string, 0, len(domain.FireAgeBuckets()))
	for _, b := range domain.FireAgeBuckets() {
		labels = append(labels, b.String())
	}
	measures := make([]string, 0, len(pipeline.Measures()))
	for _, m := range pipeline.Measures() {
		measures = append(measures, m.String())
	}
	defaults := make([]string, 0, 2)
	for _, m := range pipeline.DefaultMeasures() {
		defaults = append(defaults, m.String())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"options":          h.dashboardSvc.Options(),
			"defaults":         h.dashboardSvc.Defaults(),
			"fire_ages":        labels,
			"measures":         measures,
			"default_measures": defaults,
			"radius":           fiber.Map{"min": domain.MinRadiusKm, "max": domain.MaxRadiusKm},
		},
	})
}

// notSelected is the payload of every tab before a station is chosen
func notSelected(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"selected": false,
	})
}

func selected(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"selected": true,
		"data":     data,
	})
}

// GetMap returns the fire polygons and station layers
func (h *Handler) GetMap(c *fiber.Ctx) error {
	f, err := parseFilterState(c, h.dashboardSvc.Defaults())
	if err != nil {
		return err
	}
	if !f.HasStation() {
		return notSelected(c)
	}
	ctx, cancel := h.queryContext(c)
	defer cancel()

	view, err := h.dashboardSvc.Map(ctx, f)
	if err != nil {
		return err
	}
	return selected(c, view)
}

// GetAnalytics returns every chart of the analytics tab
func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	f, err := parseFilterState(c, h.dashboardSvc.Defaults())
	if err != nil {
		return err
	}
	measures, err := parseMeasures(c)
	if err != nil {
		return err
	}
	if !f.HasStation() {
		return notSelected(c)
	}
	ctx, cancel := h.queryContext(c)
	defer cancel()

	analytics, err := h.dashboardSvc.Analytics(ctx, f, measures)
	if err != nil {
		return err
	}
	return selected(c, analytics)
}

// GetFires returns the raw data grid
func (h *Handler) GetFires(c *fiber.Ctx) error {
	f, err := parseFilterState(c, h.dashboardSvc.Defaults())
	if err != nil {
		return err
	}
	if !f.HasStation() {
		return notSelected(c)
	}
	ctx, cancel := h.queryContext(c)
	defer cancel()

	table, err := h.dashboardSvc.RawData(ctx, f)
	if err != nil {
		return err
	}
	return selected(c, table)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a natural-language question with generated SQL
func (h *Handler) Ask(c *fiber.Ctx) error {
	if !h.assistant.Enabled() {
		return c.JSON(fiber.Map{
			"success": true,
			"active":  false,
			"message": service.InactiveMessage,
		})
	}

	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Question is required")
	}
	ctx, cancel := h.queryContext(c)
	defer cancel()

	answer, err := h.assistant.Ask(ctx, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"active":  true,
		"data":    answer,
	})
}

// GetAbout returns the static About tab
func (h *Handler) GetAbout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    about,
	})
}
