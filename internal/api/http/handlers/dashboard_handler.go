package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/dto"
	"github.com/spec-kit/helpdesk-dashboard/internal/service"
)

// DashboardHandler serves the summary cards and charts.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatsResponse(counts)})
}

// Monthly GET /api/dashboard/monthly.
func (h *DashboardHandler) Monthly(c *fiber.Ctx) error {
	series, err := h.dashboard.MonthlySeries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMonthlyResponse(series)})
}

// StatusDistribution GET /api/dashboard/status-distribution.
func (h *DashboardHandler) StatusDistribution(c *fiber.Ctx) error {
	counts, err := h.dashboard.StatusDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusDistributionResponse(counts)})
}
