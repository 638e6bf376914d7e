package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/dto"
	"github.com/spec-kit/helpdesk-dashboard/internal/service"
)

// TrendsHandler serves trend report generation for the signed-in session.
type TrendsHandler struct {
	trends *service.TrendService
}

// NewTrendsHandler constructs handler.
func NewTrendsHandler(trends *service.TrendService) *TrendsHandler {
	return &TrendsHandler{trends: trends}
}

// Generate POST /api/trends.
func (h *TrendsHandler) Generate(c *fiber.Ctx) error {
	sessionID, err := sessionFromContext(c)
	if err != nil {
		return err
	}
	result, err := h.trends.Generate(c.UserContext(), sessionID, actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrendReportResponse(result)})
}

// Latest GET /api/trends/latest.
func (h *TrendsHandler) Latest(c *fiber.Ctx) error {
	sessionID, err := sessionFromContext(c)
	if err != nil {
		return err
	}
	result, err := h.trends.Latest(sessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrendReportResponse(result)})
}

// Abandon DELETE /api/trends.
func (h *TrendsHandler) Abandon(c *fiber.Ctx) error {
	sessionID, err := sessionFromContext(c)
	if err != nil {
		return err
	}
	h.trends.Abandon(sessionID)
	return c.SendStatus(fiber.StatusNoContent)
}
