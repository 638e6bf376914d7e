package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/dto"
	"github.com/spec-kit/helpdesk-dashboard/internal/service"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util/errorutil"
)

// TicketsHandler serves the ticket table.
type TicketsHandler struct {
	dashboard *service.DashboardService
	status    *service.StatusService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(dashboard *service.DashboardService, status *service.StatusService) *TicketsHandler {
	return &TicketsHandler{dashboard: dashboard, status: status}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	q, err := service.ParseTicketQuery(c.Query("search"), c.Query("status"), c.Query("sort"), c.Query("order"))
	if err != nil {
		return err
	}
	tickets, err := h.dashboard.ListTickets(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketList(tickets)})
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	result, err := h.status.UpdateStatus(c.UserContext(), actorFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	if !result.Success {
		c.Status(fiber.StatusNotFound)
	}
	return c.JSON(fiber.Map{"data": dto.StatusUpdateResponse{Success: result.Success, Message: result.Message}})
}
