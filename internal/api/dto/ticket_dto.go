package dto

import (
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	TicketID     string                `json:"ticket_id"`
	EmployeeID   string                `json:"employee_id"`
	EmployeeName string                `json:"employee_name"`
	Avatar       string                `json:"avatar"`
	Category     string                `json:"category"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:     t.ID,
		EmployeeID:   t.EmployeeID,
		EmployeeName: t.EmployeeName,
		Avatar:       t.Avatar,
		Category:     t.Category,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// NewTicketList converts a ticket slice, never returning nil.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// StatusUpdateResponse reports the outcome of a status change.
type StatusUpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
