package events

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventTrendReportGenerated EventType = "trend_report_generated"
)

// Actor is the signed-in user behind an event.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	UpdatedAt string              `json:"updated_at"`
}

// TrendReportGeneratedPayload payload.
type TrendReportGeneratedPayload struct {
	Token          uint64 `json:"token"`
	TicketCount    int    `json:"ticket_count"`
	HasActionItems bool   `json:"has_action_items"`
}
