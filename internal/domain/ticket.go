package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimestampOrder marks a ticket whose updated_at precedes its created_at.
var ErrTimestampOrder = errors.New("updated_at precedes created_at")

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// TicketStatuses lists every known status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusResolved,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts a label into a TicketStatus. Matching is exact
// on the label; "InProgress" and "in_progress" are accepted as aliases of
// "In Progress" for API clients that cannot send spaces comfortably.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(strings.TrimSpace(raw))
	if status.Valid() {
		return status, nil
	}
	switch strings.ToLower(string(status)) {
	case "inprogress", "in_progress":
		return TicketStatusInProgress, nil
	}
	return "", fmt.Errorf("unknown ticket status %q", raw)
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// TicketPriorities lists every known priority, most urgent first.
var TicketPriorities = []TicketPriority{
	TicketPriorityHigh,
	TicketPriorityMedium,
	TicketPriorityLow,
}

// Valid reports whether p is one of the known priorities.
func (p TicketPriority) Valid() bool {
	for _, known := range TicketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParseTicketPriority converts a label into a TicketPriority, ignoring case.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range TicketPriorities {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown ticket priority %q", raw)
}

// Ticket is a single helpdesk support request. Only Status and UpdatedAt
// change after creation. Timestamps are ISO-8601 text; see ParseTimestamp.
type Ticket struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Avatar       string
	Category     string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	CreatedAt    string
	UpdatedAt    string
}

// CheckTimestampOrder returns an error wrapping ErrTimestampOrder when both
// timestamps parse and updated_at is before created_at. Unparseable values
// are left to the readers that report them as TimestampError.
func (t Ticket) CheckTimestampOrder() error {
	created, err := ParseTimestamp(t.CreatedAt)
	if err != nil {
		return nil
	}
	updated, err := ParseTimestamp(t.UpdatedAt)
	if err != nil {
		return nil
	}
	if updated.Before(created) {
		return fmt.Errorf("ticket %s: %w (%s < %s)", t.ID, ErrTimestampOrder, t.UpdatedAt, t.CreatedAt)
	}
	return nil
}

// StatusChange describes an applied status transition.
type StatusChange struct {
	TicketID  string
	OldStatus TicketStatus
	NewStatus TicketStatus
	UpdatedAt string
}

// StatusUpdateResult is the outcome reported to callers of a status change.
type StatusUpdateResult struct {
	Success bool
	Message string
}
