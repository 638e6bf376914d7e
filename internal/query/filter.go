// Package query holds the pure functions the dashboard runs over a ticket
// snapshot: filtering, ordering and the aggregates behind the charts.
// Nothing here blocks or keeps state.
package query

import (
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// StatusFilter is either a ticket status or StatusAll.
type StatusFilter string

// StatusAll disables status filtering.
const StatusAll StatusFilter = "all"

// ParseStatusFilter accepts "all" (any case), the empty string, or a status label.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, string(StatusAll)) {
		return StatusAll, nil
	}
	status, err := domain.ParseTicketStatus(raw)
	if err != nil {
		return "", fmt.Errorf("status filter: %w", err)
	}
	return StatusFilter(status), nil
}

// Filter keeps tickets whose employee name or id contains searchTerm
// (case-insensitive) and whose status matches the filter. Input order is kept
// and the input slice is not modified.
func Filter(tickets []domain.Ticket, searchTerm string, status StatusFilter) []domain.Ticket {
	term := strings.ToLower(searchTerm)
	out := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if status != StatusAll && status != "" && ticket.Status != domain.TicketStatus(status) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(ticket.EmployeeName), term) &&
			!strings.Contains(strings.ToLower(ticket.ID), term) {
			continue
		}
		out = append(out, ticket)
	}
	return out
}
