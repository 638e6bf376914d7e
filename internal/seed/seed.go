// Package seed provides the ticket dataset the service starts from.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

//go:embed tickets.json
var defaultTickets []byte

// Record is the JSON shape of a seeded ticket.
type Record struct {
	TicketID     string `json:"ticket_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Avatar       string `json:"avatar"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Tickets returns a fresh copy of the embedded dataset.
func Tickets() ([]domain.Ticket, error) {
	return decode(defaultTickets)
}

// FromFile reads a dataset in the same JSON shape as the embedded one.
func FromFile(path string) ([]domain.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw []byte) ([]domain.Ticket, error) {
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode seed tickets: %w", err)
	}
	tickets := make([]domain.Ticket, 0, len(records))
	for _, rec := range records {
		status, err := domain.ParseTicketStatus(rec.Status)
		if err != nil {
			return nil, fmt.Errorf("seed ticket %s: %w", rec.TicketID, err)
		}
		priority, err := domain.ParseTicketPriority(rec.Priority)
		if err != nil {
			return nil, fmt.Errorf("seed ticket %s: %w", rec.TicketID, err)
		}
		ticket := domain.Ticket{
			ID:           rec.TicketID,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Avatar:       rec.Avatar,
			Category:     rec.Category,
			Description:  rec.Description,
			Status:       status,
			Priority:     priority,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		}
		if err := ticket.CheckTimestampOrder(); err != nil {
			return nil, fmt.Errorf("seed %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
