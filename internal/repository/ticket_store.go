package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

var (
	// ErrTicketNotFound is returned when no ticket has the requested id.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrDuplicateTicket is returned when a dataset repeats a ticket id.
	ErrDuplicateTicket = errors.New("duplicate ticket id")
)

// TicketStore owns the canonical ticket collection.
//
// List returns copies in insertion order; callers may modify them freely.
// UpdateStatus is the only mutation and is applied atomically per ticket.
type TicketStore interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (domain.StatusChange, error)
}

// nextUpdatedAt picks the timestamp for a status change: now, moved forward
// when needed so that it is strictly after the previous updated_at and not
// before created_at.
func nextUpdatedAt(ticket domain.Ticket, now time.Time) time.Time {
	now = now.UTC()
	if prev, err := domain.ParseTimestamp(ticket.UpdatedAt); err == nil && !now.After(prev) {
		now = prev.Add(time.Microsecond).UTC()
	}
	if created, err := domain.ParseTimestamp(ticket.CreatedAt); err == nil && now.Before(created) {
		now = created.UTC()
	}
	return now
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
