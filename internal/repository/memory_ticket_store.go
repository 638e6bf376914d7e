package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// MemoryStoreOption customises a MemoryTicketStore.
type MemoryStoreOption func(*MemoryTicketStore)

// WithClock overrides the time source used for updated_at.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryTicketStore) {
		s.nowF = now
	}
}

// WithLatency makes List and UpdateStatus wait before touching the data,
// the way a networked store would.
func WithLatency(list, update time.Duration) MemoryStoreOption {
	return func(s *MemoryTicketStore) {
		s.listLatency = list
		s.updateLatency = update
	}
}

// MemoryTicketStore is an in-memory TicketStore. The zero value is not
// usable; construct with NewMemoryTicketStore.
type MemoryTicketStore struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	index   map[string]int

	nowF          func() time.Time
	listLatency   time.Duration
	updateLatency time.Duration
}

// NewMemoryTicketStore builds a store holding a copy of seed.
func NewMemoryTicketStore(seed []domain.Ticket, opts ...MemoryStoreOption) (*MemoryTicketStore, error) {
	s := &MemoryTicketStore{nowF: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset replaces the store contents with a copy of seed. Duplicate ids and
// tickets updated before they were created are rejected.
func (s *MemoryTicketStore) Reset(seed []domain.Ticket) error {
	tickets := make([]domain.Ticket, len(seed))
	copy(tickets, seed)
	index := make(map[string]int, len(tickets))
	for i, t := range tickets {
		if _, exists := index[t.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateTicket, t.ID)
		}
		if err := t.CheckTimestampOrder(); err != nil {
			return err
		}
		index[t.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
	s.index = index
	return nil
}

// List returns a snapshot of all tickets in insertion order.
func (s *MemoryTicketStore) List(ctx context.Context) ([]domain.Ticket, error) {
	if err := sleepCtx(ctx, s.listLatency); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out, nil
}

// UpdateStatus sets the ticket status and bumps updated_at.
func (s *MemoryTicketStore) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (domain.StatusChange, error) {
	if err := sleepCtx(ctx, s.updateLatency); err != nil {
		return domain.StatusChange{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[ticketID]
	if !ok {
		return domain.StatusChange{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	ticket := &s.tickets[i]
	change := domain.StatusChange{
		TicketID:  ticket.ID,
		OldStatus: ticket.Status,
		NewStatus: status,
		UpdatedAt: domain.FormatTimestamp(nextUpdatedAt(*ticket, s.nowF())),
	}
	ticket.Status = status
	ticket.UpdatedAt = change.UpdatedAt
	return change, nil
}
