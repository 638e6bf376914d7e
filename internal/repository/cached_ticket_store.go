package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/helpdesk-dashboard/internal/cache"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// CachedTicketStore serves List from a cache and drops the cached view on
// every successful status update.
//
// Cache keys carry a generation number that UpdateStatus advances before it
// returns, so a fill that raced an update lands under a key nobody reads
// any more.
type CachedTicketStore struct {
	next   TicketStore
	cache  cache.Cacher
	ttl    time.Duration
	logger *zap.Logger

	instance   string
	generation atomic.Uint64
	sf         singleflight.Group
}

// NewCachedTicketStore wraps next with a list cache.
func NewCachedTicketStore(next TicketStore, c cache.Cacher, ttl time.Duration, logger *zap.Logger) *CachedTicketStore {
	if next == nil || c == nil {
		panic("repository: cached store requires a store and a cache")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTicketStore{
		next:     next,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
		instance: uuid.NewString(),
	}
}

func (s *CachedTicketStore) listKey(generation uint64) string {
	return fmt.Sprintf("tickets:list:%s:%d", s.instance, generation)
}

// List returns the cached list when present, otherwise reads through.
func (s *CachedTicketStore) List(ctx context.Context) ([]domain.Ticket, error) {
	generation := s.generation.Load()
	key := s.listKey(generation)

	var cached []domain.Ticket
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		s.logger.Debug("ticket list cache hit", zap.String("key", key))
		return cached, nil
	case errors.Is(err, cache.ErrMiss):
		s.logger.Debug("ticket list cache miss", zap.String("key", key))
	default:
		s.logger.Warn("ticket list cache get failed (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)
		tickets, err := s.next.List(fillCtx)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == generation {
			if err := s.cache.Set(fillCtx, key, tickets, s.ttl); err != nil {
				s.logger.Warn("ticket list cache set failed", zap.String("key", key), zap.Error(err))
			}
		}
		return tickets, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]domain.Ticket)
	out := make([]domain.Ticket, len(shared))
	copy(out, shared)
	return out, nil
}

// UpdateStatus applies the change and invalidates the cached view before
// returning, so the caller's next List observes it.
func (s *CachedTicketStore) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (domain.StatusChange, error) {
	change, err := s.next.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return change, err
	}
	stale := s.generation.Add(1) - 1
	if err := s.cache.Delete(context.WithoutCancel(ctx), s.listKey(stale)); err != nil {
		s.logger.Warn("ticket list cache invalidation failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	return change, nil
}
