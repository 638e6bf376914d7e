package service

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/query"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util/errorutil"
)

// TicketQuery describes the optional list parameters. Zero values mean no
// search, no status filter and store order.
type TicketQuery struct {
	Search    string
	Status    query.StatusFilter
	SortKey   query.SortKey
	Direction query.SortDirection
}

// ParseTicketQuery validates raw list parameters. When sortKey and
// direction are both empty the result keeps store order.
func ParseTicketQuery(search, status, sortKey, direction string) (TicketQuery, error) {
	filter, err := query.ParseStatusFilter(status)
	if err != nil {
		return TicketQuery{}, apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
	}
	q := TicketQuery{Search: search, Status: filter}
	if sortKey == "" && direction == "" {
		return q, nil
	}
	if q.SortKey, err = query.ParseSortKey(sortKey); err != nil {
		return TicketQuery{}, apperrors.NewValidationError("invalid sort key", map[string]any{"sort": sortKey})
	}
	if q.Direction, err = query.ParseSortDirection(direction); err != nil {
		return TicketQuery{}, apperrors.NewValidationError("invalid sort order", map[string]any{"order": direction})
	}
	return q, nil
}

// DashboardService reads the ticket store and runs the query engine over
// the snapshot.
type DashboardService struct {
	store repository.TicketStore
}

// NewDashboardService builds the service.
func NewDashboardService(store repository.TicketStore) *DashboardService {
	return &DashboardService{store: store}
}

// ListTickets returns the tickets matching q.
func (s *DashboardService) ListTickets(ctx context.Context, q TicketQuery) ([]domain.Ticket, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	status := q.Status
	if status == "" {
		status = query.StatusAll
	}
	tickets = query.Filter(tickets, q.Search, status)
	if q.SortKey == "" {
		return tickets, nil
	}
	sorted, err := query.Sort(tickets, q.SortKey, q.Direction)
	if err != nil {
		return nil, dataIntegrityError(err)
	}
	return sorted, nil
}

// Stats returns the summary counts for the whole store.
func (s *DashboardService) Stats(ctx context.Context) (query.Counts, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return query.Counts{}, err
	}
	return query.AggregateCounts(tickets), nil
}

// MonthlySeries returns the ticket volume of the latest months.
func (s *DashboardService) MonthlySeries(ctx context.Context) ([]query.MonthCount, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	series, err := query.MonthlySeries(tickets)
	if err != nil {
		return nil, dataIntegrityError(err)
	}
	return series, nil
}

// StatusDistribution returns the non-empty status slices.
func (s *DashboardService) StatusDistribution(ctx context.Context) ([]query.StatusCount, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.StatusDistribution(tickets), nil
}

func dataIntegrityError(err error) error {
	var tsErr *domain.TimestampError
	if errors.As(err, &tsErr) {
		return apperrors.NewDataIntegrity("ticket data contains a malformed timestamp", map[string]any{
			"ticket_id": tsErr.TicketID,
			"field":     tsErr.Field,
			"value":     tsErr.Value,
		}, err)
	}
	return err
}
