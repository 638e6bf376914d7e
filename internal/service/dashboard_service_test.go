package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/query"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util/errorutil"
)

func TestParseTicketQuery(t *testing.T) {
	q, err := ParseTicketQuery("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, TicketQuery{Status: query.StatusAll}, q)

	q, err = ParseTicketQuery("ali", "Pending", "priority", "")
	require.NoError(t, err)
	assert.Equal(t, TicketQuery{
		Search:    "ali",
		Status:    query.StatusFilter(domain.TicketStatusPending),
		SortKey:   query.SortByPriority,
		Direction: query.Descending,
	}, q)

	for _, args := range [][4]string{
		{"", "Closed", "", ""},
		{"", "", "name", ""},
		{"", "", "status", "up"},
	} {
		_, err := ParseTicketQuery(args[0], args[1], args[2], args[3])
		assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code, args)
	}
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	svc := NewDashboardService(newStore(t, scenarioTickets()))

	t.Run("list without parameters keeps store order", func(t *testing.T) {
		tickets, err := svc.ListTickets(ctx, TicketQuery{})
		require.NoError(t, err)
		assert.Equal(t, scenarioTickets(), tickets)
	})

	t.Run("list filters and sorts", func(t *testing.T) {
		tickets, err := svc.ListTickets(ctx, TicketQuery{Status: query.StatusAll, SortKey: query.SortByCreatedAt, Direction: query.Descending})
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, "T2", tickets[0].ID)

		tickets, err = svc.ListTickets(ctx, TicketQuery{Status: query.StatusFilter(domain.TicketStatusPending)})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "T1", tickets[0].ID)
	})

	t.Run("stats", func(t *testing.T) {
		counts, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, query.Counts{Total: 2, Resolved: 1, Pending: 1}, counts)
	})

	t.Run("monthly", func(t *testing.T) {
		series, err := svc.MonthlySeries(ctx)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, "Jan 2024", series[0].Label)
		assert.Equal(t, "Feb 2024", series[1].Label)
	})

	t.Run("distribution", func(t *testing.T) {
		slices, err := svc.StatusDistribution(ctx)
		require.NoError(t, err)
		assert.Len(t, slices, 2)
	})
}

func TestDashboardService_MalformedTimestamp(t *testing.T) {
	ctx := context.Background()
	tickets := append(scenarioTickets(), domain.Ticket{ID: "T3", Status: domain.TicketStatusPending, CreatedAt: "soon", UpdatedAt: "soon"})
	svc := NewDashboardService(newStore(t, tickets))

	_, err := svc.MonthlySeries(ctx)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeDataIntegrity, domainErr.Code)
	assert.Equal(t, "T3", domainErr.Details["ticket_id"])
	assert.Equal(t, "created_at", domainErr.Details["field"])
	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)

	_, err = svc.ListTickets(ctx, TicketQuery{SortKey: query.SortByCreatedAt, Direction: query.Ascending})
	assert.Equal(t, apperrors.CodeDataIntegrity, apperrors.ToDomainError(err).Code)

	counts, err := svc.Stats(ctx)
	require.NoError(t, err, "counts do not read timestamps")
	assert.Equal(t, 3, counts.Total)
}
