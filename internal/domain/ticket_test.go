package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TicketStatus
	}{
		{"Pending", TicketStatusPending},
		{"In Progress", TicketStatusInProgress},
		{"Resolved", TicketStatusResolved},
		{"  Resolved ", TicketStatusResolved},
		{"InProgress", TicketStatusInProgress},
		{"in_progress", TicketStatusInProgress},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseTicketStatus(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, raw := range []string{"", "Closed", "pending", "all"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParseTicketStatus(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseTicketPriority(t *testing.T) {
	for raw, want := range map[string]TicketPriority{
		"High":   TicketPriorityHigh,
		"medium": TicketPriorityMedium,
		" LOW ":  TicketPriorityLow,
	} {
		got, err := ParseTicketPriority(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
		assert.True(t, got.Valid())
	}

	for _, raw := range []string{"", "Urgent", "P1"} {
		_, err := ParseTicketPriority(raw)
		assert.Error(t, err, raw)
		assert.False(t, TicketPriority(raw).Valid())
	}
}

func TestCheckTimestampOrder(t *testing.T) {
	cases := []struct {
		name    string
		ticket  Ticket
		wantErr bool
	}{
		{"same day", Ticket{ID: "A", CreatedAt: "2024-01-05", UpdatedAt: "2024-01-05"}, false},
		{"later update", Ticket{ID: "A", CreatedAt: "2024-01-05", UpdatedAt: "2024-01-05T00:00:01Z"}, false},
		{"offsets compared as instants", Ticket{ID: "A", CreatedAt: "2024-01-05T10:00:00+02:00", UpdatedAt: "2024-01-05T08:30:00Z"}, false},
		{"update precedes creation", Ticket{ID: "A", CreatedAt: "2024-05-01", UpdatedAt: "2023-01-01"}, true},
		{"malformed created", Ticket{ID: "A", CreatedAt: "n/a", UpdatedAt: "2023-01-01"}, false},
		{"malformed updated", Ticket{ID: "A", CreatedAt: "2024-05-01", UpdatedAt: "soon"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ticket.CheckTimestampOrder()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrTimestampOrder)
				assert.ErrorContains(t, err, "A")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Run("accepted layouts", func(t *testing.T) {
		for value, want := range map[string]time.Time{
			"2024-01-05":               time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			"2024-01-05T10:30:00":      time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
			"2024-01-05T10:30:00Z":     time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
			"2024-01-05T10:30:00.250Z": time.Date(2024, 1, 5, 10, 30, 0, 250_000_000, time.UTC),
		} {
			got, err := ParseTimestamp(value)
			require.NoError(t, err, value)
			assert.True(t, want.Equal(got), value)
		}
	})

	t.Run("rejects malformed", func(t *testing.T) {
		_, err := ParseTimestamp("05/01/2024")
		assert.ErrorIs(t, err, ErrMalformedTimestamp)
	})

	t.Run("format round trip", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 12, 0, 0, 1000, time.FixedZone("CET", 3600))
		parsed, err := ParseTimestamp(FormatTimestamp(at))
		require.NoError(t, err)
		assert.True(t, at.Equal(parsed))
	})
}

func TestTicketTimes(t *testing.T) {
	ticket := Ticket{ID: "T1", CreatedAt: "2024-01-05", UpdatedAt: "yesterday"}

	created, err := ticket.CreatedTime()
	require.NoError(t, err)
	assert.Equal(t, 2024, created.Year())

	_, err = ticket.UpdatedTime()
	var tsErr *TimestampError
	require.True(t, errors.As(err, &tsErr))
	assert.Equal(t, "T1", tsErr.TicketID)
	assert.Equal(t, "updated_at", tsErr.Field)
	assert.Equal(t, "yesterday", tsErr.Value)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestTrendReportHasActionItems(t *testing.T) {
	assert.False(t, TrendReport{TrendReport: "quiet week"}.HasActionItems())
	assert.True(t, TrendReport{TrendReport: "spike", ActionItems: "add staff"}.HasActionItems())
}
