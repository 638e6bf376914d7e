package query

import (
	"slices"
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// MonthlyWindow is how many of the most recent months MonthlySeries keeps.
const MonthlyWindow = 6

// Counts holds the dashboard summary cards.
type Counts struct {
	Total      int
	Resolved   int
	Pending    int
	InProgress int
}

// AggregateCounts counts tickets by status.
func AggregateCounts(tickets []domain.Ticket) Counts {
	counts := Counts{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusResolved:
			counts.Resolved++
		case domain.TicketStatusPending:
			counts.Pending++
		case domain.TicketStatusInProgress:
			counts.InProgress++
		}
	}
	return counts
}

// MonthCount is one bar of the monthly chart.
type MonthCount struct {
	// Label is the month and year, e.g. "Jan 2024".
	Label string
	// Name is the short month used as the axis tick, e.g. "Jan".
	Name  string
	Month time.Time
	Count int
}

// MonthlySeries groups tickets by the UTC calendar month of created_at and
// returns the latest MonthlyWindow months that have tickets, oldest first.
func MonthlySeries(tickets []domain.Ticket) ([]MonthCount, error) {
	counts := make(map[time.Time]int)
	for _, ticket := range tickets {
		created, err := ticket.CreatedTime()
		if err != nil {
			return nil, err
		}
		created = created.UTC()
		month := time.Date(created.Year(), created.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month]++
	}

	months := make([]time.Time, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	slices.SortFunc(months, time.Time.Compare)
	if len(months) > MonthlyWindow {
		months = months[len(months)-MonthlyWindow:]
	}

	series := make([]MonthCount, 0, len(months))
	for _, month := range months {
		series = append(series, MonthCount{
			Label: month.Format("Jan 2006"),
			Name:  month.Format("Jan"),
			Month: month,
			Count: counts[month],
		})
	}
	return series, nil
}

// StatusCount is one slice of the status distribution chart.
type StatusCount struct {
	Status domain.TicketStatus
	Count  int
}

// StatusDistribution returns per-status counts in display order, leaving out
// statuses with no tickets.
func StatusDistribution(tickets []domain.Ticket) []StatusCount {
	counts := AggregateCounts(tickets)
	all := []StatusCount{
		{Status: domain.TicketStatusPending, Count: counts.Pending},
		{Status: domain.TicketStatusInProgress, Count: counts.InProgress},
		{Status: domain.TicketStatusResolved, Count: counts.Resolved},
	}
	out := make([]StatusCount, 0, len(all))
	for _, slice := range all {
		if slice.Count > 0 {
			out = append(out, slice)
		}
	}
	return out
}
