package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// SortKey names a sortable ticket column.
type SortKey string

const (
	SortByCreatedAt SortKey = "created_at"
	SortByStatus    SortKey = "status"
	SortByPriority  SortKey = "priority"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortKey defaults to created_at.
func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case "":
		return SortByCreatedAt, nil
	case SortByCreatedAt, SortByStatus, SortByPriority:
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

// ParseSortDirection defaults to desc, newest tickets first.
func ParseSortDirection(raw string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", raw)
}

// Sort returns a stably ordered copy of tickets. Status and priority compare
// by label text, so "Medium" sorts between "High" and "Low". A created_at
// that does not parse yields a *domain.TimestampError.
func Sort(tickets []domain.Ticket, key SortKey, direction SortDirection) ([]domain.Ticket, error) {
	type entry struct {
		ticket  domain.Ticket
		created time.Time
	}
	entries := make([]entry, len(tickets))
	for i, ticket := range tickets {
		entries[i].ticket = ticket
		if key == SortByCreatedAt {
			at, err := ticket.CreatedTime()
			if err != nil {
				return nil, err
			}
			entries[i].created = at
		}
	}

	var compare func(a, b entry) int
	switch key {
	case SortByCreatedAt:
		compare = func(a, b entry) int { return a.created.Compare(b.created) }
	case SortByStatus:
		compare = func(a, b entry) int { return cmp.Compare(a.ticket.Status, b.ticket.Status) }
	case SortByPriority:
		compare = func(a, b entry) int { return cmp.Compare(a.ticket.Priority, b.ticket.Priority) }
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	switch direction {
	case Ascending:
	case Descending:
		asc := compare
		compare = func(a, b entry) int { return asc(b, a) }
	default:
		return nil, fmt.Errorf("unknown sort direction %q", direction)
	}

	slices.SortStableFunc(entries, compare)
	out := make([]domain.Ticket, len(entries))
	for i, e := range entries {
		out[i] = e.ticket
	}
	return out, nil
}
