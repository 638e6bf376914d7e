package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp marks ticket records whose timestamps cannot be parsed.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// TimestampLayout is the layout used when the service writes timestamps.
const TimestampLayout = time.RFC3339Nano

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// TimestampError reports a ticket field that holds an unparseable timestamp.
type TimestampError struct {
	TicketID string
	Field    string
	Value    string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("ticket %s: %s %q is not a valid timestamp", e.TicketID, e.Field, e.Value)
}

func (e *TimestampError) Unwrap() error {
	return ErrMalformedTimestamp
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrMalformedTimestamp
}

// FormatTimestamp renders t the way the service stores timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CreatedTime parses CreatedAt.
func (t Ticket) CreatedTime() (time.Time, error) {
	parsed, err := ParseTimestamp(t.CreatedAt)
	if err != nil {
		return time.Time{}, &TimestampError{TicketID: t.ID, Field: "created_at", Value: t.CreatedAt}
	}
	return parsed, nil
}

// UpdatedTime parses UpdatedAt.
func (t Ticket) UpdatedTime() (time.Time, error) {
	parsed, err := ParseTimestamp(t.UpdatedAt)
	if err != nil {
		return time.Time{}, &TimestampError{TicketID: t.ID, Field: "updated_at", Value: t.UpdatedAt}
	}
	return parsed, nil
}
