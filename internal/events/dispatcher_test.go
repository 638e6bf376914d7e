package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcher(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string

	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, e Event) error {
		got = append(got, "first:"+e.TicketID)
		return errors.New("first failed")
	})
	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, e Event) error {
		got = append(got, "second:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventTrendReportGenerated, func(ctx context.Context, e Event) error {
		got = append(got, "trend")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketStatusChanged, TicketID: "T1"})
	assert.EqualError(t, err, "first failed")
	assert.Equal(t, []string{"first:T1", "second:T1"}, got)

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventType("unknown")}))
}

func TestInMemoryDispatcher_RecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	reached := false
	d.Subscribe(EventTrendReportGenerated, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventTrendReportGenerated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTrendReportGenerated})
	assert.ErrorIs(t, err, ErrHandlerPanic)
	assert.ErrorContains(t, err, "boom")
	assert.True(t, reached)
}
