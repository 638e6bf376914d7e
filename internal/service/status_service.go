package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util/errorutil"
)

// StatusService is the only path through which ticket status changes.
type StatusService struct {
	store      repository.TicketStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// StatusDependencies bundles collaborators for the status service.
type StatusDependencies struct {
	Store      repository.TicketStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewStatusService builds the service.
func NewStatusService(deps StatusDependencies) *StatusService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{store: deps.Store, dispatcher: deps.Dispatcher, logger: logger}
}

// UpdateStatus validates rawStatus and applies it. An unknown status is a
// validation error and leaves the store untouched. An unknown ticket is not
// an error: it yields an unsuccessful result naming the id.
func (s *StatusService) UpdateStatus(ctx context.Context, actor events.Actor, ticketID, rawStatus string) (domain.StatusUpdateResult, error) {
	status, err := domain.ParseTicketStatus(rawStatus)
	if err != nil {
		return domain.StatusUpdateResult{}, apperrors.NewValidationError("invalid ticket status", map[string]any{
			"status":  rawStatus,
			"allowed": domain.TicketStatuses,
		})
	}

	change, err := s.store.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return domain.StatusUpdateResult{
				Success: false,
				Message: fmt.Sprintf("Ticket %s not found.", ticketID),
			}, nil
		}
		return domain.StatusUpdateResult{}, err
	}

	s.logger.Info("ticket status updated",
		zap.String("ticket_id", change.TicketID),
		zap.String("old_status", string(change.OldStatus)),
		zap.String("new_status", string(change.NewStatus)),
		zap.String("user_id", actor.UserID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: change.TicketID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: change.OldStatus,
			NewStatus: change.NewStatus,
			UpdatedAt: change.UpdatedAt,
		},
	})

	return domain.StatusUpdateResult{
		Success: true,
		Message: fmt.Sprintf("Ticket %s status updated to %s.", ticketID, status),
	}, nil
}

func (s *StatusService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

// publishEvent fills in id and timestamp and hands the event to the
// dispatcher. Handler failures are logged, never returned to the caller.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
