package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	"github.com/spec-kit/helpdesk-dashboard/internal/trends"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util/errorutil"
)

// TrendService analyzes the current ticket set for a signed-in session.
type TrendService struct {
	store      repository.TicketStore
	analyzer   *trends.Analyzer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TrendDependencies bundles collaborators for the trend service.
type TrendDependencies struct {
	Store      repository.TicketStore
	Analyzer   *trends.Analyzer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTrendService builds the service.
func NewTrendService(deps TrendDependencies) *TrendService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrendService{
		store:      deps.Store,
		analyzer:   deps.Analyzer,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Generate analyzes every ticket in the store. A result overtaken by a
// newer request from the same session is reported as superseded.
func (s *TrendService) Generate(ctx context.Context, sessionID string, actor events.Actor) (trends.Result, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return trends.Result{}, err
	}

	result, err := s.analyzer.Run(ctx, sessionID, tickets)
	switch {
	case errors.Is(err, trends.ErrSuperseded):
		return trends.Result{}, apperrors.NewSuperseded(map[string]any{"token": result.Token})
	case err != nil:
		s.logger.Warn("trend report failed", zap.String("session_id", sessionID), zap.Error(err))
		return trends.Result{}, apperrors.NewAnalysisFailed(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:  events.EventTrendReportGenerated,
		Actor: actor,
		Payload: events.TrendReportGeneratedPayload{
			Token:          result.Token,
			TicketCount:    len(tickets),
			HasActionItems: result.Report.HasActionItems(),
		},
	})
	return result, nil
}

// Latest returns the session's last accepted report.
func (s *TrendService) Latest(sessionID string) (trends.Result, error) {
	result, ok := s.analyzer.Latest(sessionID)
	if !ok {
		return trends.Result{}, apperrors.NewNotFound("trend report", map[string]any{})
	}
	return result, nil
}

// Abandon discards in-flight and stored results for the session.
func (s *TrendService) Abandon(sessionID string) {
	s.analyzer.Abandon(sessionID)
}
