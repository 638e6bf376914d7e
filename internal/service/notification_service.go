package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/config"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
)

// NotifiedEvents lists the event types NotificationService reacts to.
var NotifiedEvents = []events.EventType{
	events.EventTicketStatusChanged,
	events.EventTrendReportGenerated,
}

const webhookTimeout = 5 * time.Second

// NotificationService turns domain events into outbound notifications.
// Status changes are POSTed as JSON to the configured webhook. Email is a
// stub that only logs what it would send.
type NotificationService struct {
	logger     *zap.Logger
	cfg        config.NotificationConfig
	httpClient *http.Client
}

// NotificationOption customizes a NotificationService.
type NotificationOption func(*NotificationService)

// WithWebhookClient replaces the HTTP client used for webhook delivery.
func WithWebhookClient(client *http.Client) NotificationOption {
	return func(n *NotificationService) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig, opts ...NotificationOption) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &NotificationService{
		logger:     logger,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: webhookTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify delivers the notifications for one event. Unknown event types are
// ignored. It has the events.EventHandler shape so it can be subscribed
// directly or driven by a worker.
func (n *NotificationService) Notify(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventTicketStatusChanged:
		n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
		return n.postWebhook(ctx, event)
	case events.EventTrendReportGenerated:
		n.logger.Info("TrendReportGenerated", zap.String("user_id", event.Actor.UserID), zap.Any("payload", event.Payload))
		n.sendEmailNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || event.Actor.Email == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Actor.Email),
		zap.String("event_type", string(event.Type)))
}

// postWebhook delivers event as JSON. Any non-2xx answer is an error so the
// worker logs the failed delivery.
func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook answered HTTP %d", resp.StatusCode)
	}
	n.logger.Debug("webhook delivered",
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.Int("status", resp.StatusCode))
	return nil
}
