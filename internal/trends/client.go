// Package trends produces narrative trend reports for a ticket set by asking
// an OpenAI-compatible chat completions endpoint.
package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/config"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// ErrAnalysisFailed wraps every failure to obtain a usable report: transport
// errors, provider errors and responses that do not have the expected shape.
var ErrAnalysisFailed = errors.New("trend analysis failed")

// Instructions is the fixed system prompt sent with every analysis.
const Instructions = "You are an expert IT helpdesk analyst. Analyze the following ticket data " +
	"to identify trends, common issues, and provide resource allocation recommendations. " +
	"If trends are identified, provide specific action items for managers.\n\n" +
	"Respond with a JSON object containing a string field \"trendReport\" and, when you have " +
	"action items, a string field \"actionItems\"."

// Reporter turns a ticket set into a trend report.
type Reporter interface {
	Analyze(ctx context.Context, tickets []domain.Ticket) (domain.TrendReport, error)
}

// ProviderError is returned when the model endpoint answers with a non-200 status.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("trends: HTTP %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("trends: HTTP %d: %s", e.StatusCode, e.Message)
}

// maxResponseBytes caps how much of a success body is decoded. Anything
// longer is cut off and fails to decode.
const maxResponseBytes = 1 << 20

// Client calls the chat completions API.
type Client struct {
	httpClient *http.Client
	cfg        config.TrendsConfig
	logger     *zap.Logger
}

// NewClient builds a Client. A nil httpClient gets one with the configured timeout.
func NewClient(httpClient *http.Client, cfg config.TrendsConfig, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{httpClient: httpClient, cfg: cfg, logger: logger}
}

// ticketProjection is the part of a ticket the model sees.
type ticketProjection struct {
	Category    string                `json:"category"`
	Description string                `json:"description"`
	CreatedAt   string                `json:"created_at"`
	Priority    domain.TicketPriority `json:"priority"`
}

// TicketData serializes the projection of tickets the model receives. An
// empty set encodes as "[]".
func TicketData(tickets []domain.Ticket) (string, error) {
	projected := make([]ticketProjection, len(tickets))
	for i, ticket := range tickets {
		projected[i] = ticketProjection{
			Category:    ticket.Category,
			Description: ticket.Description,
			CreatedAt:   ticket.CreatedAt,
			Priority:    ticket.Priority,
		}
	}
	raw, err := json.Marshal(projected)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type chatRequest struct {
	Model          string              `json:"model"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type reportPayload struct {
	TrendReport *string `json:"trendReport"`
	ActionItems *string `json:"actionItems"`
}

// Analyze sends one request for tickets and parses the two-field report.
func (c *Client) Analyze(ctx context.Context, tickets []domain.Ticket) (domain.TrendReport, error) {
	ticketData, err := TicketData(tickets)
	if err != nil {
		return domain.TrendReport{}, fmt.Errorf("%w: encoding ticket data: %w", ErrAnalysisFailed, err)
	}

	request := chatRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: Instructions},
			{Role: "user", Content: "Ticket Data: " + ticketData},
		},
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	}

	response, err := c.do(ctx, request)
	if err != nil {
		c.logger.Warn("trend analysis request failed", zap.Int("tickets", len(tickets)), zap.Error(err))
		return domain.TrendReport{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	report, err := parseReport(response)
	if err != nil {
		c.logger.Warn("trend analysis response unusable", zap.String("model", response.Model), zap.Error(err))
		return domain.TrendReport{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	c.logger.Debug("trend analysis completed",
		zap.Int("tickets", len(tickets)),
		zap.String("model", response.Model),
		zap.Bool("action_items", report.HasActionItems()))
	return report, nil
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
}

func (c *Client) do(ctx context.Context, request chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, readProviderError(httpResponse)
	}

	var response chatResponse
	if err := json.NewDecoder(io.LimitReader(httpResponse.Body, maxResponseBytes)).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &response, nil
}

// readProviderError parses {"error":{"type":"...","message":"..."}} and
// falls back to the raw body.
func readProviderError(httpResponse *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))

	var wireError struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &ProviderError{
			StatusCode: httpResponse.StatusCode,
			Type:       wireError.Error.Type,
			Message:    wireError.Error.Message,
		}
	}
	return &ProviderError{StatusCode: httpResponse.StatusCode, Message: string(body)}
}

func parseReport(response *chatResponse) (domain.TrendReport, error) {
	if len(response.Choices) == 0 {
		return domain.TrendReport{}, errors.New("response has no choices")
	}
	content := stripCodeFence(response.Choices[0].Message.Content)
	if content == "" {
		return domain.TrendReport{}, errors.New("response content is empty")
	}

	var payload reportPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.TrendReport{}, fmt.Errorf("decoding report: %w", err)
	}
	if payload.TrendReport == nil {
		return domain.TrendReport{}, errors.New("report is missing trendReport")
	}

	report := domain.TrendReport{TrendReport: *payload.TrendReport}
	if payload.ActionItems != nil {
		report.ActionItems = *payload.ActionItems
	}
	return report, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even in
// JSON mode.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
