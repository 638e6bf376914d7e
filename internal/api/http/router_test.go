package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/observability"
	"github.com/spec-kit/helpdesk-dashboard/internal/persistence"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	"github.com/spec-kit/helpdesk-dashboard/internal/service"
	"github.com/spec-kit/helpdesk-dashboard/internal/trends"
)

const (
	testEmail    = "manager@example.com"
	testPassword = "secret1"
)

type reporterFunc func(ctx context.Context, tickets []domain.Ticket) (domain.TrendReport, error)

func (f reporterFunc) Analyze(ctx context.Context, tickets []domain.Ticket) (domain.TrendReport, error) {
	return f(ctx, tickets)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	app     *fiber.App
	store   *repository.MemoryTicketStore
	metrics *observability.Metrics
}

func scenarioTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T1", EmployeeName: "Alice", Category: "Network", Status: domain.TicketStatusPending, Priority: domain.TicketPriorityHigh, CreatedAt: "2024-01-05", UpdatedAt: "2024-01-05"},
		{ID: "T2", EmployeeName: "Bob", Category: "Hardware", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityLow, CreatedAt: "2024-02-10", UpdatedAt: "2024-02-10"},
	}
}

func newTestServer(t *testing.T, reporter trends.Reporter, deps map[string]handlers.Pinger) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	store, err := repository.NewMemoryTicketStore(scenarioTickets())
	require.NoError(t, err)

	hashed, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	identity, err := auth.NewStaticProvider([]string{testEmail + ":" + hashed})
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", 60)
	dispatcher := events.NewInMemoryDispatcher()
	trendService := service.NewTrendService(service.TrendDependencies{
		Store:      store,
		Analyzer:   trends.NewAnalyzer(reporter, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	dashboard := service.NewDashboardService(store)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("helpdesk-dashboard", "test", deps),
		Metrics: handlers.NewMetricsHandler(metrics),
		Auth: handlers.NewAuthHandler(service.NewAuthService(service.AuthDependencies{
			Identity:     identity,
			TokenManager: tokens,
			Sessions:     trendService,
			Logger:       logger,
		})),
		Tickets: handlers.NewTicketsHandler(dashboard, service.NewStatusService(service.StatusDependencies{
			Store:      store,
			Dispatcher: dispatcher,
			Logger:     logger,
		})),
		Dashboard:      handlers.NewDashboardHandler(dashboard),
		Trends:         handlers.NewTrendsHandler(trendService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return &testServer{app: app, store: store, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/auth/login", "",
		`{"email":"`+testEmail+`","password":"`+testPassword+`"}`)
	require.Equal(t, nethttp.StatusOK, status, body)
	return body["data"].(map[string]any)["token"].(string)
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func staticReport(text string) trends.Reporter {
	return reporterFunc(func(context.Context, []domain.Ticket) (domain.TrendReport, error) {
		return domain.TrendReport{TrendReport: text}, nil
	})
}

func TestHealth(t *testing.T) {
	t.Run("disabled dependencies keep the service ready", func(t *testing.T) {
		var pg *persistence.Postgres
		var rd *persistence.Redis
		srv := newTestServer(t, staticReport("x"), map[string]handlers.Pinger{"postgres": pg, "redis": rd})

		status, body := srv.do(t, fiber.MethodGet, "/health/live", "", "")
		assert.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, "alive", body["status"])

		status, body = srv.do(t, fiber.MethodGet, "/health/ready", "", "")
		assert.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, map[string]any{"postgres": "disabled", "redis": "disabled"}, body["dependencies"])
	})

	t.Run("failing dependency", func(t *testing.T) {
		srv := newTestServer(t, staticReport("x"), map[string]handlers.Pinger{
			"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		})
		status, body := srv.do(t, fiber.MethodGet, "/health/ready", "", "")
		assert.Equal(t, nethttp.StatusServiceUnavailable, status)
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
	})
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, staticReport("x"), nil)

	token := srv.login(t)
	assert.NotEmpty(t, token)

	status, body := srv.do(t, fiber.MethodPost, "/auth/login", "", `{"email":"`+testEmail+`","password":"wrong-pass"}`)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password. Please try again.", body["error"].(map[string]any)["message"])

	status, body = srv.do(t, fiber.MethodPost, "/auth/login", "", `{"email":"nope","password":"123"}`)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, _ = srv.do(t, fiber.MethodPost, "/auth/login", "", `not json`)
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, staticReport("x"), nil)
	for _, path := range []string{"/api/tickets", "/api/dashboard/stats", "/api/trends/latest"} {
		status, body := srv.do(t, fiber.MethodGet, path, "", "")
		assert.Equal(t, nethttp.StatusUnauthorized, status, path)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body), path)
	}
}

func TestTickets(t *testing.T) {
	srv := newTestServer(t, staticReport("x"), nil)
	token := srv.login(t)

	t.Run("list in store order", func(t *testing.T) {
		status, body := srv.do(t, fiber.MethodGet, "/api/tickets", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		data := body["data"].([]any)
		require.Len(t, data, 2)
		first := data[0].(map[string]any)
		assert.Equal(t, "T1", first["ticket_id"])
		assert.Equal(t, "Alice", first["employee_name"])
		assert.Equal(t, "Pending", first["status"])
	})

	t.Run("filter and sort", func(t *testing.T) {
		status, body := srv.do(t, fiber.MethodGet, "/api/tickets?status=Resolved&search=BOB", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		require.Len(t, body["data"].([]any), 1)

		status, body = srv.do(t, fiber.MethodGet, "/api/tickets?sort=created_at&order=desc", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, "T2", body["data"].([]any)[0].(map[string]any)["ticket_id"])

		status, body = srv.do(t, fiber.MethodGet, "/api/tickets?sort=colour", token, "")
		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	})

	t.Run("update status then read your writes", func(t *testing.T) {
		status, body := srv.do(t, fiber.MethodPatch, "/api/tickets/T1/status", token, `{"status":"Resolved"}`)
		require.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, map[string]any{"success": true, "message": "Ticket T1 status updated to Resolved."}, body["data"])

		status, body = srv.do(t, fiber.MethodGet, "/api/dashboard/stats", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, map[string]any{"total": 2.0, "resolved": 2.0, "pending": 0.0, "in_progress": 0.0}, body["data"])
	})

	t.Run("unknown ticket", func(t *testing.T) {
		before, err := srv.store.List(context.Background())
		require.NoError(t, err)

		status, body := srv.do(t, fiber.MethodPatch, "/api/tickets/T9/status", token, `{"status":"Resolved"}`)
		assert.Equal(t, nethttp.StatusNotFound, status)
		data := body["data"].(map[string]any)
		assert.Equal(t, false, data["success"])
		assert.Contains(t, data["message"], "T9")

		after, err := srv.store.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("invalid status", func(t *testing.T) {
		status, body := srv.do(t, fiber.MethodPatch, "/api/tickets/T1/status", token, `{"status":"Closed"}`)
		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

		status, _ = srv.do(t, fiber.MethodPatch, "/api/tickets/T1/status", token, `{}`)
		assert.Equal(t, nethttp.StatusBadRequest, status)
	})
}

func TestDashboardCharts(t *testing.T) {
	srv := newTestServer(t, staticReport("x"), nil)
	token := srv.login(t)

	status, body := srv.do(t, fiber.MethodGet, "/api/dashboard/monthly", token, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, []any{
		map[string]any{"month": "Jan 2024", "name": "Jan", "tickets": 1.0},
		map[string]any{"month": "Feb 2024", "name": "Feb", "tickets": 1.0},
	}, body["data"])

	status, body = srv.do(t, fiber.MethodGet, "/api/dashboard/status-distribution", token, "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, []any{
		map[string]any{"status": "Pending", "count": 1.0},
		map[string]any{"status": "Resolved", "count": 1.0},
	}, body["data"])
}

func TestDataIntegrityError(t *testing.T) {
	srv := newTestServer(t, staticReport("x"), nil)
	require.NoError(t, srv.store.Reset(append(scenarioTickets(), domain.Ticket{
		ID: "T3", Status: domain.TicketStatusPending, CreatedAt: "n/a", UpdatedAt: "n/a",
	})))
	token := srv.login(t)

	status, body := srv.do(t, fiber.MethodGet, "/api/dashboard/monthly", token, "")
	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, "DATA_INTEGRITY", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "T3", details["ticket_id"])
}

func TestTrends(t *testing.T) {
	t.Run("generate and read latest", func(t *testing.T) {
		srv := newTestServer(t, reporterFunc(func(_ context.Context, tickets []domain.Ticket) (domain.TrendReport, error) {
			return domain.TrendReport{TrendReport: "2 tickets", ActionItems: "none"}, nil
		}), nil)
		token := srv.login(t)

		status, body := srv.do(t, fiber.MethodGet, "/api/trends/latest", token, "")
		assert.Equal(t, nethttp.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", errorCode(body))

		status, body = srv.do(t, fiber.MethodPost, "/api/trends", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		data := body["data"].(map[string]any)
		assert.Equal(t, "2 tickets", data["trendReport"])
		assert.Equal(t, "none", data["actionItems"])

		status, body = srv.do(t, fiber.MethodGet, "/api/trends/latest", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, "2 tickets", body["data"].(map[string]any)["trendReport"])

		status, _ = srv.do(t, fiber.MethodDelete, "/api/trends", token, "")
		assert.Equal(t, nethttp.StatusNoContent, status)
		status, _ = srv.do(t, fiber.MethodGet, "/api/trends/latest", token, "")
		assert.Equal(t, nethttp.StatusNotFound, status)
	})

	t.Run("analysis failure", func(t *testing.T) {
		srv := newTestServer(t, reporterFunc(func(context.Context, []domain.Ticket) (domain.TrendReport, error) {
			return domain.TrendReport{}, trends.ErrAnalysisFailed
		}), nil)
		token := srv.login(t)

		status, body := srv.do(t, fiber.MethodPost, "/api/trends", token, "")
		assert.Equal(t, nethttp.StatusBadGateway, status)
		assert.Equal(t, "ANALYSIS_FAILED", errorCode(body))
		assert.Equal(t, "Failed to generate trend report. Please try again.", body["error"].(map[string]any)["message"])
	})

	t.Run("logout abandons the session", func(t *testing.T) {
		srv := newTestServer(t, staticReport("kept"), nil)
		token := srv.login(t)

		status, _ := srv.do(t, fiber.MethodPost, "/api/trends", token, "")
		require.Equal(t, nethttp.StatusOK, status)
		status, _ = srv.do(t, fiber.MethodPost, "/auth/logout", token, "")
		assert.Equal(t, nethttp.StatusNoContent, status)

		status, _ = srv.do(t, fiber.MethodGet, "/api/trends/latest", token, "")
		assert.Equal(t, nethttp.StatusNotFound, status)
	})
}

func TestErrorsAndMetrics(t *testing.T) {
	srv := newTestServer(t, staticReport("x"), nil)

	status, body := srv.do(t, fiber.MethodGet, "/nowhere", "", "")
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	token := srv.login(t)
	status, _ = srv.do(t, fiber.MethodGet, "/api/tickets", token, "")
	require.Equal(t, nethttp.StatusOK, status)

	snapshot := srv.metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.Requests["/api/tickets|GET|200"])
	assert.Equal(t, int64(1), snapshot.Errors["/nowhere|GET|NOT_FOUND"])

	status, body = srv.do(t, fiber.MethodGet, "/metrics", "", "")
	require.Equal(t, nethttp.StatusOK, status)
	assert.Contains(t, body, "requests")
}
