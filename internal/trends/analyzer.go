package trends

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// ErrSuperseded is returned for an analysis whose session issued a newer
// request, or was abandoned, before the result arrived.
var ErrSuperseded = errors.New("trend analysis superseded by a newer request")

// Result is an accepted report and the request token that produced it.
type Result struct {
	Token       uint64
	Report      domain.TrendReport
	GeneratedAt time.Time
}

// DefaultIdleTTL is how long a session with nothing in flight is kept after
// its last use.
const DefaultIdleTTL = time.Hour

type analysisSession struct {
	latestToken uint64
	latest      *Result
	inflight    int
	touched     time.Time
}

// AnalyzerOption customizes an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithIdleTTL sets how long an idle session survives. Non-positive values
// keep the default.
func WithIdleTTL(ttl time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		if ttl > 0 {
			a.idleTTL = ttl
		}
	}
}

// Analyzer runs analyses on behalf of sessions and only accepts the result
// of each session's most recently issued request. Tokens come from one
// counter shared by all sessions, so a token is never reused even after a
// session is abandoned and started again. Sessions with no request in flight
// that were not used for the idle TTL are evicted when a request is issued.
type Analyzer struct {
	reporter Reporter
	logger   *zap.Logger
	nowF     func() time.Time
	idleTTL  time.Duration

	mu        sync.Mutex
	lastToken uint64
	sessions  map[string]*analysisSession
}

// NewAnalyzer wraps reporter.
func NewAnalyzer(reporter Reporter, logger *zap.Logger, opts ...AnalyzerOption) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		reporter: reporter,
		logger:   logger,
		nowF:     time.Now,
		idleTTL:  DefaultIdleTTL,
		sessions: make(map[string]*analysisSession),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run issues a new request for sessionID. Issuing clears the session's
// previous report. When the reporter returns after a newer request was
// issued for the session, Run discards the outcome and returns ErrSuperseded.
func (a *Analyzer) Run(ctx context.Context, sessionID string, tickets []domain.Ticket) (Result, error) {
	token, session := a.issue(sessionID)

	report, err := a.reporter.Analyze(ctx, tickets)

	a.mu.Lock()
	defer a.mu.Unlock()
	session.inflight--
	session.touched = a.nowF()
	if a.sessions[sessionID] != session || session.latestToken != token {
		a.logger.Debug("discarding stale trend analysis",
			zap.String("session_id", sessionID),
			zap.Uint64("token", token))
		return Result{Token: token}, ErrSuperseded
	}
	if err != nil {
		return Result{Token: token}, err
	}
	session.latest = &Result{Token: token, Report: report, GeneratedAt: a.nowF()}
	return *session.latest, nil
}

func (a *Analyzer) issue(sessionID string) (uint64, *analysisSession) {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.nowF()
	a.evictIdle(now)

	a.lastToken++
	token := a.lastToken
	session, ok := a.sessions[sessionID]
	if !ok {
		session = &analysisSession{}
		a.sessions[sessionID] = session
	}
	session.latestToken = token
	session.latest = nil
	session.inflight++
	session.touched = now
	return token, session
}

// evictIdle drops sessions that have nothing in flight and were last used
// more than idleTTL before now. Callers hold a.mu.
func (a *Analyzer) evictIdle(now time.Time) {
	for id, session := range a.sessions {
		if session.inflight == 0 && now.Sub(session.touched) > a.idleTTL {
			delete(a.sessions, id)
			a.logger.Debug("evicted idle trend session", zap.String("session_id", id))
		}
	}
}

// Sessions returns how many sessions are currently tracked.
func (a *Analyzer) Sessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// Latest returns the session's accepted report, if any.
func (a *Analyzer) Latest(sessionID string) (Result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	session, ok := a.sessions[sessionID]
	if !ok || session.latest == nil {
		return Result{}, false
	}
	session.touched = a.nowF()
	return *session.latest, true
}

// Abandon forgets the session. Requests still in flight for it finish with
// ErrSuperseded.
func (a *Analyzer) Abandon(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, sessionID)
}
