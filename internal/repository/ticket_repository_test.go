package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/persistence"
)

// newPostgresStore connects to TEST_POSTGRES_DSN, migrates and empties the
// tickets table. The database is wiped, so point it at a scratch instance.
func newPostgresStore(t *testing.T) *PostgresTicketStore {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, zaptest.NewLogger(t)))
	_, err = pool.Exec(ctx, `TRUNCATE tickets RESTART IDENTITY`)
	require.NoError(t, err)
	return NewPostgresTicketStore(pool)
}

func TestPostgresTicketStore_SeedAndList(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	inserted, err := store.SeedIfEmpty(ctx, sampleTickets())
	require.NoError(t, err)
	assert.Equal(t, len(sampleTickets()), inserted)

	inserted, err = store.SeedIfEmpty(ctx, []domain.Ticket{{ID: "T9", Status: domain.TicketStatusPending, CreatedAt: "2024-03-01", UpdatedAt: "2024-03-01"}})
	require.NoError(t, err)
	assert.Zero(t, inserted, "non-empty table is left alone")

	tickets, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for i, want := range sampleTickets() {
		got := tickets[i]
		assert.Equal(t, want.ID, got.ID, "insertion order")
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Priority, got.Priority)

		wantCreated, err := want.CreatedTime()
		require.NoError(t, err)
		gotCreated, err := got.CreatedTime()
		require.NoError(t, err)
		assert.True(t, wantCreated.Equal(gotCreated), got.ID)
	}
}

func TestPostgresTicketStore_UpdateStatus(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	_, err := store.SeedIfEmpty(ctx, sampleTickets())
	require.NoError(t, err)

	t.Run("reports old and new status", func(t *testing.T) {
		change, err := store.UpdateStatus(ctx, "T1", domain.TicketStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusPending, change.OldStatus)
		assert.Equal(t, domain.TicketStatusInProgress, change.NewStatus)

		tickets, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, tickets[0].Status)
		assert.Equal(t, change.UpdatedAt, tickets[0].UpdatedAt)
	})

	t.Run("updated_at strictly increases", func(t *testing.T) {
		var previous time.Time
		for i := 0; i < 5; i++ {
			change, err := store.UpdateStatus(ctx, "T2", domain.TicketStatusPending)
			require.NoError(t, err)
			at, err := domain.ParseTimestamp(change.UpdatedAt)
			require.NoError(t, err)
			assert.True(t, at.After(previous), "update %d", i)
			previous = at
		}
	})

	t.Run("concurrent writers are serialized", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			stamps  = map[string]bool{}
			targets = []domain.TicketStatus{domain.TicketStatusPending, domain.TicketStatusInProgress, domain.TicketStatusResolved}
		)
		for i := 0; i < 9; i++ {
			wg.Add(1)
			go func(status domain.TicketStatus) {
				defer wg.Done()
				change, err := store.UpdateStatus(ctx, "T1", status)
				assert.NoError(t, err)
				mu.Lock()
				stamps[change.UpdatedAt] = true
				mu.Unlock()
			}(targets[i%len(targets)])
		}
		wg.Wait()
		assert.Len(t, stamps, 9, "every write gets its own updated_at")
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := store.UpdateStatus(ctx, "missing", domain.TicketStatusResolved)
		assert.ErrorIs(t, err, ErrTicketNotFound)
		assert.ErrorContains(t, err, "missing")
	})
}
