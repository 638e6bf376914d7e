package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// PostgresTicketStore is a TicketStore backed by the tickets table.
type PostgresTicketStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketStore instantiates the store.
func NewPostgresTicketStore(pool *pgxpool.Pool) *PostgresTicketStore {
	return &PostgresTicketStore{pool: pool}
}

const ticketColumns = `ticket_id, employee_id, employee_name, avatar, category, description,
               status, priority, created_at, updated_at`

func (r *PostgresTicketStore) List(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY seq`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// UpdateStatus relies on the row lock taken by FOR UPDATE to serialize
// concurrent writers of the same ticket.
func (r *PostgresTicketStore) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (domain.StatusChange, error) {
	const query = `
        UPDATE tickets t
        SET status = $2,
            updated_at = GREATEST(NOW(), old.updated_at + INTERVAL '1 microsecond', old.created_at)
        FROM (SELECT ticket_id, status, updated_at, created_at FROM tickets WHERE ticket_id = $1 FOR UPDATE) old
        WHERE t.ticket_id = old.ticket_id
        RETURNING old.status, t.updated_at`

	var (
		oldStatus domain.TicketStatus
		updatedAt time.Time
	)
	if err := r.pool.QueryRow(ctx, query, ticketID, status).Scan(&oldStatus, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StatusChange{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
		}
		return domain.StatusChange{}, err
	}
	return domain.StatusChange{
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: status,
		UpdatedAt: domain.FormatTimestamp(updatedAt),
	}, nil
}

// SeedIfEmpty inserts tickets when the table has no rows. It returns the
// number of rows inserted.
func (r *PostgresTicketStore) SeedIfEmpty(ctx context.Context, tickets []domain.Ticket) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	const insert = `
        INSERT INTO tickets (` + ticketColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (ticket_id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, ticket := range tickets {
		createdAt, err := ticket.CreatedTime()
		if err != nil {
			return 0, err
		}
		updatedAt, err := ticket.UpdatedTime()
		if err != nil {
			return 0, err
		}
		batch.Queue(insert,
			ticket.ID,
			ticket.EmployeeID,
			ticket.EmployeeName,
			ticket.Avatar,
			ticket.Category,
			ticket.Description,
			ticket.Status,
			ticket.Priority,
			createdAt,
			updatedAt,
		)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range tickets {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var (
			ticket    domain.Ticket
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.EmployeeID,
			&ticket.EmployeeName,
			&ticket.Avatar,
			&ticket.Category,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}
		ticket.CreatedAt = domain.FormatTimestamp(createdAt)
		ticket.UpdatedAt = domain.FormatTimestamp(updatedAt)
		result = append(result, ticket)
	}
	return result, rows.Err()
}
