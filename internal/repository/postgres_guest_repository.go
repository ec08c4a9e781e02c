package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rsvp-service/internal/domain"
)

const pgUniqueViolation = "23505"

type postgresGuestRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGuestRepository returns a Postgres-backed implementation.
// Each operation checks one connection out of the pool for its duration
// and releases it on every exit path.
func NewPostgresGuestRepository(pool *pgxpool.Pool) GuestRepository {
	return &postgresGuestRepository{pool: pool}
}

func (r *postgresGuestRepository) FindActiveByName(ctx context.Context, name string) (*domain.Guest, error) {
	const query = `
        SELECT id, name, created_at, deleted_at
        FROM guests
        WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL`

	var guest domain.Guest
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&guest.ID,
		&guest.Name,
		&guest.ConfirmedAt,
		&guest.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find guest by name: %w", err)
	}
	return &guest, nil
}

func (r *postgresGuestRepository) Insert(ctx context.Context, name string) (*domain.Guest, error) {
	const query = `
        INSERT INTO guests (name)
        VALUES ($1)
        RETURNING id, created_at`

	guest := domain.Guest{Name: name}
	err := r.pool.QueryRow(ctx, query, name).Scan(&guest.ID, &guest.ConfirmedAt)
	if err != nil {
		// The check-then-insert in the service is not atomic; the partial
		// unique index on LOWER(name) is what actually enforces uniqueness
		// under concurrent identical submissions.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateGuest
		}
		return nil, fmt.Errorf("insert guest: %w", err)
	}
	return &guest, nil
}

func (r *postgresGuestRepository) ListActive(ctx context.Context) ([]domain.Guest, error) {
	const query = `
        SELECT id, name, created_at, deleted_at
        FROM guests
        WHERE deleted_at IS NULL
        ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.ID, &g.Name, &g.ConfirmedAt, &g.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}
