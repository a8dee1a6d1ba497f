package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decretos-hr/decretos/internal/platform/httpx"
)

var (
	// ErrNotFound indicates the holiday does not exist.
	ErrNotFound = fmt.Errorf("holiday %w", httpx.ErrNotFound)
	// ErrDuplicateDate indicates the date is already designated.
	ErrDuplicateDate = fmt.Errorf("%w holiday date", httpx.ErrDuplicate)
)

// Repository exposes holiday persistence.
type Repository interface {
	ListAll(ctx context.Context) ([]Holiday, error)
	Create(ctx context.Context, h Holiday) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a pgx-backed holiday repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListAll(ctx context.Context) ([]Holiday, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, holiday_date, name, created_at FROM holidays ORDER BY holiday_date")
	if err != nil {
		return nil, fmt.Errorf("calendar: list: %w", err)
	}
	defer rows.Close()

	items := make([]Holiday, 0)
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("calendar: scan: %w", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calendar: rows: %w", err)
	}
	return items, nil
}

func (r *repository) Create(ctx context.Context, h Holiday) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		"INSERT INTO holidays (holiday_date, name, created_at) VALUES ($1,$2,$3) RETURNING id",
		h.Date, h.Name, h.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateDate
		}
		return 0, fmt.Errorf("calendar: create: %w", err)
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM holidays WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("calendar: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
