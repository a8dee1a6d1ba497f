package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decretos-hr/decretos/internal/platform/httpx"
)

var (
	// ErrNotFound indicates the roster entry does not exist.
	ErrNotFound = fmt.Errorf("employee %w", httpx.ErrNotFound)
	// ErrDuplicateRUT indicates the RUT is already on the roster.
	ErrDuplicateRUT = fmt.Errorf("%w rut on roster", httpx.ErrDuplicate)
)

// Repository exposes roster persistence.
type Repository interface {
	ListAll(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, e Employee) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a pgx-backed roster repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListAll(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, rut, full_name, department, created_at, updated_at FROM employees ORDER BY full_name, id")
	if err != nil {
		return nil, fmt.Errorf("employees: list: %w", err)
	}
	defer rows.Close()

	items := make([]Employee, 0)
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.RUT, &e.Name, &e.Department, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("employees: scan: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("employees: rows: %w", err)
	}
	return items, nil
}

func (r *repository) Create(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO employees (rut, full_name, department, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		e.RUT, e.Name, e.Department, e.CreatedAt, e.UpdatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateRUT
		}
		return 0, fmt.Errorf("employees: create: %w", err)
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("employees: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
