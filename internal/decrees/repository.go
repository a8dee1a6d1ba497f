package decrees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decretos-hr/decretos/internal/platform/httpx"
)

var (
	// ErrNotFound indicates the decree does not exist.
	ErrNotFound = fmt.Errorf("decree %w", httpx.ErrNotFound)
	// ErrDuplicateAct indicates another decree already carries the act number.
	ErrDuplicateAct = fmt.Errorf("%w act number", httpx.ErrDuplicate)
)

// Repository exposes decree persistence.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Decree, int, error)
	ListAll(ctx context.Context) ([]Decree, error)
	Get(ctx context.Context, id string) (*Decree, error)
	Create(ctx context.Context, d Decree) error
	Update(ctx context.Context, d Decree) error
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository builds a pgx-backed decree repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const decreeColumns = `id, act_number, rut, full_name, kind, start_date, end_date, days,
	days_entitled, first_before, first_after, second_before, second_after, notes,
	created_at, updated_at`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Decree, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.RUT != "" {
		args = append(args, filter.RUT)
		where += fmt.Sprintf(" AND rut = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		where += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		where += fmt.Sprintf(" AND start_date >= $%d", len(args))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		where += fmt.Sprintf(" AND start_date <= $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM decrees"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("decrees: count: %w", err)
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query := "SELECT " + decreeColumns + " FROM decrees" + where +
		fmt.Sprintf(" ORDER BY start_date DESC, act_number LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("decrees: list: %w", err)
	}
	defer rows.Close()

	items, err := scanDecrees(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Decree, error) {
	rows, err := r.db.Query(ctx, "SELECT "+decreeColumns+" FROM decrees ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("decrees: list all: %w", err)
	}
	defer rows.Close()
	return scanDecrees(rows)
}

func (r *repository) Get(ctx context.Context, id string) (*Decree, error) {
	row := r.db.QueryRow(ctx, "SELECT "+decreeColumns+" FROM decrees WHERE id = $1", id)
	d, err := scanDecree(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("decrees: get: %w", err)
	}
	return d, nil
}

func (r *repository) Create(ctx context.Context, d Decree) error {
	_, err := r.db.Exec(ctx, `INSERT INTO decrees
		(id, act_number, rut, full_name, kind, start_date, end_date, days,
		 days_entitled, first_before, first_after, second_before, second_after, notes,
		 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		d.ID, d.ActNumber, d.RUT, d.Name, string(d.Kind), nullIfEmpty(d.StartDate), nullIfEmpty(d.EndDate), d.Days,
		d.DaysEntitled, periodBefore(d.FirstPeriod), periodAfter(d.FirstPeriod),
		periodBefore(d.SecondPeriod), periodAfter(d.SecondPeriod), d.Notes,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAct
		}
		return fmt.Errorf("decrees: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, d Decree) error {
	tag, err := r.db.Exec(ctx, `UPDATE decrees SET
		act_number = $2, rut = $3, full_name = $4, kind = $5, start_date = $6,
		end_date = $7, days = $8, days_entitled = $9, first_before = $10,
		first_after = $11, second_before = $12, second_after = $13, notes = $14,
		updated_at = $15
		WHERE id = $1`,
		d.ID, d.ActNumber, d.RUT, d.Name, string(d.Kind), nullIfEmpty(d.StartDate),
		nullIfEmpty(d.EndDate), d.Days, d.DaysEntitled,
		periodBefore(d.FirstPeriod), periodAfter(d.FirstPeriod),
		periodBefore(d.SecondPeriod), periodAfter(d.SecondPeriod), d.Notes,
		d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAct
		}
		return fmt.Errorf("decrees: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM decrees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("decrees: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDecrees(rows pgx.Rows) ([]Decree, error) {
	items := make([]Decree, 0)
	for rows.Next() {
		d, err := scanDecree(rows)
		if err != nil {
			return nil, fmt.Errorf("decrees: scan: %w", err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("decrees: rows: %w", err)
	}
	return items, nil
}

func scanDecree(row pgx.Row) (*Decree, error) {
	var d Decree
	var startDate, endDate, notes *string
	var firstBefore, firstAfter, secondBefore, secondAfter *float64
	err := row.Scan(&d.ID, &d.ActNumber, &d.RUT, &d.Name, &d.Kind, &startDate, &endDate, &d.Days,
		&d.DaysEntitled, &firstBefore, &firstAfter, &secondBefore, &secondAfter, &notes,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if startDate != nil {
		d.StartDate = *startDate
	}
	if endDate != nil {
		d.EndDate = *endDate
	}
	if notes != nil {
		d.Notes = *notes
	}
	if firstBefore != nil || firstAfter != nil {
		d.FirstPeriod = &PeriodBalance{Before: deref(firstBefore), After: deref(firstAfter)}
	}
	if secondBefore != nil || secondAfter != nil {
		d.SecondPeriod = &PeriodBalance{Before: deref(secondBefore), After: deref(secondAfter)}
	}
	return &d, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func periodBefore(p *PeriodBalance) *float64 {
	if p == nil {
		return nil
	}
	return &p.Before
}

func periodAfter(p *PeriodBalance) *float64 {
	if p == nil {
		return nil
	}
	return &p.After
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
