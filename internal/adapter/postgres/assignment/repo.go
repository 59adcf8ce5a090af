// Package assignment implements the day assignment repository using
// PostgreSQL. A day with no row is equivalent to a day with mask 0.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

const table = "day_assignments"

// Repo provides day assignment persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new assignment repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type assignmentRow struct {
	Day  time.Time `db:"day"`
	Mask int16     `db:"mask"`
}

// Get returns the mask for a day, 0 if no row exists.
func (r *Repo) Get(ctx context.Context, day time.Time) (domain.Mask, error) {
	return r.get(ctx, day, false)
}

// GetForUpdate is Get with a row lock; it must run inside a transaction.
// Locking a nonexistent row is a no-op, which is fine: two inserters for the
// same day still serialize on the primary key.
func (r *Repo) GetForUpdate(ctx context.Context, day time.Time) (domain.Mask, error) {
	return r.get(ctx, day, true)
}

func (r *Repo) get(ctx context.Context, day time.Time, forUpdate bool) (domain.Mask, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := postgres.Builder().
		Select("mask").
		From(table).
		Where(squirrel.Eq{"day": domain.NormalizeDay(day)})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build select day_assignment: %w", err)
	}

	var mask int16
	if err := q.QueryRow(ctx, sql, args...).Scan(&mask); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, postgres.MapError(err, "day_assignment", day.Format(time.DateOnly))
	}

	return domain.Mask(mask), nil
}

// Upsert writes the mask for a day, creating the row if absent.
func (r *Repo) Upsert(ctx context.Context, day time.Time, mask domain.Mask) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("day", "mask").
		Values(domain.NormalizeDay(day), int16(mask)).
		Suffix(`ON CONFLICT (day) DO UPDATE SET
			mask = EXCLUDED.mask,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert day_assignment: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "day_assignment", day.Format(time.DateOnly))
	}

	return nil
}

// Range returns existing assignment rows with day in [start, end], ordered by
// day ascending. Days without a row are omitted; callers treat them as mask 0.
func (r *Repo) Range(ctx context.Context, start, end time.Time) ([]domain.DayAssignment, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("day", "mask").
		From(table).
		Where(squirrel.GtOrEq{"day": domain.NormalizeDay(start)}).
		Where(squirrel.LtOrEq{"day": domain.NormalizeDay(end)}).
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build range day_assignments: %w", err)
	}

	var rows []assignmentRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("range day_assignments: %w", err)
	}

	assignments := make([]domain.DayAssignment, len(rows))
	for i, row := range rows {
		assignments[i] = domain.DayAssignment{
			Day:  domain.NormalizeDay(row.Day),
			Mask: domain.Mask(row.Mask),
		}
	}
	return assignments, nil
}
