// Package combination implements the combination label repository using
// PostgreSQL. Rows are display overrides keyed by mask; most masks have none.
package combination

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

const table = "combination_labels"

// Repo provides combination label persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new combination label repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type labelRow struct {
	Mask  int16  `db:"mask"`
	Glyph string `db:"glyph"`
	Label string `db:"label"`
}

func (r labelRow) toDomain() domain.CombinationLabel {
	return domain.CombinationLabel{
		Mask:  domain.Mask(r.Mask),
		Glyph: r.Glyph,
		Label: r.Label,
	}
}

// Get returns the override for a mask. Returns domain.ErrNotFound if no
// override exists.
func (r *Repo) Get(ctx context.Context, mask domain.Mask) (*domain.CombinationLabel, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("mask", "glyph", "label").
		From(table).
		Where(squirrel.Eq{"mask": int16(mask)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select combination_label: %w", err)
	}

	var row labelRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "combination_label", mask)
	}

	label := row.toDomain()
	return &label, nil
}

// List returns all overrides ordered by mask ascending.
func (r *Repo) List(ctx context.Context) ([]domain.CombinationLabel, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("mask", "glyph", "label").
		From(table).
		OrderBy("mask ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list combination_labels: %w", err)
	}

	var rows []labelRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list combination_labels: %w", err)
	}

	labels := make([]domain.CombinationLabel, len(rows))
	for i, row := range rows {
		labels[i] = row.toDomain()
	}
	return labels, nil
}

// Upsert writes an override, replacing any existing one for the mask.
func (r *Repo) Upsert(ctx context.Context, label domain.CombinationLabel) (*domain.CombinationLabel, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("mask", "glyph", "label").
		Values(int16(label.Mask), label.Glyph, label.Label).
		Suffix(`ON CONFLICT (mask) DO UPDATE SET
			glyph = EXCLUDED.glyph,
			label = EXCLUDED.label
		RETURNING mask, glyph, label`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert combination_label: %w", err)
	}

	var row labelRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "combination_label", label.Mask)
	}

	saved := row.toDomain()
	return &saved, nil
}
