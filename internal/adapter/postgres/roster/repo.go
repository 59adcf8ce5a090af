// Package roster implements the roster member repository using PostgreSQL.
// Members are keyed by bit position; there are at most eight rows.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

const table = "roster_members"

var columns = []string{
	"bit_position", "name_primary", "name_alias", "glyph", "active",
	"created_at", "updated_at",
}

// Repo provides roster member persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new roster repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type memberRow struct {
	BitPosition int       `db:"bit_position"`
	NamePrimary string    `db:"name_primary"`
	NameAlias   string    `db:"name_alias"`
	Glyph       string    `db:"glyph"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r memberRow) toDomain() domain.Member {
	return domain.Member{
		BitPosition: r.BitPosition,
		NamePrimary: r.NamePrimary,
		NameAlias:   r.NameAlias,
		Glyph:       r.Glyph,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// GetByPosition returns the member registered at the given bit position.
// Returns domain.ErrNotFound if the position is unregistered.
func (r *Repo) GetByPosition(ctx context.Context, pos int) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"bit_position": pos}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select roster_member: %w", err)
	}

	var row memberRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "roster_member", pos)
	}

	m := row.toDomain()
	return &m, nil
}

// GetByName returns the member whose primary or alias name matches,
// case-insensitively. Returns domain.ErrNotFound if no member matches.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Or{
			squirrel.Expr("lower(name_primary) = lower(?)", name),
			squirrel.And{
				squirrel.NotEq{"name_alias": ""},
				squirrel.Expr("lower(name_alias) = lower(?)", name),
			},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select roster_member by name: %w", err)
	}

	var row memberRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "roster_member", name)
	}

	m := row.toDomain()
	return &m, nil
}

// List returns members ordered by bit position ascending. With
// includeInactive false only active members are returned.
func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("bit_position ASC")
	if !includeInactive {
		builder = builder.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roster_members: %w", err)
	}

	var rows []memberRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list roster_members: %w", err)
	}

	members := make([]domain.Member, len(rows))
	for i, row := range rows {
		members[i] = row.toDomain()
	}
	return members, nil
}

// Create inserts a new member. Returns domain.ErrAlreadyExists if the bit
// position is already registered.
func (r *Repo) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("bit_position", "name_primary", "name_alias", "glyph", "active").
		Values(m.BitPosition, m.NamePrimary, m.NameAlias, m.Glyph, m.Active).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert roster_member: %w", err)
	}

	var row memberRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "roster_member", m.BitPosition)
	}

	created := row.toDomain()
	return &created, nil
}

// Upsert inserts the member or overwrites the row at its bit position.
// Used for operator-directed position reuse.
func (r *Repo) Upsert(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("bit_position", "name_primary", "name_alias", "glyph", "active").
		Values(m.BitPosition, m.NamePrimary, m.NameAlias, m.Glyph, m.Active).
		Suffix(`ON CONFLICT (bit_position) DO UPDATE SET
			name_primary = EXCLUDED.name_primary,
			name_alias = EXCLUDED.name_alias,
			glyph = EXCLUDED.glyph,
			active = EXCLUDED.active,
			updated_at = now()
		RETURNING ` + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert roster_member: %w", err)
	}

	var row memberRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "roster_member", m.BitPosition)
	}

	saved := row.toDomain()
	return &saved, nil
}

// Update overwrites the mutable fields of the member at m.BitPosition.
// Returns domain.ErrNotFound if the position is unregistered.
func (r *Repo) Update(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("name_primary", m.NamePrimary).
		Set("name_alias", m.NameAlias).
		Set("glyph", m.Glyph).
		Set("active", m.Active).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"bit_position": m.BitPosition}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update roster_member: %w", err)
	}

	var row memberRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("roster_member %d: %w", m.BitPosition, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "roster_member", m.BitPosition)
	}

	updated := row.toDomain()
	return &updated, nil
}

func columnList() string {
	return strings.Join(columns, ", ")
}
