// Package ledger implements the change entry repository using PostgreSQL.
// Entries are append-only; the only mutable column is the notified flag.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

const table = "change_entries"

var columns = []string{"id", "day", "old_mask", "new_mask", "actor_id", "changed_at", "notified"}

// Repo provides change ledger persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new ledger repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type entryRow struct {
	ID        uuid.UUID `db:"id"`
	Day       time.Time `db:"day"`
	OldMask   int16     `db:"old_mask"`
	NewMask   int16     `db:"new_mask"`
	ActorID   int64     `db:"actor_id"`
	ChangedAt time.Time `db:"changed_at"`
	Notified  bool      `db:"notified"`
}

func (r entryRow) toDomain() domain.ChangeEntry {
	return domain.ChangeEntry{
		ID:        r.ID,
		Day:       domain.NormalizeDay(r.Day),
		OldMask:   domain.Mask(r.OldMask),
		NewMask:   domain.Mask(r.NewMask),
		ActorID:   r.ActorID,
		ChangedAt: r.ChangedAt,
		Notified:  r.Notified,
	}
}

// Append inserts a new change entry and returns the persisted record.
func (r *Repo) Append(ctx context.Context, e domain.ChangeEntry) (*domain.ChangeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "day", "old_mask", "new_mask", "actor_id", "changed_at").
		Values(e.ID, domain.NormalizeDay(e.Day), int16(e.OldMask), int16(e.NewMask), e.ActorID, e.ChangedAt).
		Suffix("RETURNING id, day, old_mask, new_mask, actor_id, changed_at, notified").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert change_entry: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "change_entry", e.ID)
	}

	entry := row.toDomain()
	return &entry, nil
}

// GetByID returns one change entry. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select change_entry: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "change_entry", id)
	}

	entry := row.toDomain()
	return &entry, nil
}

// Recent returns entries with changed_at >= since, newest first, limited to
// limit records.
func (r *Repo) Recent(ctx context.Context, since time.Time, limit int) ([]domain.ChangeEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"changed_at": since}).
		OrderBy("changed_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent change_entries: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("recent change_entries: %w", err)
	}

	entries := make([]domain.ChangeEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.toDomain()
	}
	return entries, nil
}

// MarkNotified flips the notified flag, exactly once. Returns
// domain.ErrNotFound if the entry does not exist or was already marked.
func (r *Repo) MarkNotified(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("notified", true).
		Where(squirrel.Eq{"id": id, "notified": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark notified: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "change_entry", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("change_entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
