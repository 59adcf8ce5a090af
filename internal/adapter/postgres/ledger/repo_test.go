package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRepo_Append(t *testing.T) {
	entryID := uuid.New()
	day := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock := newMock(t)
	rows := pgxmock.NewRows([]string{"id", "day", "old_mask", "new_mask", "actor_id", "changed_at", "notified"}).
		AddRow(entryID, day, int16(1), int16(3), int64(42), now, false)
	mock.ExpectQuery(`INSERT INTO change_entries`).
		WithArgs(entryID, day, int16(1), int16(3), int64(42), now).
		WillReturnRows(rows)

	repo := New(mock)
	got, err := repo.Append(context.Background(), domain.ChangeEntry{
		ID:        entryID,
		Day:       day,
		OldMask:   domain.MaskOf(0),
		NewMask:   domain.MaskOf(0, 1),
		ActorID:   42,
		ChangedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != entryID || got.OldMask != 1 || got.NewMask != 3 {
		t.Errorf("Append() = %+v, want masks 1→3 with id %s", got, entryID)
	}
	if got.Notified {
		t.Error("fresh entry must not be marked notified")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_GetByID(t *testing.T) {
	entryID := uuid.New()
	day := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)

	mock := newMock(t)
	rows := pgxmock.NewRows([]string{"id", "day", "old_mask", "new_mask", "actor_id", "changed_at", "notified"}).
		AddRow(entryID, day, int16(1), int16(3), int64(42), time.Now().UTC(), true)
	mock.ExpectQuery(`SELECT .+ FROM change_entries`).
		WithArgs(entryID.String()).
		WillReturnRows(rows)

	repo := New(mock)
	got, err := repo.GetByID(context.Background(), entryID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != entryID || got.OldMask != 1 || got.NewMask != 3 {
		t.Errorf("GetByID() = %+v, want masks 1→3 with id %s", got, entryID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_GetByID_Missing(t *testing.T) {
	entryID := uuid.New()

	mock := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM change_entries`).
		WithArgs(entryID.String()).
		WillReturnError(pgx.ErrNoRows)

	repo := New(mock)
	_, err := repo.GetByID(context.Background(), entryID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestRepo_Recent(t *testing.T) {
	since := time.Now().UTC().Add(-7 * 24 * time.Hour)
	day := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)

	mock := newMock(t)
	rows := pgxmock.NewRows([]string{"id", "day", "old_mask", "new_mask", "actor_id", "changed_at", "notified"}).
		AddRow(uuid.New(), day, int16(0), int16(2), int64(7), time.Now().UTC(), true).
		AddRow(uuid.New(), day, int16(2), int16(0), int64(7), time.Now().UTC().Add(-time.Hour), true)
	mock.ExpectQuery(`SELECT .+ FROM change_entries`).
		WithArgs(since).
		WillReturnRows(rows)

	repo := New(mock)
	got, err := repo.Recent(context.Background(), since, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_MarkNotified(t *testing.T) {
	entryID := uuid.New()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "marks once",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE change_entries`).
					WithArgs(true, entryID.String(), false).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "already marked",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE change_entries`).
					WithArgs(true, entryID.String(), false).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			repo := New(mock)
			err := repo.MarkNotified(context.Background(), entryID)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("MarkNotified() error = %v, want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
