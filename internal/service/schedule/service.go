// Package schedule implements the assignment store and the change ledger:
// every mask mutation goes through Commit, which records the change and
// fans out notifications to admins.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

type assignmentRepo interface {
	Get(ctx context.Context, day time.Time) (domain.Mask, error)
	GetForUpdate(ctx context.Context, day time.Time) (domain.Mask, error)
	Upsert(ctx context.Context, day time.Time, mask domain.Mask) error
	Range(ctx context.Context, start, end time.Time) ([]domain.DayAssignment, error)
}

type ledgerRepo interface {
	Append(ctx context.Context, e domain.ChangeEntry) (*domain.ChangeEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeEntry, error)
	Recent(ctx context.Context, since time.Time, limit int) ([]domain.ChangeEntry, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
}

type rosterService interface {
	RegisteredMask(ctx context.Context) (domain.Mask, error)
	NamesForMask(ctx context.Context, mask domain.Mask) ([]string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers a change entry to a set of recipients. Delivery is
// best-effort: Commit logs failures but never returns them.
type Notifier interface {
	Notify(ctx context.Context, entry domain.ChangeEntry, oldNames, newNames []string, recipients []int64) error
}

// Service provides assignment reads and the single write path for the
// per-day masks.
type Service struct {
	assignments assignmentRepo
	ledger      ledgerRepo
	roster      rosterService
	tx          txManager
	notifier    Notifier
	adminIDs    []int64
	undoWindow  time.Duration
	log         *slog.Logger
	now         func() time.Time
}

// NewService creates a new schedule service. notifier may be nil to disable
// change notifications entirely. undoWindow bounds how long a committed
// change stays undoable.
func NewService(
	log *slog.Logger,
	assignments assignmentRepo,
	ledger ledgerRepo,
	roster rosterService,
	tx txManager,
	notifier Notifier,
	adminIDs []int64,
	undoWindow time.Duration,
) *Service {
	return &Service{
		assignments: assignments,
		ledger:      ledger,
		roster:      roster,
		tx:          tx,
		notifier:    notifier,
		adminIDs:    adminIDs,
		undoWindow:  undoWindow,
		log:         log.With("service", "schedule"),
		now:         time.Now,
	}
}
