// Package session implements per-owner interactive sessions: finite state
// machines driving multi-turn chat flows. Sessions are ephemeral in-process
// state; every store mutation goes through the schedule commit path.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
	"github.com/heartmarshall/shiftbot-backend/internal/service/roster"
)

// Kind identifies the session flow.
type Kind string

const (
	KindAssignPicker Kind = "assign_picker"
	KindRosterEditor Kind = "roster_editor"
	KindImageImport  Kind = "image_import_confirm"
)

type scheduleService interface {
	Get(ctx context.Context, day time.Time) (domain.Mask, error)
	Commit(ctx context.Context, day time.Time, newMask domain.Mask, actorID int64) (*domain.ChangeEntry, error)
}

type rosterService interface {
	ActiveMembers(ctx context.Context) ([]domain.Member, error)
	Register(ctx context.Context, input roster.RegisterInput) (*domain.Member, error)
	Update(ctx context.Context, pos int, input roster.UpdateInput) (*domain.Member, error)
	NamesToMask(ctx context.Context, names []string) (domain.Mask, []string, error)
}

// Session is the live state of one owner's flow. Exactly one per owner:
// starting a new session discards the previous one.
type Session struct {
	Owner          int64
	Kind           Kind
	CreatedAt      time.Time
	LastActivityAt time.Time

	picker *pickerState
	editor *editorState
	imprt  *importState
}

type ownerSlot struct {
	mu      sync.Mutex
	session *Session
}

// Engine holds the active sessions, one per owner. Handlers for the same
// owner serialize on a per-owner lock; different owners never contend.
type Engine struct {
	mu       sync.Mutex
	owners   map[int64]*ownerSlot
	schedule scheduleService
	roster   rosterService
	log      *slog.Logger
	now      func() time.Time
}

// NewEngine creates a new session engine.
func NewEngine(log *slog.Logger, schedule scheduleService, rosterSvc rosterService) *Engine {
	return &Engine{
		owners:   make(map[int64]*ownerSlot),
		schedule: schedule,
		roster:   rosterSvc,
		log:      log.With("service", "session"),
		now:      time.Now,
	}
}

func (e *Engine) slot(owner int64) *ownerSlot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.owners[owner]
	if !ok {
		s = &ownerSlot{}
		e.owners[owner] = s
	}
	return s
}

// replace installs a fresh session for the owner, discarding any prior one.
func (e *Engine) replace(owner int64, s *Session) {
	slot := e.slot(owner)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.session != nil {
		e.log.Debug("session superseded",
			slog.Int64("owner", owner),
			slog.String("old_kind", string(slot.session.Kind)),
			slog.String("new_kind", string(s.Kind)),
		)
	}
	slot.session = s
}

// Active returns the owner's live session, if any.
func (e *Engine) Active(owner int64) (*Session, bool) {
	slot := e.slot(owner)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.session, slot.session != nil
}

// Cancel discards the owner's session. Pure in-memory discard: no store
// writes happen regardless of how far the flow had progressed.
func (e *Engine) Cancel(owner int64) bool {
	slot := e.slot(owner)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	had := slot.session != nil
	slot.session = nil
	return had
}

// PurgeIdle discards sessions with no activity for at least maxIdle and
// returns how many were dropped. Slots left without a session are removed
// from the owner map. Nothing acquires e.mu while holding a slot lock, so
// taking both here cannot deadlock.
func (e *Engine) PurgeIdle(maxIdle time.Duration) int {
	cutoff := e.now().Add(-maxIdle)

	e.mu.Lock()
	defer e.mu.Unlock()

	purged := 0
	for owner, slot := range e.owners {
		slot.mu.Lock()
		if slot.session != nil && slot.session.LastActivityAt.Before(cutoff) {
			slot.session = nil
			purged++
		}
		empty := slot.session == nil
		slot.mu.Unlock()
		if empty {
			delete(e.owners, owner)
		}
	}
	if purged > 0 {
		e.log.Info("idle sessions purged", slog.Int("count", purged))
	}
	return purged
}

// HandleAction advances the owner's session by one step. Actions for the
// same owner serialize; an action with no live session fails with NotFound.
func (e *Engine) HandleAction(ctx context.Context, owner int64, action Action) (*Result, error) {
	slot := e.slot(owner)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	s := slot.session
	if s == nil {
		return nil, fmt.Errorf("owner %d has no active session: %w", owner, domain.ErrNotFound)
	}

	if action.Type == ActionCancel {
		slot.session = nil
		return &Result{Kind: s.Kind, Done: true, Cancelled: true}, nil
	}

	s.LastActivityAt = e.now()

	var (
		res *Result
		err error
	)
	switch s.Kind {
	case KindAssignPicker:
		res, err = e.handlePicker(ctx, s, action)
	case KindRosterEditor:
		res, err = e.handleEditor(ctx, s, action)
	case KindImageImport:
		res, err = e.handleImport(ctx, s, action)
	default:
		return nil, fmt.Errorf("session kind %q: %w", s.Kind, domain.ErrInvalidTransition)
	}
	if err != nil {
		return nil, err
	}

	if res.Done {
		slot.session = nil
	}
	return res, nil
}
