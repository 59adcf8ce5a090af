package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

const phaseAwaitingConfirmation = "awaiting_confirmation"

// ImportCandidate is the structured output of the external extraction step:
// a month of day→people mappings not yet translated to masks.
type ImportCandidate struct {
	Year    int
	Month   time.Month
	Entries []ImportEntry
}

// ImportEntry is one extracted day with the people named on it.
type ImportEntry struct {
	Day    int
	People []string
}

type stagedDay struct {
	day  time.Time
	mask domain.Mask
}

type importState struct {
	year    int
	month   time.Month
	days    []stagedDay
	dropped int
}

// StartImageImport validates the candidate against the roster and the target
// month and stages it for confirmation, discarding any prior session.
// Unresolvable names and out-of-range days are dropped and counted, never
// silently merged into a wrong mask. Days whose mask comes out empty are
// skipped entirely.
func (e *Engine) StartImageImport(ctx context.Context, owner int64, candidate ImportCandidate) (*Result, error) {
	if candidate.Month < time.January || candidate.Month > time.December {
		return nil, domain.NewValidationError("month", "must be in [1,12]")
	}
	maxDay := domain.DaysInMonth(candidate.Year, candidate.Month)

	st := &importState{year: candidate.Year, month: candidate.Month}
	for _, entry := range candidate.Entries {
		if entry.Day < 1 || entry.Day > maxDay {
			st.dropped++
			continue
		}

		mask, unresolved, err := e.roster.NamesToMask(ctx, entry.People)
		if err != nil {
			return nil, fmt.Errorf("resolve candidate names: %w", err)
		}
		st.dropped += len(unresolved)

		if mask.IsZero() {
			continue
		}
		st.days = append(st.days, stagedDay{
			day:  time.Date(candidate.Year, candidate.Month, entry.Day, 0, 0, 0, 0, time.UTC),
			mask: mask,
		})
	}

	now := e.now()
	s := &Session{
		Owner:          owner,
		Kind:           KindImageImport,
		CreatedAt:      now,
		LastActivityAt: now,
		imprt:          st,
	}
	e.replace(owner, s)

	if st.dropped > 0 {
		e.log.Warn("import candidate has unresolvable data",
			slog.Int64("owner", owner),
			slog.Int("dropped", st.dropped),
		)
	}

	return &Result{
		Kind:    KindImageImport,
		Phase:   phaseAwaitingConfirmation,
		Year:    st.year,
		Month:   st.month,
		Applied: len(st.days),
		Dropped: st.dropped,
	}, nil
}

func (e *Engine) handleImport(ctx context.Context, s *Session, action Action) (*Result, error) {
	st := s.imprt

	switch action.Type {
	case ActionConfirm:
		// Each day goes through the idempotent commit path, so re-confirming
		// an already-applied candidate is a safe no-op.
		var entries []*domain.ChangeEntry
		applied := 0
		for _, d := range st.days {
			entry, err := e.schedule.Commit(ctx, d.day, d.mask, s.Owner)
			if err != nil {
				e.log.Warn("apply imported day",
					slog.Time("day", d.day), "error", err)
				continue
			}
			if entry != nil {
				entries = append(entries, entry)
				applied++
			}
		}
		return &Result{
			Kind:    KindImageImport,
			Phase:   "applied",
			Done:    true,
			Year:    st.year,
			Month:   st.month,
			Entries: entries,
			Applied: applied,
			Dropped: st.dropped,
		}, nil

	case ActionDiscard:
		return &Result{
			Kind:      KindImageImport,
			Phase:     "discarded",
			Done:      true,
			Cancelled: true,
		}, nil

	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, phaseAwaitingConfirmation, domain.ErrInvalidTransition)
	}
}
