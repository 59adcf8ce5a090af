package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Commit is the single write path for day assignments. It validates the mask
// against the registered roster, writes the new mask, and appends a ledger
// entry. Committing the already-stored mask is a no-op: no write, no entry,
// no notification, and the returned entry is nil.
func (s *Service) Commit(ctx context.Context, day time.Time, newMask domain.Mask, actorID int64) (*domain.ChangeEntry, error) {
	day = domain.NormalizeDay(day)

	registered, err := s.roster.RegisteredMask(ctx)
	if err != nil {
		return nil, fmt.Errorf("registered mask: %w", err)
	}
	if !newMask.SubsetOf(registered) {
		return nil, fmt.Errorf("mask %08b has bits outside registered %08b: %w",
			uint8(newMask), uint8(registered), domain.ErrInvalidMask)
	}

	var entry *domain.ChangeEntry
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		oldMask, err := s.assignments.GetForUpdate(ctx, day)
		if err != nil {
			return fmt.Errorf("get assignment: %w", err)
		}
		if oldMask == newMask {
			return nil
		}

		if err := s.assignments.Upsert(ctx, day, newMask); err != nil {
			return fmt.Errorf("upsert assignment: %w", err)
		}

		entry, err = s.ledger.Append(ctx, domain.ChangeEntry{
			ID:        uuid.New(),
			Day:       day,
			OldMask:   oldMask,
			NewMask:   newMask,
			ActorID:   actorID,
			ChangedAt: s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("append change entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if entry == nil {
		return nil, nil
	}

	s.log.InfoContext(ctx, "assignment committed",
		slog.Time("day", day),
		slog.Int("old_mask", int(entry.OldMask)),
		slog.Int("new_mask", int(entry.NewMask)),
		slog.Int64("actor_id", actorID),
	)

	s.notifyChange(ctx, *entry)
	return entry, nil
}

// Clear removes the assignment for a day. Equivalent to committing mask 0.
func (s *Service) Clear(ctx context.Context, day time.Time, actorID int64) (*domain.ChangeEntry, error) {
	return s.Commit(ctx, day, 0, actorID)
}

// notifyChange delivers the entry to every admin except the actor and marks
// the entry notified. Failures are logged and swallowed: notification is
// best-effort and never rolls back a committed change.
func (s *Service) notifyChange(ctx context.Context, entry domain.ChangeEntry) {
	if s.notifier == nil {
		return
	}

	recipients := make([]int64, 0, len(s.adminIDs))
	for _, id := range s.adminIDs {
		if id != entry.ActorID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	oldNames, err := s.roster.NamesForMask(ctx, entry.OldMask)
	if err != nil {
		s.log.WarnContext(ctx, "resolve old mask names for notification", "error", err)
		return
	}
	newNames, err := s.roster.NamesForMask(ctx, entry.NewMask)
	if err != nil {
		s.log.WarnContext(ctx, "resolve new mask names for notification", "error", err)
		return
	}

	if err := s.notifier.Notify(ctx, entry, oldNames, newNames, recipients); err != nil {
		s.log.WarnContext(ctx, "notify admins of change", "error", err, slog.String("entry_id", entry.ID.String()))
		return
	}

	if err := s.ledger.MarkNotified(ctx, entry.ID); err != nil {
		s.log.WarnContext(ctx, "mark change entry notified", "error", err, slog.String("entry_id", entry.ID.String()))
	}
}
