package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Undo restores the mask a ledger entry replaced, as a fresh commit by the
// undoing actor. The entry stays undoable only inside the configured window;
// after that Undo fails with InvalidTransition and changes nothing. Because
// the restore goes through Commit, it is validated, audited, and idempotent
// like any other mutation: undoing an already-undone entry is a no-op.
func (s *Service) Undo(ctx context.Context, entryID uuid.UUID, actorID int64) (*domain.ChangeEntry, error) {
	entry, err := s.ledger.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get change entry: %w", err)
	}

	if s.now().UTC().Sub(entry.ChangedAt) > s.undoWindow {
		return nil, fmt.Errorf("change entry %s is older than the %v undo window: %w",
			entryID, s.undoWindow, domain.ErrInvalidTransition)
	}

	undone, err := s.Commit(ctx, entry.Day, entry.OldMask, actorID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "change undone",
		slog.String("entry_id", entryID.String()),
		slog.Time("day", entry.Day),
		slog.Int64("actor_id", actorID),
	)
	return undone, nil
}
