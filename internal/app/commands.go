package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
	approvalsvc "github.com/heartmarshall/shiftbot-backend/internal/service/approval"
	"github.com/heartmarshall/shiftbot-backend/pkg/ctxutil"
)

// Direct commands for the transport layer. The acting user comes from the
// context; only configured admins may mutate directly — everyone else is
// redirected to the request workflow.

// ApplyDirect commits a day assignment for the given people on behalf of the
// acting admin. Returns nil when the stored mask already matched.
func (a *App) ApplyDirect(ctx context.Context, day time.Time, people []string) (*domain.ChangeEntry, error) {
	actorID, err := a.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	mask, unresolved, err := a.Roster.NamesToMask(ctx, people)
	if err != nil {
		return nil, err
	}
	if len(unresolved) > 0 {
		return nil, domain.NewValidationError("people", "unknown: "+strings.Join(unresolved, ", "))
	}

	entry, err := a.Schedule.Commit(ctx, day, mask, actorID)
	if err != nil {
		return nil, err
	}
	a.cmdLog(ctx).InfoContext(ctx, "direct change applied",
		slog.Time("day", day),
		slog.Int64("actor_id", actorID),
		slog.Bool("noop", entry == nil))
	return entry, nil
}

// UndoChange reverts a ledgered change on behalf of the acting admin.
// Entries older than the configured undo window are rejected.
func (a *App) UndoChange(ctx context.Context, entryID uuid.UUID) (*domain.ChangeEntry, error) {
	actorID, err := a.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := a.Schedule.Undo(ctx, entryID, actorID)
	if err != nil {
		return nil, err
	}
	a.cmdLog(ctx).InfoContext(ctx, "change undone",
		slog.String("entry_id", entryID.String()),
		slog.Int64("actor_id", actorID))
	return entry, nil
}

// CreateRequest stages a mutation for admin review on behalf of the acting
// user. This is the entry point for non-privileged actors.
func (a *App) CreateRequest(ctx context.Context, input approvalsvc.CreateInput) (*domain.ChangeRequest, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, fmt.Errorf("no actor in context: %w", domain.ErrForbidden)
	}
	req, err := a.Approval.Create(ctx, input, actorID)
	if err != nil {
		return nil, err
	}
	a.cmdLog(ctx).InfoContext(ctx, "change request staged",
		slog.String("id", req.ID.String()),
		slog.Int64("actor_id", actorID))
	return req, nil
}

// DecideRequest approves or denies a pending request as the acting admin.
func (a *App) DecideRequest(ctx context.Context, id uuid.UUID, approve bool) (*approvalsvc.DecideResult, error) {
	reviewerID, err := a.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	log := a.cmdLog(ctx)
	if approve {
		res, err := a.Approval.Approve(ctx, id, reviewerID)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "request approved",
			slog.String("id", id.String()),
			slog.Int64("reviewer_id", reviewerID))
		return res, nil
	}
	req, err := a.Approval.Deny(ctx, id, reviewerID)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "request denied",
		slog.String("id", id.String()),
		slog.Int64("reviewer_id", reviewerID))
	return &approvalsvc.DecideResult{Request: req}, nil
}

// cmdLog tags the app logger with the inbound event ID when the transport
// put one in the context.
func (a *App) cmdLog(ctx context.Context) *slog.Logger {
	if id := ctxutil.RequestIDFromCtx(ctx); id != "" {
		return a.Log.With(slog.String("request_id", id))
	}
	return a.Log
}

func (a *App) requireAdmin(ctx context.Context) (int64, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return 0, fmt.Errorf("no actor in context: %w", domain.ErrForbidden)
	}
	for _, id := range a.Cfg.Bot.AdminIDs {
		if id == actorID {
			return actorID, nil
		}
	}
	return 0, fmt.Errorf("actor %d is not an admin: %w", actorID, domain.ErrForbidden)
}
