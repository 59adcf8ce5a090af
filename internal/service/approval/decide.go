package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// DayResult is the outcome of applying an approved request to one day.
type DayResult struct {
	Day     time.Time
	Applied bool
	NoOp    bool
	Err     error
}

// DecideResult is the full outcome of a decision.
type DecideResult struct {
	Request *domain.ChangeRequest
	Days    []DayResult
}

// Approve applies the staged payload and marks the request approved. The
// payload's people are re-resolved against the live roster at this moment.
// Each expanded day is committed independently: one day failing never aborts
// the rest, and the request still reaches the approved state so the reviewer
// sees the per-day breakdown instead of a half-applied pending request.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, reviewer int64) (*DecideResult, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get change request: %w", err)
	}
	if req.Status.IsTerminal() {
		return nil, fmt.Errorf("change_request %s is %s: %w", id, req.Status, domain.ErrInvalidTransition)
	}

	mask, unresolved, err := s.roster.NamesToMask(ctx, req.Payload.People)
	if err != nil {
		return nil, fmt.Errorf("resolve people: %w", err)
	}
	if len(unresolved) > 0 {
		return nil, domain.NewValidationError("people",
			"no longer on the roster: "+strings.Join(unresolved, ", "))
	}

	days := expandDays(req.Payload)
	results := make([]DayResult, 0, len(days))
	applied := 0
	for _, day := range days {
		entry, err := s.schedule.Commit(ctx, day, mask, reviewer)
		res := DayResult{Day: day}
		switch {
		case err != nil:
			res.Err = err
			s.log.WarnContext(ctx, "apply approved day",
				slog.Time("day", day), "error", err,
				slog.String("request_id", id.String()))
		case entry == nil:
			res.NoOp = true
		default:
			res.Applied = true
			applied++
		}
		results = append(results, res)
	}

	decided, err := s.requests.Decide(ctx, id, domain.RequestStatusApproved, reviewer, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("mark approved: %w", err)
	}

	s.log.InfoContext(ctx, "change request approved",
		slog.String("id", id.String()),
		slog.Int("days", len(days)),
		slog.Int("applied", applied),
		slog.Int64("reviewer", reviewer),
	)
	return &DecideResult{Request: decided, Days: results}, nil
}

// Deny marks the request denied without touching the assignment store.
func (s *Service) Deny(ctx context.Context, id uuid.UUID, reviewer int64) (*domain.ChangeRequest, error) {
	decided, err := s.requests.Decide(ctx, id, domain.RequestStatusDenied, reviewer, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "change request denied",
		slog.String("id", id.String()),
		slog.Int64("reviewer", reviewer),
	)
	return decided, nil
}
