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

// CreateInput describes a staged mutation. Days is required for multi_day,
// Pattern for pattern_bulk; single_day takes exactly one day.
type CreateInput struct {
	Kind    domain.RequestKind
	Year    int
	Month   time.Month
	Days    []int
	People  []string
	Pattern domain.BulkPattern
}

// Create validates and stores a pending change request. People are validated
// against the roster now but stored as names: the payload is re-resolved at
// approval time, so a rename between request and review follows the roster.
func (s *Service) Create(ctx context.Context, input CreateInput, requestedBy int64) (*domain.ChangeRequest, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	req := domain.ChangeRequest{
		ID:          uuid.New(),
		Kind:        input.Kind,
		RequestedBy: requestedBy,
		Payload: domain.RequestPayload{
			Year:    input.Year,
			Month:   int(input.Month),
			Days:    input.Days,
			People:  input.People,
			Pattern: input.Pattern,
		},
		Status:      domain.RequestStatusPending,
		RequestedAt: s.now().UTC(),
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create change request: %w", err)
	}

	s.log.InfoContext(ctx, "change request created",
		slog.String("id", created.ID.String()),
		slog.String("kind", created.Kind.String()),
		slog.Int64("requested_by", requestedBy),
	)
	return created, nil
}

func (s *Service) validate(ctx context.Context, input *CreateInput) error {
	if !input.Kind.IsValid() {
		return domain.NewValidationError("kind", "unknown request kind")
	}
	if input.Month < time.January || input.Month > time.December {
		return domain.NewValidationError("month", "must be in [1,12]")
	}
	if input.Year < 2000 || input.Year > 2200 {
		return domain.NewValidationError("year", "out of range")
	}

	maxDay := domain.DaysInMonth(input.Year, input.Month)
	switch input.Kind {
	case domain.RequestKindSingleDay:
		if len(input.Days) != 1 {
			return domain.NewValidationError("days", "single_day takes exactly one day")
		}
	case domain.RequestKindMultiDay:
		if len(input.Days) == 0 {
			return domain.NewValidationError("days", "multi_day requires at least one day")
		}
	case domain.RequestKindPatternBulk:
		if !input.Pattern.IsValid() {
			return domain.NewValidationError("pattern", "unknown bulk pattern")
		}
		if len(input.Days) != 0 {
			return domain.NewValidationError("days", "pattern_bulk does not take explicit days")
		}
	}
	for _, d := range input.Days {
		if d < 1 || d > maxDay {
			return domain.NewValidationError("days", fmt.Sprintf("day %d is outside %d.%d", d, input.Month, input.Year))
		}
	}

	if len(input.People) == 0 {
		return domain.NewValidationError("people", "at least one person is required")
	}
	for i, name := range input.People {
		input.People[i] = strings.TrimSpace(name)
	}
	_, unresolved, err := s.roster.NamesToMask(ctx, input.People)
	if err != nil {
		return fmt.Errorf("resolve people: %w", err)
	}
	if len(unresolved) > 0 {
		return domain.NewValidationError("people", "unknown: "+strings.Join(unresolved, ", "))
	}
	return nil
}
