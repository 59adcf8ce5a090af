package roster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Register creates a new member at the lowest unused bit position. Inactive
// members still occupy their position: deactivation never frees a slot for
// auto-assignment. Returns domain.ErrCapacityExceeded when all eight
// positions are registered.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.Member, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	registered, err := s.RegisteredMask(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registered positions: %w", err)
	}

	pos := -1
	for p := 0; p < domain.MaxRosterSize; p++ {
		if !registered.Has(p) {
			pos = p
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("all %d positions registered: %w", domain.MaxRosterSize, domain.ErrCapacityExceeded)
	}

	member, err := s.members.Create(ctx, &domain.Member{
		BitPosition: pos,
		NamePrimary: input.NamePrimary,
		NameAlias:   input.NameAlias,
		Glyph:       input.Glyph,
		Active:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create roster member: %w", err)
	}

	s.log.InfoContext(ctx, "roster member registered",
		slog.Int("bit_position", member.BitPosition),
		slog.String("name", member.NamePrimary),
	)

	return member, nil
}

// RegisterAt overwrites the member at an explicit position. This is the
// operator-directed reuse path for positions left behind by deactivated
// members; unlike Register it never picks a position on its own.
func (s *Service) RegisterAt(ctx context.Context, pos int, input RegisterInput) (*domain.Member, error) {
	if pos < 0 || pos >= domain.MaxRosterSize {
		return nil, domain.NewValidationError("bit_position", fmt.Sprintf("must be in [0,%d]", domain.MaxRosterSize-1))
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	member, err := s.members.Upsert(ctx, &domain.Member{
		BitPosition: pos,
		NamePrimary: input.NamePrimary,
		NameAlias:   input.NameAlias,
		Glyph:       input.Glyph,
		Active:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert roster member: %w", err)
	}

	s.log.InfoContext(ctx, "roster position overwritten",
		slog.Int("bit_position", pos),
		slog.String("name", member.NamePrimary),
	)

	return member, nil
}
