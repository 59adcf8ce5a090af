package roster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Update applies a partial edit to the member at the given position.
func (s *Service) Update(ctx context.Context, pos int, input UpdateInput) (*domain.Member, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	member, err := s.members.GetByPosition(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("get roster member: %w", err)
	}

	input.apply(member)

	updated, err := s.members.Update(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("update roster member: %w", err)
	}

	s.log.InfoContext(ctx, "roster member updated", slog.Int("bit_position", pos))
	return updated, nil
}

// Activate marks a deactivated member active again. Their bit position is
// unchanged; historical assignments were never affected by deactivation.
func (s *Service) Activate(ctx context.Context, pos int) (*domain.Member, error) {
	return s.setActive(ctx, pos, true)
}

// Deactivate hides a member from active listings and future pickers without
// touching their bit position or any stored assignment.
func (s *Service) Deactivate(ctx context.Context, pos int) (*domain.Member, error) {
	return s.setActive(ctx, pos, false)
}

func (s *Service) setActive(ctx context.Context, pos int, active bool) (*domain.Member, error) {
	member, err := s.members.GetByPosition(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("get roster member: %w", err)
	}

	if member.Active == active {
		return nil, fmt.Errorf("member %q active=%t: %w", member.NamePrimary, active, domain.ErrAlreadyInState)
	}

	member.Active = active
	updated, err := s.members.Update(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("update roster member: %w", err)
	}

	s.log.InfoContext(ctx, "roster member state changed",
		slog.Int("bit_position", pos),
		slog.Bool("active", active),
	)
	return updated, nil
}
