package roster

import (
	"context"
	"strconv"
	"strings"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Resolve finds a member by a free-form identifier: a bit position ("0".."7")
// or a name. Name matching is case-insensitive over the primary name and the
// alias.
func (s *Service) Resolve(ctx context.Context, identifier string) (*domain.Member, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.NewValidationError("identifier", "is required")
	}

	if pos, err := strconv.Atoi(identifier); err == nil && pos >= 0 && pos < domain.MaxRosterSize {
		return s.members.GetByPosition(ctx, pos)
	}
	return s.members.GetByName(ctx, identifier)
}
