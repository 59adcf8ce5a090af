// Package roster implements the roster registry: the catalog of up to eight
// people, each bound to an immutable bit position.
package roster

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

type rosterRepo interface {
	GetByPosition(ctx context.Context, pos int) (*domain.Member, error)
	GetByName(ctx context.Context, name string) (*domain.Member, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Member, error)
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
	Upsert(ctx context.Context, m *domain.Member) (*domain.Member, error)
	Update(ctx context.Context, m *domain.Member) (*domain.Member, error)
}

// Service provides roster registry operations.
type Service struct {
	members rosterRepo
	log     *slog.Logger
}

// NewService creates a new roster service.
func NewService(log *slog.Logger, members rosterRepo) *Service {
	return &Service{
		members: members,
		log:     log.With("service", "roster"),
	}
}

// ActiveMembers returns active members ordered by bit position ascending.
// This order is authoritative for display and mask→name expansion.
func (s *Service) ActiveMembers(ctx context.Context) ([]domain.Member, error) {
	return s.members.List(ctx, false)
}

// Members returns all members ordered by bit position, optionally including
// deactivated ones (whose assignment history must still render).
func (s *Service) Members(ctx context.Context, includeInactive bool) ([]domain.Member, error) {
	return s.members.List(ctx, includeInactive)
}

// RegisteredMask returns the mask of every registered position, active or
// not. Commit validation checks candidate masks against this.
func (s *Service) RegisteredMask(ctx context.Context) (domain.Mask, error) {
	members, err := s.members.List(ctx, true)
	if err != nil {
		return 0, err
	}

	var m domain.Mask
	for _, member := range members {
		m = m.With(member.BitPosition)
	}
	return m, nil
}

// NamesForMask expands a mask into primary names in ascending bit-position
// order. Unregistered positions are skipped; deactivated members still
// resolve so history renders correctly.
func (s *Service) NamesForMask(ctx context.Context, mask domain.Mask) ([]string, error) {
	members, err := s.members.List(ctx, true)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, mask.Count())
	for _, member := range members {
		if mask.Has(member.BitPosition) {
			names = append(names, member.NamePrimary)
		}
	}
	return names, nil
}

// NamesToMask resolves a list of names into a mask. Names that do not match
// any registered member are returned separately, never silently merged.
func (s *Service) NamesToMask(ctx context.Context, names []string) (domain.Mask, []string, error) {
	members, err := s.members.List(ctx, true)
	if err != nil {
		return 0, nil, err
	}

	var mask domain.Mask
	var unresolved []string
	for _, name := range names {
		found := false
		for i := range members {
			if members[i].Matches(name) {
				mask = mask.With(members[i].BitPosition)
				found = true
				break
			}
		}
		if !found {
			unresolved = append(unresolved, name)
		}
	}
	return mask, unresolved, nil
}
