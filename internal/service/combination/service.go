// Package combination resolves masks into display labels: an explicit
// override table first, then generated labels from the roster.
package combination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Sentinels for masks the roster cannot label on its own.
const (
	UnassignedGlyph = "⚫"
	UnassignedText  = "—"
	fallbackGlyph   = "🔘"
)

type combinationRepo interface {
	Get(ctx context.Context, mask domain.Mask) (*domain.CombinationLabel, error)
	List(ctx context.Context) ([]domain.CombinationLabel, error)
	Upsert(ctx context.Context, label domain.CombinationLabel) (*domain.CombinationLabel, error)
}

type rosterService interface {
	Members(ctx context.Context, includeInactive bool) ([]domain.Member, error)
}

// Service resolves combination labels. Resolution is a pure read: it never
// writes to any store.
type Service struct {
	overrides combinationRepo
	roster    rosterService
	log       *slog.Logger
}

// NewService creates a new combination resolver.
func NewService(log *slog.Logger, overrides combinationRepo, roster rosterService) *Service {
	return &Service{
		overrides: overrides,
		roster:    roster,
		log:       log.With("service", "combination"),
	}
}

// LabelFor resolves the display label for a mask.
//
// Resolution order: mask 0 is the unassigned sentinel; an override row wins
// verbatim; a single-bit mask renders with the member's own glyph; any other
// mask gets the fallback glyph and the member names joined in ascending
// bit-position order. Deactivated members still render so history stays
// readable.
func (s *Service) LabelFor(ctx context.Context, mask domain.Mask) (domain.Label, error) {
	if mask.IsZero() {
		return domain.Label{Glyph: UnassignedGlyph, Text: UnassignedText}, nil
	}

	override, err := s.overrides.Get(ctx, mask)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Label{}, fmt.Errorf("get combination override: %w", err)
	}

	members, err := s.roster.Members(ctx, true)
	if err != nil {
		return domain.Label{}, fmt.Errorf("list members: %w", err)
	}

	names := make([]string, 0, mask.Count())
	glyphs := make([]string, 0, mask.Count())
	for _, m := range members {
		if mask.Has(m.BitPosition) {
			names = append(names, m.NamePrimary)
			glyphs = append(glyphs, m.Glyph)
		}
	}

	label := domain.Label{Names: names}

	switch {
	case override != nil:
		label.Glyph = override.Glyph
		label.Text = override.Label
		if label.Text == "" {
			label.Text = strings.Join(names, ", ")
		}
	case len(names) == 1:
		label.Glyph = glyphs[0]
		label.Text = names[0]
	default:
		label.Glyph = fallbackGlyph
		label.Text = strings.Join(names, ", ")
	}
	if label.Glyph == "" {
		label.Glyph = fallbackGlyph
	}

	return label, nil
}

// SetOverride stores or replaces the display override for a mask.
func (s *Service) SetOverride(ctx context.Context, mask domain.Mask, glyph, text string) (*domain.CombinationLabel, error) {
	if mask.IsZero() {
		return nil, domain.NewValidationError("mask", "cannot override the unassigned sentinel")
	}
	glyph = strings.TrimSpace(glyph)
	if glyph == "" {
		return nil, domain.NewValidationError("glyph", "is required")
	}

	saved, err := s.overrides.Upsert(ctx, domain.CombinationLabel{
		Mask:  mask,
		Glyph: glyph,
		Label: strings.TrimSpace(text),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert combination override: %w", err)
	}

	s.log.InfoContext(ctx, "combination override set",
		slog.Int("mask", int(mask)),
		slog.String("glyph", glyph),
	)
	return saved, nil
}

// Legend returns the (glyph, label) pairs a calendar legend needs: one row
// per active member, then every override, ordered by mask ascending.
func (s *Service) Legend(ctx context.Context) ([]domain.Label, error) {
	members, err := s.roster.Members(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	overrides, err := s.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list combination overrides: %w", err)
	}

	legend := make([]domain.Label, 0, len(members)+len(overrides))
	for _, m := range members {
		glyph := m.Glyph
		if glyph == "" {
			glyph = fallbackGlyph
		}
		legend = append(legend, domain.Label{
			Glyph: glyph,
			Names: []string{m.NamePrimary},
			Text:  m.NamePrimary,
		})
	}
	for _, o := range overrides {
		if o.Mask.Count() < 2 {
			continue
		}
		names, err := s.namesFor(ctx, o.Mask)
		if err != nil {
			return nil, err
		}
		text := o.Label
		if text == "" {
			text = strings.Join(names, ", ")
		}
		legend = append(legend, domain.Label{Glyph: o.Glyph, Names: names, Text: text})
	}
	return legend, nil
}

func (s *Service) namesFor(ctx context.Context, mask domain.Mask) ([]string, error) {
	members, err := s.roster.Members(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	names := make([]string, 0, mask.Count())
	for _, m := range members {
		if mask.Has(m.BitPosition) {
			names = append(names, m.NamePrimary)
		}
	}
	return names, nil
}
