package roster

import (
	"strings"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// RegisterInput carries the fields for a new roster member.
type RegisterInput struct {
	NamePrimary string
	NameAlias   string
	Glyph       string
}

// Validate checks required fields and trims whitespace in place.
func (in *RegisterInput) Validate() error {
	in.NamePrimary = strings.TrimSpace(in.NamePrimary)
	in.NameAlias = strings.TrimSpace(in.NameAlias)
	in.Glyph = strings.TrimSpace(in.Glyph)

	if in.NamePrimary == "" {
		return domain.NewValidationError("name_primary", "is required")
	}
	return nil
}

// UpdateInput carries a partial member update. A nil field means "no change";
// a pointer to an empty string explicitly clears the field.
type UpdateInput struct {
	NamePrimary *string
	NameAlias   *string
	Glyph       *string
}

// Validate rejects updates that would leave the member without a primary name.
func (in *UpdateInput) Validate() error {
	if in.NamePrimary != nil && strings.TrimSpace(*in.NamePrimary) == "" {
		return domain.NewValidationError("name_primary", "cannot be cleared")
	}
	return nil
}

func (in *UpdateInput) apply(m *domain.Member) {
	if in.NamePrimary != nil {
		m.NamePrimary = strings.TrimSpace(*in.NamePrimary)
	}
	if in.NameAlias != nil {
		m.NameAlias = strings.TrimSpace(*in.NameAlias)
	}
	if in.Glyph != nil {
		m.Glyph = strings.TrimSpace(*in.Glyph)
	}
}
