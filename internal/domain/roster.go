package domain

import (
	"strings"
	"time"
)

// Member is one of up to eight people eligible for day assignment.
// BitPosition is the sole identity key for mask math and is immutable once
// assigned; deactivation keeps the position occupied so history still renders.
type Member struct {
	BitPosition int
	NamePrimary string
	NameAlias   string
	Glyph       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bit returns the single-bit mask for this member's position.
func (m *Member) Bit() Mask { return MaskOf(m.BitPosition) }

// Matches reports whether name equals the primary or alias name,
// case-insensitively.
func (m *Member) Matches(name string) bool {
	return strings.EqualFold(m.NamePrimary, name) || (m.NameAlias != "" && strings.EqualFold(m.NameAlias, name))
}
