package domain

import "math/bits"

// MaxRosterSize is the number of addressable roster positions. A Mask is a
// fixed-width bitfield over these positions, so the cap is structural: growing
// it means widening the mask column and this type together.
const MaxRosterSize = 8

// Mask is the subset of roster positions assigned to a day, one bit per
// position. The zero Mask means "no one assigned" and is interchangeable
// with the absence of an assignment row.
type Mask uint8

// MaskOf builds a Mask from bit positions. Positions outside [0,7] are ignored.
func MaskOf(positions ...int) Mask {
	var m Mask
	for _, p := range positions {
		m = m.With(p)
	}
	return m
}

// Has reports whether the bit at pos is set.
func (m Mask) Has(pos int) bool {
	if pos < 0 || pos >= MaxRosterSize {
		return false
	}
	return m&(1<<uint(pos)) != 0
}

// With returns a copy of m with the bit at pos set.
func (m Mask) With(pos int) Mask {
	if pos < 0 || pos >= MaxRosterSize {
		return m
	}
	return m | 1<<uint(pos)
}

// Without returns a copy of m with the bit at pos cleared.
func (m Mask) Without(pos int) Mask {
	if pos < 0 || pos >= MaxRosterSize {
		return m
	}
	return m &^ (1 << uint(pos))
}

// Toggle returns a copy of m with the bit at pos flipped.
func (m Mask) Toggle(pos int) Mask {
	if m.Has(pos) {
		return m.Without(pos)
	}
	return m.With(pos)
}

// IsZero reports whether no positions are set.
func (m Mask) IsZero() bool { return m == 0 }

// Count returns the number of set positions.
func (m Mask) Count() int { return bits.OnesCount8(uint8(m)) }

// Positions returns the set bit positions in ascending order. This order is
// authoritative for display and name expansion.
func (m Mask) Positions() []int {
	positions := make([]int, 0, m.Count())
	for p := 0; p < MaxRosterSize; p++ {
		if m.Has(p) {
			positions = append(positions, p)
		}
	}
	return positions
}

// SubsetOf reports whether every bit set in m is also set in other.
func (m Mask) SubsetOf(other Mask) bool { return m&^other == 0 }
