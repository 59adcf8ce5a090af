package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayAssignment is the ledger row for one calendar day. Days are stored
// date-only; see NormalizeDay.
type DayAssignment struct {
	Day  time.Time
	Mask Mask
}

// ChangeEntry is the immutable audit record of one assignment mutation.
// It is appended only when the mask actually changed.
type ChangeEntry struct {
	ID        uuid.UUID
	Day       time.Time
	OldMask   Mask
	NewMask   Mask
	ActorID   int64
	ChangedAt time.Time
	Notified  bool
}

// NormalizeDay truncates t to a date-only value in UTC, the canonical key for
// all assignment storage and lookups.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
