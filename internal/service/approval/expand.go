package approval

import (
	"slices"
	"time"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// expandDays turns a payload into the concrete days it covers, ascending.
// Explicit day lists are deduplicated; pattern expansion walks the month.
func expandDays(payload domain.RequestPayload) []time.Time {
	year := payload.Year
	month := time.Month(payload.Month)

	if payload.Pattern == "" {
		seen := make(map[int]struct{}, len(payload.Days))
		days := make([]time.Time, 0, len(payload.Days))
		for _, d := range payload.Days {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			days = append(days, time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
		}
		slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
		return days
	}

	var days []time.Time
	for d := 1; d <= domain.DaysInMonth(year, month); d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		if patternMatches(payload.Pattern, day.Weekday()) {
			days = append(days, day)
		}
	}
	return days
}

func patternMatches(p domain.BulkPattern, wd time.Weekday) bool {
	switch p {
	case domain.PatternAllSundays:
		return wd == time.Sunday
	case domain.PatternAllSaturdays:
		return wd == time.Saturday
	case domain.PatternAllWeekends:
		return wd == time.Saturday || wd == time.Sunday
	case domain.PatternAllWeekdays:
		return wd != time.Saturday && wd != time.Sunday
	case domain.PatternWholeMonth:
		return true
	}
	return false
}
