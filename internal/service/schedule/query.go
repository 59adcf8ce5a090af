package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Get returns the mask for a day. Days with no stored row read as mask 0.
func (s *Service) Get(ctx context.Context, day time.Time) (domain.Mask, error) {
	return s.assignments.Get(ctx, domain.NormalizeDay(day))
}

// GetRange returns one DayAssignment per day in [start, end], in ascending
// day order. Days without a stored row are filled in with mask 0, so the
// result is always dense.
func (s *Service) GetRange(ctx context.Context, start, end time.Time) ([]domain.DayAssignment, error) {
	start = domain.NormalizeDay(start)
	end = domain.NormalizeDay(end)
	if end.Before(start) {
		return nil, domain.NewValidationError("range", "end is before start")
	}

	stored, err := s.assignments.Range(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("range assignments: %w", err)
	}

	byDay := make(map[time.Time]domain.Mask, len(stored))
	for _, a := range stored {
		byDay[a.Day] = a.Mask
	}

	days := int(end.Sub(start).Hours()/24) + 1
	result := make([]domain.DayAssignment, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		result = append(result, domain.DayAssignment{Day: d, Mask: byDay[d]})
	}
	return result, nil
}

// MonthAssignments returns a dense slice covering every day of the month.
func (s *Service) MonthAssignments(ctx context.Context, year int, month time.Month) ([]domain.DayAssignment, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, domain.DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return s.GetRange(ctx, start, end)
}

// RecentChanges returns ledger entries since the given time, newest first.
func (s *Service) RecentChanges(ctx context.Context, since time.Time, limit int) ([]domain.ChangeEntry, error) {
	return s.ledger.Recent(ctx, since, limit)
}
