package session

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

type pickerPhase string

const (
	phaseChoosingPeriod pickerPhase = "choosing_period"
	phaseChoosingDay    pickerPhase = "choosing_day"
	phaseChoosingPeople pickerPhase = "choosing_people"
)

type pickerState struct {
	phase  pickerPhase
	year   int
	month  time.Month
	day    time.Time
	staged domain.Mask
}

// StartAssignPicker opens an assignment picker for the owner at the given
// period, discarding any prior session.
func (e *Engine) StartAssignPicker(owner int64, year int, month time.Month) *Result {
	now := e.now()
	s := &Session{
		Owner:          owner,
		Kind:           KindAssignPicker,
		CreatedAt:      now,
		LastActivityAt: now,
		picker:         &pickerState{phase: phaseChoosingPeriod, year: year, month: month},
	}
	e.replace(owner, s)
	return &Result{Kind: KindAssignPicker, Phase: string(phaseChoosingPeriod), Year: year, Month: month}
}

func (e *Engine) handlePicker(ctx context.Context, s *Session, action Action) (*Result, error) {
	p := s.picker

	switch p.phase {
	case phaseChoosingPeriod:
		return e.pickerChoosePeriod(p, action)
	case phaseChoosingDay:
		return e.pickerChooseDay(ctx, p, action)
	case phaseChoosingPeople:
		return e.pickerChoosePeople(ctx, s, action)
	}
	return nil, fmt.Errorf("picker phase %q: %w", p.phase, domain.ErrInvalidTransition)
}

func (e *Engine) pickerChoosePeriod(p *pickerState, action Action) (*Result, error) {
	switch action.Type {
	case ActionPrevPeriod:
		p.year, p.month = shiftMonth(p.year, p.month, -1)
	case ActionNextPeriod:
		p.year, p.month = shiftMonth(p.year, p.month, 1)
	case ActionConfirm:
		p.phase = phaseChoosingDay
		return e.pickerResult(p), nil
	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, p.phase, domain.ErrInvalidTransition)
	}
	return e.pickerResult(p), nil
}

func (e *Engine) pickerChooseDay(ctx context.Context, p *pickerState, action Action) (*Result, error) {
	switch action.Type {
	case ActionSelectDay:
		if action.Day < 1 || action.Day > domain.DaysInMonth(p.year, p.month) {
			return nil, domain.NewValidationError("day", fmt.Sprintf("day %d is outside %d.%d", action.Day, p.month, p.year))
		}
		day := time.Date(p.year, p.month, action.Day, 0, 0, 0, 0, time.UTC)

		// Seed the staged mask from ground truth, never a blank slate.
		current, err := e.schedule.Get(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("seed picker mask: %w", err)
		}
		p.day = day
		p.staged = current
		p.phase = phaseChoosingPeople
		return e.pickerResult(p), nil
	case ActionBack:
		p.phase = phaseChoosingPeriod
		return e.pickerResult(p), nil
	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, p.phase, domain.ErrInvalidTransition)
	}
}

func (e *Engine) pickerChoosePeople(ctx context.Context, s *Session, action Action) (*Result, error) {
	p := s.picker

	switch action.Type {
	case ActionTogglePerson:
		if action.Position < 0 || action.Position >= domain.MaxRosterSize {
			return nil, domain.NewValidationError("position", "out of range")
		}
		p.staged = p.staged.Toggle(action.Position)
		return e.pickerResult(p), nil

	case ActionSave:
		entry, err := e.schedule.Commit(ctx, p.day, p.staged, s.Owner)
		if err != nil {
			return nil, err
		}
		res := e.pickerResult(p)
		res.Done = true
		if entry != nil {
			res.Entries = []*domain.ChangeEntry{entry}
		}
		return res, nil

	case ActionClear:
		entry, err := e.schedule.Commit(ctx, p.day, 0, s.Owner)
		if err != nil {
			return nil, err
		}
		res := e.pickerResult(p)
		res.Done = true
		res.StagedMask = 0
		if entry != nil {
			res.Entries = []*domain.ChangeEntry{entry}
		}
		return res, nil

	case ActionBack:
		// Discard the staged mask, back to day selection. No store writes.
		p.staged = 0
		p.day = time.Time{}
		p.phase = phaseChoosingDay
		return e.pickerResult(p), nil

	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, p.phase, domain.ErrInvalidTransition)
	}
}

func (e *Engine) pickerResult(p *pickerState) *Result {
	return &Result{
		Kind:       KindAssignPicker,
		Phase:      string(p.phase),
		Year:       p.year,
		Month:      p.month,
		Day:        p.day,
		StagedMask: p.staged,
	}
}

func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}
