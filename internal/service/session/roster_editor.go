package session

import (
	"context"
	"fmt"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
	"github.com/heartmarshall/shiftbot-backend/internal/service/roster"
)

type editorPhase string

const (
	phaseListing      editorPhase = "listing"
	phaseEditingField editorPhase = "editing_field"
	phaseAddingNew    editorPhase = "adding_new"
)

// Wizard steps collect the new member's fields in order; register is called
// only once all three are supplied, so an abandoned wizard creates nothing.
const (
	wizardStepPrimary = 1
	wizardStepAlias   = 2
	wizardStepGlyph   = 3
)

type editorState struct {
	phase    editorPhase
	position int
	field    FieldKind

	wizardStep int
	draft      roster.RegisterInput
}

// StartRosterEditor opens the roster editor for the owner, discarding any
// prior session.
func (e *Engine) StartRosterEditor(owner int64) *Result {
	now := e.now()
	s := &Session{
		Owner:          owner,
		Kind:           KindRosterEditor,
		CreatedAt:      now,
		LastActivityAt: now,
		editor:         &editorState{phase: phaseListing, position: -1},
	}
	e.replace(owner, s)
	return &Result{Kind: KindRosterEditor, Phase: string(phaseListing)}
}

func (e *Engine) handleEditor(ctx context.Context, s *Session, action Action) (*Result, error) {
	ed := s.editor

	switch ed.phase {
	case phaseListing:
		return e.editorListing(ed, action)
	case phaseEditingField:
		return e.editorEditingField(ctx, ed, action)
	case phaseAddingNew:
		return e.editorAddingNew(ctx, ed, action)
	}
	return nil, fmt.Errorf("editor phase %q: %w", ed.phase, domain.ErrInvalidTransition)
}

func (e *Engine) editorListing(ed *editorState, action Action) (*Result, error) {
	switch action.Type {
	case ActionSelectMember:
		if action.Position < 0 || action.Position >= domain.MaxRosterSize {
			return nil, domain.NewValidationError("position", "out of range")
		}
		ed.position = action.Position
		return e.editorResult(ed), nil

	case ActionEditField:
		if ed.position < 0 {
			return nil, fmt.Errorf("no member selected: %w", domain.ErrInvalidTransition)
		}
		if action.Field != FieldNamePrimary && action.Field != FieldNameAlias && action.Field != FieldGlyph {
			return nil, domain.NewValidationError("field", "unknown field")
		}
		ed.field = action.Field
		ed.phase = phaseEditingField
		return e.editorResult(ed), nil

	case ActionAddMember:
		ed.phase = phaseAddingNew
		ed.wizardStep = wizardStepPrimary
		ed.draft = roster.RegisterInput{}
		return e.editorResult(ed), nil

	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, ed.phase, domain.ErrInvalidTransition)
	}
}

func (e *Engine) editorEditingField(ctx context.Context, ed *editorState, action Action) (*Result, error) {
	switch action.Type {
	case ActionSetValue:
		input := roster.UpdateInput{}
		value := action.Value
		switch ed.field {
		case FieldNamePrimary:
			input.NamePrimary = &value
		case FieldNameAlias:
			input.NameAlias = &value
		case FieldGlyph:
			input.Glyph = &value
		}

		member, err := e.roster.Update(ctx, ed.position, input)
		if err != nil {
			return nil, err
		}

		ed.phase = phaseListing
		res := e.editorResult(ed)
		res.Member = member
		return res, nil

	case ActionBack:
		ed.phase = phaseListing
		return e.editorResult(ed), nil

	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, ed.phase, domain.ErrInvalidTransition)
	}
}

func (e *Engine) editorAddingNew(ctx context.Context, ed *editorState, action Action) (*Result, error) {
	switch action.Type {
	case ActionSetValue:
		switch ed.wizardStep {
		case wizardStepPrimary:
			ed.draft.NamePrimary = action.Value
			ed.wizardStep = wizardStepAlias
			return e.editorResult(ed), nil
		case wizardStepAlias:
			ed.draft.NameAlias = action.Value
			ed.wizardStep = wizardStepGlyph
			return e.editorResult(ed), nil
		case wizardStepGlyph:
			ed.draft.Glyph = action.Value
			member, err := e.roster.Register(ctx, ed.draft)
			if err != nil {
				return nil, err
			}
			ed.phase = phaseListing
			ed.wizardStep = 0
			ed.draft = roster.RegisterInput{}
			res := e.editorResult(ed)
			res.Member = member
			return res, nil
		}
		return nil, fmt.Errorf("wizard step %d: %w", ed.wizardStep, domain.ErrInvalidTransition)

	case ActionBack:
		ed.phase = phaseListing
		ed.wizardStep = 0
		ed.draft = roster.RegisterInput{}
		return e.editorResult(ed), nil

	default:
		return nil, fmt.Errorf("action %d in %s: %w", action.Type, ed.phase, domain.ErrInvalidTransition)
	}
}

func (e *Engine) editorResult(ed *editorState) *Result {
	return &Result{Kind: KindRosterEditor, Phase: string(ed.phase)}
}
