package session

import (
	"time"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// ActionType is the closed set of session inputs. Each kind's handler
// switches on it exhaustively: an action that does not belong to the current
// state fails with InvalidTransition instead of falling through silently.
type ActionType int

const (
	// Assign picker.
	ActionPrevPeriod ActionType = iota
	ActionNextPeriod
	ActionSelectDay
	ActionTogglePerson
	ActionSave
	ActionClear
	ActionBack

	// Roster editor.
	ActionSelectMember
	ActionEditField
	ActionSetValue
	ActionAddMember

	// Confirmation: fixes the period in the picker, applies the import.
	ActionConfirm
	ActionDiscard

	// Any session.
	ActionCancel
)

// FieldKind names an editable roster field.
type FieldKind string

const (
	FieldNamePrimary FieldKind = "name_primary"
	FieldNameAlias   FieldKind = "name_alias"
	FieldGlyph       FieldKind = "glyph"
)

// Action is one structured input from the transport layer.
type Action struct {
	Type     ActionType
	Day      int       // ActionSelectDay
	Position int       // ActionTogglePerson, ActionSelectMember
	Field    FieldKind // ActionEditField
	Value    string    // ActionSetValue
}

// Result is the engine's response to one action: enough state for the
// transport to render the next step, plus any ledger entries the step
// produced.
type Result struct {
	Kind      Kind
	Phase     string
	Done      bool
	Cancelled bool

	// Assign picker.
	Year       int
	Month      time.Month
	Day        time.Time
	StagedMask domain.Mask

	// Roster editor.
	Member *domain.Member

	// Store writes this action caused (nil entries were no-ops).
	Entries []*domain.ChangeEntry

	// Image import: staged/applied day count and how many extracted names or
	// days were dropped as unresolvable.
	Applied int
	Dropped int
}
