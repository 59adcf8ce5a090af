package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestKind identifies the shape of a change request payload.
type RequestKind string

const (
	RequestKindSingleDay   RequestKind = "single_day"
	RequestKindMultiDay    RequestKind = "multi_day"
	RequestKindPatternBulk RequestKind = "pattern_bulk"
)

func (k RequestKind) String() string { return string(k) }

func (k RequestKind) IsValid() bool {
	switch k {
	case RequestKindSingleDay, RequestKindMultiDay, RequestKindPatternBulk:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a change request.
// Approved and denied are terminal.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDenied   RequestStatus = "denied"
)

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusDenied:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusDenied
}

// BulkPattern expands to a set of days within one month.
type BulkPattern string

const (
	PatternAllSundays   BulkPattern = "all_sundays"
	PatternAllSaturdays BulkPattern = "all_saturdays"
	PatternAllWeekends  BulkPattern = "all_weekends"
	PatternAllWeekdays  BulkPattern = "all_weekdays"
	PatternWholeMonth   BulkPattern = "whole_month"
)

func (p BulkPattern) String() string { return string(p) }

func (p BulkPattern) IsValid() bool {
	switch p {
	case PatternAllSundays, PatternAllSaturdays, PatternAllWeekends,
		PatternAllWeekdays, PatternWholeMonth:
		return true
	}
	return false
}

// RequestPayload is the staged, not-yet-applied mutation. People are kept as
// the names the requester supplied; they are re-resolved against the live
// roster when the request is approved.
type RequestPayload struct {
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Days    []int       `json:"days,omitempty"`
	People  []string    `json:"people"`
	Pattern BulkPattern `json:"pattern,omitempty"`
}

// ChangeRequest is a mutation proposed by a non-privileged actor, held until
// a privileged actor approves or denies it.
type ChangeRequest struct {
	ID          uuid.UUID
	Kind        RequestKind
	RequestedBy int64
	Payload     RequestPayload
	Status      RequestStatus
	RequestedAt time.Time
	ReviewedBy  *int64
	ReviewedAt  *time.Time
}
