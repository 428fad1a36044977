package imports

import (
	"restock/internal/core/apperror"
)

// Status is the workflow status of an import transaction.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusComplete        Status = "COMPLETE"
	StatusCancelled       Status = "CANCELLED"
)

// Event is a workflow action applied to an import transaction.
type Event string

const (
	EventSaveDraft Event = "save-draft"
	EventSubmit    Event = "submit-for-approval"
	EventComplete  Event = "complete"
	EventCancel    Event = "cancel"
)

// transitions is the full status machine. Any (status, event) pair not
// present here is rejected. COMPLETE and CANCELLED are terminal.
var transitions = map[Status]map[Event]Status{
	StatusDraft: {
		EventSaveDraft: StatusDraft,
		EventSubmit:    StatusPendingApproval,
		EventCancel:    StatusCancelled,
	},
	StatusPendingApproval: {
		EventSubmit:   StatusPendingApproval,
		EventComplete: StatusComplete,
		EventCancel:   StatusCancelled,
	},
}

// NextStatus returns the status after applying event, or InvalidTransition
// if the event is not allowed from the current status.
func NextStatus(from Status, event Event) (Status, error) {
	if to, ok := transitions[from][event]; ok {
		return to, nil
	}
	return "", apperror.NewInvalidTransition(string(from), string(event))
}

// IsTerminal reports whether no further events are accepted.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusCancelled
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusComplete, StatusCancelled:
		return true
	}
	return false
}
