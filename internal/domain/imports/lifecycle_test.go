package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
)

func TestNextStatus_AllowedTransitions(t *testing.T) {
	tests := []struct {
		from  Status
		event Event
		to    Status
	}{
		{StatusDraft, EventSaveDraft, StatusDraft},
		{StatusDraft, EventSubmit, StatusPendingApproval},
		{StatusDraft, EventCancel, StatusCancelled},
		{StatusPendingApproval, EventSubmit, StatusPendingApproval},
		{StatusPendingApproval, EventComplete, StatusComplete},
		{StatusPendingApproval, EventCancel, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

// Every (status, event) pair outside the table must be rejected.
func TestNextStatus_ExhaustiveRejection(t *testing.T) {
	allStatuses := []Status{StatusDraft, StatusPendingApproval, StatusComplete, StatusCancelled}
	allEvents := []Event{EventSaveDraft, EventSubmit, EventComplete, EventCancel}

	allowed := map[Status]map[Event]bool{
		StatusDraft: {
			EventSaveDraft: true,
			EventSubmit:    true,
			EventCancel:    true,
		},
		StatusPendingApproval: {
			EventSubmit:   true,
			EventComplete: true,
			EventCancel:   true,
		},
	}

	for _, from := range allStatuses {
		for _, event := range allEvents {
			_, err := NextStatus(from, event)
			if allowed[from][event] {
				assert.NoError(t, err, "%s/%s should be allowed", from, event)
				continue
			}
			require.Error(t, err, "%s/%s should be rejected", from, event)
			assert.True(t, apperror.IsInvalidTransition(err), "%s/%s", from, event)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, string(from), appErr.Details["status"])
			assert.Equal(t, string(event), appErr.Details["event"])
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusPendingApproval.IsTerminal())
	assert.True(t, StatusComplete.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}
