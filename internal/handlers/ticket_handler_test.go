package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-sales/internal/status"
	"ticket-sales/models"
)

func TestStatusForAction_Cancel(t *testing.T) {
	newStatus, err := statusForAction(ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, newStatus)
}

func TestStatusForAction_Restore(t *testing.T) {
	newStatus, err := statusForAction(ActionRestore)

	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusSold, newStatus)
}

func TestStatusForAction_RoundTrip(t *testing.T) {
	// cancel then restore lands back on sold
	cancelled, err := statusForAction(ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, cancelled)

	restored, err := statusForAction(ActionRestore)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusSold, restored)
}

func TestStatusForAction_InvalidAction(t *testing.T) {
	testCases := []string{"", "bogus", "delete", "CANCEL", "sold"}

	for _, action := range testCases {
		t.Run(fmt.Sprintf("action=%q", action), func(t *testing.T) {
			_, err := statusForAction(action)

			assert.ErrorIs(t, err, status.ErrInvalidAction)
		})
	}
}

func TestToAPIError_StatusCodes(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "not found",
			err:        status.ErrTicketNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", status.ErrTicketNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation",
			err:        fmt.Errorf("%w: buyerName is required", status.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid action",
			err:        fmt.Errorf("%w: got %q", status.ErrInvalidAction, "bogus"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store unavailable",
			err:        fmt.Errorf("%w: connection reset", status.ErrStoreUnavailable),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := toAPIError(tc.err)

			var apiErr *router.ApiError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.wantStatus, apiErr.Status)
		})
	}
}
