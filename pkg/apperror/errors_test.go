package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: ErrNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("schedule: %w", ErrNotFound), want: http.StatusNotFound},
		{name: "unauthorized", err: ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "bad credentials", err: ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "wrong role", err: ErrForbidden, want: http.StatusForbidden},
		{name: "validation", err: NewValidationError("subject", "subject is required"), want: http.StatusBadRequest},
		{name: "duplicate identity", err: fmt.Errorf("%w: CSE001", ErrDuplicateIdentity), want: http.StatusConflict},
		{name: "duplicate schedule", err: ErrDuplicateScheduleDate, want: http.StatusConflict},
		{name: "ineligible", err: ErrIneligibleStudent, want: http.StatusUnprocessableEntity},
		{name: "rate limited", err: ErrRateLimitExceeded, want: http.StatusTooManyRequests},
		{name: "app error code wins", err: New(http.StatusTeapot, "short and stout", ErrNotFound), want: http.StatusTeapot},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("topic", "topic is required")
	v.Add("subject", "subject is required")
	v.Add("subject", "ignored second message")

	err := v.OrNil()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "subject is required; topic is required", err.Error())
	assert.Len(t, v.Fields, 2)
}
