package validator

import (
	"errors"
	"testing"

	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleInput struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Subject string `json:"subject" validate:"required,max=100"`
	Role    string `json:"role" validate:"oneof=student faculty"`
}

func TestToValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(scheduleInput{Date: "19-10-2026", Role: "admin"})
	require.Error(t, err)

	verr := ToValidationError(err)
	assert.True(t, errors.Is(verr, apperror.ErrInvalidInput))
	assert.Equal(t, "Date must be a date in YYYY-MM-DD format", verr.Fields["Date"])
	assert.Equal(t, "Subject is required", verr.Fields["Subject"])
	assert.Equal(t, "Role must be one of: student, faculty", verr.Fields["Role"])
}

func TestToValidationErrorMalformedBody(t *testing.T) {
	verr := ToValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"body": "malformed request body"}, verr.Fields)
}
