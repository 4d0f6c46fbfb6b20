package handler

import (
	"errors"
	"strings"
	"testing"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatuses(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	statuses, err := parseStatuses(map[string]string{
		a.String(): " Present ",
		b.String(): "absent",
	})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]entity.AttendanceStatus{
		a: entity.StatusPresent,
		b: entity.StatusAbsent,
	}, statuses)
}

func TestParseStatusesRejectsBadKeys(t *testing.T) {
	_, err := parseStatuses(map[string]string{"21CSE001": "present"})

	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "student id must be a valid id", verr.Fields["21CSE001"])
}

func TestParseStatusesRejectsRepeatedID(t *testing.T) {
	id := uuid.New()

	for i := 0; i < 20; i++ {
		_, err := parseStatuses(map[string]string{
			id.String():                  "present",
			strings.ToUpper(id.String()): "absent",
		})

		var verr *apperror.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "student id given more than once", verr.Fields[id.String()])
	}
}
