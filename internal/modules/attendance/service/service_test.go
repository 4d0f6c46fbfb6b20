package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	"anoa.com/collegeattendance/internal/modules/attendance/repository"
	roster "anoa.com/collegeattendance/internal/modules/roster/repository"
	scheduleRepo "anoa.com/collegeattendance/internal/modules/schedule/repository"
	schedule "anoa.com/collegeattendance/internal/modules/schedule/service"
	"anoa.com/collegeattendance/internal/testutil"
	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      AttendanceService
	faculty  identity.Faculty
	schedule entity.Schedule
	asha     entity.Student
	bala     entity.Student
	outsider entity.Student
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()

	schedules := schedule.NewScheduleService(scheduleRepo.NewScheduleRepository(db), roster.NewRosterRepository(db), log)
	clock := testutil.Clock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	svc := NewAttendanceService(repository.NewAttendanceRepository(db), schedules, log, clock)

	f := testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)
	return fixture{
		db:       db,
		svc:      svc,
		faculty:  identity.Faculty{Profile: f},
		schedule: testutil.CreateSchedule(t, db, f, "2026-10-19"),
		asha:     testutil.CreateStudent(t, db, "21CSE001", "Asha", entity.BranchCSE, 3),
		bala:     testutil.CreateStudent(t, db, "21CSE002", "Bala", entity.BranchCSE, 3),
		outsider: testutil.CreateStudent(t, db, "21ME001", "Chetan", entity.BranchME, 3),
	}
}

func (f fixture) marks(t *testing.T) []entity.Attendance {
	t.Helper()
	var out []entity.Attendance
	require.NoError(t, f.db.Where("schedule_id = ?", f.schedule.ID).Order("student_id").Find(&out).Error)
	return out
}

func TestMarkAttendance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	resp, err := f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
		f.asha.ID: entity.StatusPresent,
		f.bala.ID: entity.StatusAbsent,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Present)
	assert.Equal(t, 1, resp.Absent)

	marks := f.marks(t)
	require.Len(t, marks, 2)
	byStudent := map[uuid.UUID]entity.AttendanceStatus{}
	for _, m := range marks {
		byStudent[m.StudentID] = m.Status
	}
	assert.Equal(t, entity.StatusPresent, byStudent[f.asha.ID])
	assert.Equal(t, entity.StatusAbsent, byStudent[f.bala.ID])
}

func TestMarkAttendanceResubmitUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
		f.asha.ID: entity.StatusAbsent,
		f.bala.ID: entity.StatusAbsent,
	})
	require.NoError(t, err)
	first := map[uuid.UUID]entity.Attendance{}
	for _, m := range f.marks(t) {
		first[m.StudentID] = m
	}

	_, err = f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
		f.asha.ID: entity.StatusPresent,
		f.bala.ID: entity.StatusAbsent,
	})
	require.NoError(t, err)

	second := f.marks(t)
	require.Len(t, second, 2)
	for _, m := range second {
		prev := first[m.StudentID]
		assert.Equal(t, prev.ID, m.ID)
		assert.True(t, m.UpdatedAt.After(prev.UpdatedAt))
		assert.True(t, m.CreatedAt.Equal(prev.CreatedAt))
		if m.StudentID == f.asha.ID {
			assert.Equal(t, entity.StatusPresent, m.Status)
		}
	}
}

func TestMarkAttendanceRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("other faculty", func(t *testing.T) {
		f := setup(t)
		other := identity.Faculty{Profile: testutil.CreateFaculty(t, f.db, "iyer", entity.BranchCSE, 3)}
		_, err := f.svc.MarkAttendance(ctx, other, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
			f.asha.ID: entity.StatusPresent,
			f.bala.ID: entity.StatusPresent,
		})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Empty(t, f.marks(t))
	})

	t.Run("invalid status", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
			f.asha.ID: "late",
			f.bala.ID: entity.StatusPresent,
		})
		var verr *apperror.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, f.asha.ID.String())
		assert.Empty(t, f.marks(t))
	})

	t.Run("ineligible student", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
			f.asha.ID:     entity.StatusPresent,
			f.bala.ID:     entity.StatusPresent,
			f.outsider.ID: entity.StatusPresent,
		})
		assert.ErrorIs(t, err, apperror.ErrIneligibleStudent)
		assert.Empty(t, f.marks(t))
	})

	t.Run("incomplete batch", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
			f.asha.ID: entity.StatusPresent,
		})
		var verr *apperror.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields[f.bala.ID.String()], "incomplete batch")
		assert.Empty(t, f.marks(t))
	})
}

func TestSheet(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	sheet, err := f.svc.Sheet(ctx, f.faculty, f.schedule.ID)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 0, sheet.Marked)
	assert.Equal(t, "21CSE001 - Asha", sheet.Rows[0].Label)
	assert.Nil(t, sheet.Rows[0].Status)

	_, err = f.svc.MarkAttendance(ctx, f.faculty, f.schedule.ID, map[uuid.UUID]entity.AttendanceStatus{
		f.asha.ID: entity.StatusPresent,
		f.bala.ID: entity.StatusAbsent,
	})
	require.NoError(t, err)

	sheet, err = f.svc.Sheet(ctx, f.faculty, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sheet.Marked)
	require.NotNil(t, sheet.Rows[1].Status)
	assert.Equal(t, "21CSE002 - Bala", sheet.Rows[1].Label)
	assert.Equal(t, entity.StatusAbsent, *sheet.Rows[1].Status)
	assert.Equal(t, "2026-10-19", sheet.Schedule.Date)
}
