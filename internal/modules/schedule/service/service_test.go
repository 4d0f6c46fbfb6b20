package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	roster "anoa.com/collegeattendance/internal/modules/roster/repository"
	"anoa.com/collegeattendance/internal/modules/schedule/dto"
	"anoa.com/collegeattendance/internal/modules/schedule/repository"
	"anoa.com/collegeattendance/internal/testutil"
	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (ScheduleService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewScheduleService(repository.NewScheduleRepository(db), roster.NewRosterRepository(db), zap.NewNop())
	return svc, db
}

func TestCreateSchedule(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	faculty := identity.Faculty{Profile: testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)}

	resp, err := svc.CreateSchedule(ctx, faculty, dto.CreateScheduleRequest{
		Date:    "2026-10-19",
		Subject: "  Computer <b>Networks</b> ",
		Topic:   "TCP congestion control",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, "Computer Networks", resp.Subject)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	got, err := svc.GetSchedule(ctx, faculty, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", got.Date)
	assert.Equal(t, "TCP congestion control", got.Topic)
}

func TestCreateScheduleDuplicateDate(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	rao := identity.Faculty{Profile: testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)}
	iyer := identity.Faculty{Profile: testutil.CreateFaculty(t, db, "iyer", entity.BranchCSE, 3)}

	req := dto.CreateScheduleRequest{Date: "2026-10-19", Subject: "Networks", Topic: "Routing"}
	_, err := svc.CreateSchedule(ctx, rao, req)
	require.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, rao, req)
	assert.ErrorIs(t, err, apperror.ErrDuplicateScheduleDate)

	// another faculty may teach on the same day
	_, err = svc.CreateSchedule(ctx, iyer, req)
	assert.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&entity.Schedule{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateScheduleValidation(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	faculty := identity.Faculty{Profile: testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)}

	_, err := svc.CreateSchedule(ctx, faculty, dto.CreateScheduleRequest{
		Date:    "19/10/2026",
		Subject: "<script>alert(1)</script>",
		Topic:   "   ",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "date")
	assert.Contains(t, verr.Fields, "subject")
	assert.Contains(t, verr.Fields, "topic")
}

func TestCreateScheduleCountsCharacters(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	faculty := identity.Faculty{Profile: testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)}

	telugu := strings.Repeat("క", 80)
	resp, err := svc.CreateSchedule(ctx, faculty, dto.CreateScheduleRequest{
		Date:    "2026-10-19",
		Subject: telugu,
		Topic:   strings.Repeat("గ", 200),
	})
	require.NoError(t, err)
	assert.Equal(t, telugu, resp.Subject)

	_, err = svc.CreateSchedule(ctx, faculty, dto.CreateScheduleRequest{
		Date:    "2026-10-20",
		Subject: strings.Repeat("క", 101),
		Topic:   "Intro",
	})
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Subject must be at most 100 characters", verr.Fields["subject"])
}

func TestCreateScheduleRejectsEscapedMarkup(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	faculty := identity.Faculty{Profile: testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)}

	_, err := svc.CreateSchedule(ctx, faculty, dto.CreateScheduleRequest{
		Date:    "2026-10-19",
		Subject: "&lt;&gt;",
		Topic:   "&lt;script&gt;alert(1)&lt;/script&gt;",
	})
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Subject is required", verr.Fields["subject"])
	assert.Equal(t, "Topic is required", verr.Fields["topic"])
}

func TestListSchedulesNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	rao := testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)
	other := testutil.CreateFaculty(t, db, "iyer", entity.BranchECE, 2)

	testutil.CreateSchedule(t, db, rao, "2026-10-01")
	testutil.CreateSchedule(t, db, rao, "2026-10-15")
	testutil.CreateSchedule(t, db, rao, "2026-10-08")
	testutil.CreateSchedule(t, db, other, "2026-10-20")

	list, err := svc.ListSchedules(ctx, identity.Faculty{Profile: rao})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-10-15", list[0].Date)
	assert.Equal(t, "2026-10-08", list[1].Date)
	assert.Equal(t, "2026-10-01", list[2].Date)
}

func TestOtherFacultyScheduleIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	rao := testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)
	iyer := testutil.CreateFaculty(t, db, "iyer", entity.BranchCSE, 3)
	sched := testutil.CreateSchedule(t, db, rao, "2026-10-19")

	_, err := svc.GetSchedule(ctx, identity.Faculty{Profile: iyer}, sched.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.ListEligibleStudents(ctx, identity.Faculty{Profile: iyer}, sched.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.GetSchedule(ctx, identity.Faculty{Profile: rao}, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListEligibleStudents(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	rao := testutil.CreateFaculty(t, db, "rao", entity.BranchCSE, 3)
	sched := testutil.CreateSchedule(t, db, rao, "2026-10-19")

	testutil.CreateStudent(t, db, "21CSE003", "Kabir", entity.BranchCSE, 3)
	testutil.CreateStudent(t, db, "21CSE001", "Aarav", entity.BranchCSE, 3)
	testutil.CreateStudent(t, db, "22CSE001", "Junior", entity.BranchCSE, 2)
	testutil.CreateStudent(t, db, "21ECE001", "Other Branch", entity.BranchECE, 3)

	students, err := svc.ListEligibleStudents(ctx, identity.Faculty{Profile: rao}, sched.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "21CSE001", students[0].HallTicketID)
	assert.Equal(t, "21CSE003", students[1].HallTicketID)
}
