package service

import (
	"context"
	"fmt"
	"time"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	"anoa.com/collegeattendance/internal/modules/attendance/dto"
	"anoa.com/collegeattendance/internal/modules/attendance/repository"
	scheduleDto "anoa.com/collegeattendance/internal/modules/schedule/dto"
	schedule "anoa.com/collegeattendance/internal/modules/schedule/service"
	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttendanceService interface {
	Sheet(ctx context.Context, faculty identity.Faculty, scheduleID uuid.UUID) (*dto.SheetResponse, error)
	MarkAttendance(ctx context.Context, faculty identity.Faculty, scheduleID uuid.UUID, statuses map[uuid.UUID]entity.AttendanceStatus) (*dto.MarkAttendanceResponse, error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	schedules schedule.ScheduleService
	log       *zap.Logger
	now       func() time.Time
}

func NewAttendanceService(repo repository.AttendanceRepository, schedules schedule.ScheduleService, log *zap.Logger, now func() time.Time) AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &attendanceService{repo: repo, schedules: schedules, log: log, now: now}
}

func (s *attendanceService) Sheet(ctx context.Context, faculty identity.Faculty, scheduleID uuid.UUID) (*dto.SheetResponse, error) {
	sched, err := s.schedules.OwnedSchedule(ctx, faculty, scheduleID)
	if err != nil {
		return nil, err
	}

	students, err := s.schedules.Batch(ctx, faculty)
	if err != nil {
		return nil, err
	}

	marks, err := s.repo.FindBySchedule(ctx, sched.ID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]entity.Attendance, len(marks))
	for _, m := range marks {
		byStudent[m.StudentID] = m
	}

	resp := &dto.SheetResponse{
		Schedule: scheduleDto.NewScheduleResponse(*sched),
		Rows:     make([]dto.SheetRow, 0, len(students)),
	}
	for _, st := range students {
		row := dto.SheetRow{
			StudentID:    st.ID,
			HallTicketID: st.HallTicketID,
			Label:        st.Label(),
		}
		if m, ok := byStudent[st.ID]; ok {
			status, updated := m.Status, m.UpdatedAt
			row.Status = &status
			row.UpdatedAt = &updated
			resp.Marked++
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

func (s *attendanceService) MarkAttendance(ctx context.Context, faculty identity.Faculty, scheduleID uuid.UUID, statuses map[uuid.UUID]entity.AttendanceStatus) (*dto.MarkAttendanceResponse, error) {
	sched, err := s.schedules.OwnedSchedule(ctx, faculty, scheduleID)
	if err != nil {
		return nil, err
	}

	verr := &apperror.ValidationError{}
	for studentID, status := range statuses {
		if !status.Valid() {
			verr.Add(studentID.String(), fmt.Sprintf("status %q must be one of: present, absent", status))
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	students, err := s.schedules.Batch(ctx, faculty)
	if err != nil {
		return nil, err
	}
	eligible := make(map[uuid.UUID]struct{}, len(students))
	for _, st := range students {
		eligible[st.ID] = struct{}{}
	}

	for studentID := range statuses {
		if _, ok := eligible[studentID]; !ok {
			return nil, fmt.Errorf("student %s: %w", studentID, apperror.ErrIneligibleStudent)
		}
	}

	for _, st := range students {
		if _, ok := statuses[st.ID]; !ok {
			verr.Add(st.ID.String(), fmt.Sprintf("incomplete batch: no status for %s", st.Label()))
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.MarkAttendanceResponse{ScheduleID: sched.ID}
	records := make([]entity.Attendance, 0, len(students))
	for _, st := range students {
		status := statuses[st.ID]
		records = append(records, entity.Attendance{
			StudentID:  st.ID,
			ScheduleID: sched.ID,
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if status == entity.StatusPresent {
			resp.Present++
		} else {
			resp.Absent++
		}
	}

	if err := s.repo.UpsertBatch(ctx, records); err != nil {
		return nil, err
	}
	metrics.MarksRecorded.WithLabelValues(string(entity.StatusPresent)).Add(float64(resp.Present))
	metrics.MarksRecorded.WithLabelValues(string(entity.StatusAbsent)).Add(float64(resp.Absent))

	s.log.Info("attendance marked",
		zap.String("schedule_id", sched.ID.String()),
		zap.Int("present", resp.Present),
		zap.Int("absent", resp.Absent),
	)
	return resp, nil
}
