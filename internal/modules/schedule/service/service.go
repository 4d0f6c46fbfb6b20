package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	roster "anoa.com/collegeattendance/internal/modules/roster/repository"
	"anoa.com/collegeattendance/internal/modules/schedule/dto"
	"anoa.com/collegeattendance/internal/modules/schedule/repository"
	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/metrics"
	"anoa.com/collegeattendance/pkg/sanitize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, faculty identity.Faculty, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	ListSchedules(ctx context.Context, faculty identity.Faculty) ([]dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, faculty identity.Faculty, id uuid.UUID) (*dto.ScheduleResponse, error)
	ListEligibleStudents(ctx context.Context, faculty identity.Faculty, scheduleID uuid.UUID) ([]dto.StudentResponse, error)

	// OwnedSchedule loads a schedule the faculty created. Schedules of
	// other faculty are reported as not found.
	OwnedSchedule(ctx context.Context, faculty identity.Faculty, id uuid.UUID) (*entity.Schedule, error)
	// Batch returns the students the faculty teaches, by hall ticket id.
	Batch(ctx context.Context, faculty identity.Faculty) ([]entity.Student, error)
}

type scheduleService struct {
	repo   repository.ScheduleRepository
	roster roster.RosterRepository
	log    *zap.Logger
}

func NewScheduleService(repo repository.ScheduleRepository, roster roster.RosterRepository, log *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, roster: roster, log: log}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, faculty identity.Faculty, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	verr := &apperror.ValidationError{}

	date, err := entity.ParseDate(req.Date)
	if err != nil {
		verr.Add("date", "Date must be a date in YYYY-MM-DD format")
	}
	subject := sanitize.Text(req.Subject)
	switch {
	case subject == "":
		verr.Add("subject", "Subject is required")
	case utf8.RuneCountInString(subject) > 100:
		verr.Add("subject", "Subject must be at most 100 characters")
	}
	topic := sanitize.Text(req.Topic)
	switch {
	case topic == "":
		verr.Add("topic", "Topic is required")
	case utf8.RuneCountInString(topic) > 200:
		verr.Add("topic", "Topic must be at most 200 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	schedule := &entity.Schedule{
		FacultyID: faculty.Profile.ID,
		Date:      date,
		Subject:   subject,
		Topic:     topic,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrDuplicateScheduleDate
		}
		return nil, err
	}
	metrics.SchedulesCreated.Inc()

	s.log.Info("schedule created",
		zap.String("faculty_id", faculty.Profile.ID.String()),
		zap.String("date", schedule.Day()),
	)

	resp := dto.NewScheduleResponse(*schedule)
	return &resp, nil
}

func (s *scheduleService) ListSchedules(ctx context.Context, faculty identity.Faculty) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.FindByFaculty(ctx, faculty.Profile.ID, 0)
	if err != nil {
		return nil, err
	}
	return dto.NewScheduleResponses(schedules), nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, faculty identity.Faculty, id uuid.UUID) (*dto.ScheduleResponse, error) {
	schedule, err := s.OwnedSchedule(ctx, faculty, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewScheduleResponse(*schedule)
	return &resp, nil
}

func (s *scheduleService) ListEligibleStudents(ctx context.Context, faculty identity.Faculty, scheduleID uuid.UUID) ([]dto.StudentResponse, error) {
	if _, err := s.OwnedSchedule(ctx, faculty, scheduleID); err != nil {
		return nil, err
	}
	students, err := s.Batch(ctx, faculty)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponses(students), nil
}

func (s *scheduleService) OwnedSchedule(ctx context.Context, faculty identity.Faculty, id uuid.UUID) (*entity.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if schedule.FacultyID != faculty.Profile.ID {
		return nil, apperror.ErrNotFound
	}
	return schedule, nil
}

func (s *scheduleService) Batch(ctx context.Context, faculty identity.Faculty) ([]entity.Student, error) {
	return s.roster.FindStudentsByBranchYear(ctx, faculty.Profile.Branch, faculty.Profile.Year)
}
