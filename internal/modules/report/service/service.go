package service

import (
	"context"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	attendance "anoa.com/collegeattendance/internal/modules/attendance/repository"
	"anoa.com/collegeattendance/internal/modules/report/dto"
	roster "anoa.com/collegeattendance/internal/modules/roster/repository"
	scheduleDto "anoa.com/collegeattendance/internal/modules/schedule/dto"
	schedule "anoa.com/collegeattendance/internal/modules/schedule/repository"
	"anoa.com/collegeattendance/pkg/apperror"
	"github.com/google/uuid"
)

const (
	recentRecordsLimit   = 10
	recentSchedulesLimit = 5
)

type ReportService interface {
	StudentDashboard(ctx context.Context, student identity.Student) (*dto.StudentDashboardResponse, error)
	StudentAttendance(ctx context.Context, student identity.Student) (*dto.StudentAttendanceResponse, error)
	BatchSummaries(ctx context.Context, faculty identity.Faculty) (*dto.BatchResponse, error)
	StudentForFaculty(ctx context.Context, faculty identity.Faculty, studentID uuid.UUID) (*dto.StudentAttendanceResponse, error)
	FacultyDashboard(ctx context.Context, faculty identity.Faculty) (*dto.FacultyDashboardResponse, error)
}

type reportService struct {
	attendance attendance.AttendanceRepository
	schedules  schedule.ScheduleRepository
	roster     roster.RosterRepository
}

func NewReportService(attendance attendance.AttendanceRepository, schedules schedule.ScheduleRepository, roster roster.RosterRepository) ReportService {
	return &reportService{attendance: attendance, schedules: schedules, roster: roster}
}

func (s *reportService) StudentDashboard(ctx context.Context, student identity.Student) (*dto.StudentDashboardResponse, error) {
	records, err := s.attendance.FindByStudent(ctx, student.Profile.ID, nil)
	if err != nil {
		return nil, err
	}

	recent := records
	if len(recent) > recentRecordsLimit {
		recent = recent[:recentRecordsLimit]
	}

	profile := student.Profile
	return &dto.StudentDashboardResponse{
		Student:   &profile,
		Threshold: AttendanceThreshold,
		Summary:   Summarize(statusesOf(records)),
		Recent:    toRecordResponses(recent),
		ByFaculty: breakdownByFaculty(records),
	}, nil
}

func (s *reportService) StudentAttendance(ctx context.Context, student identity.Student) (*dto.StudentAttendanceResponse, error) {
	records, err := s.attendance.FindByStudent(ctx, student.Profile.ID, nil)
	if err != nil {
		return nil, err
	}
	return &dto.StudentAttendanceResponse{
		Threshold: AttendanceThreshold,
		Summary:   Summarize(statusesOf(records)),
		Records:   toRecordResponses(records),
	}, nil
}

// BatchSummaries computes every batch student's summary over the
// faculty's own schedules.
func (s *reportService) BatchSummaries(ctx context.Context, faculty identity.Faculty) (*dto.BatchResponse, error) {
	students, err := s.roster.FindStudentsByBranchYear(ctx, faculty.Profile.Branch, faculty.Profile.Year)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	counts, err := s.attendance.CountByStudents(ctx, faculty.Profile.ID, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchResponse{
		Branch:     faculty.Profile.Branch,
		BranchName: faculty.Profile.Branch.Label(),
		Year:       faculty.Profile.Year,
		Threshold:  AttendanceThreshold,
		Students:   make([]dto.StudentSummary, 0, len(students)),
	}
	studentDTOs := scheduleDto.NewStudentResponses(students)
	for i, st := range students {
		c := counts[st.ID]
		summary := FromCounts(int(c.Total), int(c.Attended))
		if summary.AtRisk {
			resp.AtRiskCount++
		}
		resp.Students = append(resp.Students, dto.StudentSummary{
			Student: studentDTOs[i],
			Summary: summary,
		})
	}
	return resp, nil
}

// StudentForFaculty lists one batch student's marks on the faculty's schedules.
func (s *reportService) StudentForFaculty(ctx context.Context, faculty identity.Faculty, studentID uuid.UUID) (*dto.StudentAttendanceResponse, error) {
	students, err := s.roster.FindStudentsByIDs(ctx, []uuid.UUID{studentID})
	if err != nil {
		return nil, err
	}
	if len(students) == 0 || !faculty.Profile.Teaches(students[0]) {
		return nil, apperror.ErrNotFound
	}

	facultyID := faculty.Profile.ID
	records, err := s.attendance.FindByStudent(ctx, studentID, &facultyID)
	if err != nil {
		return nil, err
	}
	return &dto.StudentAttendanceResponse{
		Threshold: AttendanceThreshold,
		Summary:   Summarize(statusesOf(records)),
		Records:   toRecordResponses(records),
	}, nil
}

func (s *reportService) FacultyDashboard(ctx context.Context, faculty identity.Faculty) (*dto.FacultyDashboardResponse, error) {
	recent, err := s.schedules.FindByFaculty(ctx, faculty.Profile.ID, recentSchedulesLimit)
	if err != nil {
		return nil, err
	}
	total, err := s.schedules.CountByFaculty(ctx, faculty.Profile.ID)
	if err != nil {
		return nil, err
	}
	batch, err := s.BatchSummaries(ctx, faculty)
	if err != nil {
		return nil, err
	}

	profile := faculty.Profile
	return &dto.FacultyDashboardResponse{
		Faculty:         &profile,
		TotalSchedules:  total,
		BatchSize:       len(batch.Students),
		RecentSchedules: scheduleDto.NewScheduleResponses(recent),
		Batch:           *batch,
	}, nil
}

func statusesOf(records []attendance.Record) []entity.AttendanceStatus {
	out := make([]entity.AttendanceStatus, 0, len(records))
	for _, r := range records {
		out = append(out, r.Status)
	}
	return out
}

// breakdownByFaculty keeps faculty in order of their most recent schedule.
func breakdownByFaculty(records []attendance.Record) []dto.FacultyBreakdown {
	var order []uuid.UUID
	names := make(map[uuid.UUID]string)
	grouped := make(map[uuid.UUID][]entity.AttendanceStatus)
	for _, r := range records {
		if _, seen := grouped[r.FacultyID]; !seen {
			order = append(order, r.FacultyID)
			names[r.FacultyID] = r.FacultyName
		}
		grouped[r.FacultyID] = append(grouped[r.FacultyID], r.Status)
	}

	out := make([]dto.FacultyBreakdown, 0, len(order))
	for _, id := range order {
		out = append(out, dto.FacultyBreakdown{
			FacultyID:   id,
			FacultyName: names[id],
			Summary:     Summarize(grouped[id]),
		})
	}
	return out
}

func toRecordResponses(records []attendance.Record) []dto.RecordResponse {
	out := make([]dto.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RecordResponse{
			ScheduleID:  r.ScheduleID,
			Date:        entity.Schedule{Date: r.Date}.Day(),
			Subject:     r.Subject,
			Topic:       r.Topic,
			FacultyName: r.FacultyName,
			Status:      r.Status,
			MarkedAt:    r.MarkedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out
}

