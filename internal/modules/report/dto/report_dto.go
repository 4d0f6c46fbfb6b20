package dto

import (
	"time"

	"anoa.com/collegeattendance/internal/entity"
	scheduleDto "anoa.com/collegeattendance/internal/modules/schedule/dto"
	"github.com/google/uuid"
)

type Summary struct {
	Total                int     `json:"total"`
	Attended             int     `json:"attended"`
	Absent               int     `json:"absent"`
	Percentage           float64 `json:"percentage"`
	PercentageIfMissNext float64 `json:"percentage_if_miss_next"`
	AtRisk               bool    `json:"at_risk"`
	NoRecords            bool    `json:"no_records"`
}

type RecordResponse struct {
	ScheduleID  uuid.UUID               `json:"schedule_id"`
	Date        string                  `json:"date"`
	Subject     string                  `json:"subject"`
	Topic       string                  `json:"topic"`
	FacultyName string                  `json:"faculty_name"`
	Status      entity.AttendanceStatus `json:"status"`
	MarkedAt    time.Time               `json:"marked_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

type FacultyBreakdown struct {
	FacultyID   uuid.UUID `json:"faculty_id"`
	FacultyName string    `json:"faculty_name"`
	Summary     Summary   `json:"summary"`
}

type StudentDashboardResponse struct {
	Student   *entity.Student    `json:"student"`
	Threshold int                `json:"threshold"`
	Summary   Summary            `json:"summary"`
	Recent    []RecordResponse   `json:"recent"`
	ByFaculty []FacultyBreakdown `json:"by_faculty"`
}

type StudentAttendanceResponse struct {
	Threshold int              `json:"threshold"`
	Summary   Summary          `json:"summary"`
	Records   []RecordResponse `json:"records"`
}

type StudentSummary struct {
	Student scheduleDto.StudentResponse `json:"student"`
	Summary Summary                     `json:"summary"`
}

type BatchResponse struct {
	Branch      entity.Branch    `json:"branch"`
	BranchName  string           `json:"branch_name"`
	Year        int              `json:"year"`
	Threshold   int              `json:"threshold"`
	AtRiskCount int              `json:"at_risk_count"`
	Students    []StudentSummary `json:"students"`
}

type FacultyDashboardResponse struct {
	Faculty         *entity.Faculty                `json:"faculty"`
	TotalSchedules  int64                          `json:"total_schedules"`
	BatchSize       int                            `json:"batch_size"`
	RecentSchedules []scheduleDto.ScheduleResponse `json:"recent_schedules"`
	Batch           BatchResponse                  `json:"batch"`
}
