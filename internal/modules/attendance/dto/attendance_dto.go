package dto

import (
	"time"

	"anoa.com/collegeattendance/internal/entity"
	scheduleDto "anoa.com/collegeattendance/internal/modules/schedule/dto"
	"github.com/google/uuid"
)

// MarkAttendanceRequest maps student id to "present" or "absent". It must
// cover every student of the batch.
type MarkAttendanceRequest struct {
	Statuses map[string]string `json:"statuses" binding:"required"`
}

type SheetRow struct {
	StudentID    uuid.UUID                `json:"student_id"`
	HallTicketID string                   `json:"hall_ticket_id"`
	Label        string                   `json:"label"`
	Status       *entity.AttendanceStatus `json:"status"`
	UpdatedAt    *time.Time               `json:"updated_at,omitempty"`
}

type SheetResponse struct {
	Schedule scheduleDto.ScheduleResponse `json:"schedule"`
	Marked   int                          `json:"marked"`
	Rows     []SheetRow                   `json:"rows"`
}

type MarkAttendanceResponse struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	Present    int       `json:"present"`
	Absent     int       `json:"absent"`
}
