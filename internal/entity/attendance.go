package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Attendance is the single current mark of a student for a schedule.
type Attendance struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_schedule,priority:1" json:"student_id"`
	Student    *Student         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ScheduleID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_schedule,priority:2;index" json:"schedule_id"`
	Schedule   *Schedule        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Status     AttendanceStatus `gorm:"size:10;not null;default:'absent'" json:"status"`
	CreatedAt  time.Time        `json:"marked_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
