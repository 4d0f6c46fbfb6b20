package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

// Schedule is one class session. A faculty holds at most one per date.
type Schedule struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FacultyID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_schedules_faculty_date,priority:1" json:"faculty_id"`
	Faculty   *Faculty       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date      datatypes.Date `gorm:"not null;uniqueIndex:idx_schedules_faculty_date,priority:2" json:"-"`
	Subject   string         `gorm:"size:100;not null" json:"subject"`
	Topic     string         `gorm:"size:200;not null" json:"topic"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

func (s Schedule) Day() string {
	return time.Time(s.Date).Format(DateLayout)
}

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(v string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, v, time.UTC)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
