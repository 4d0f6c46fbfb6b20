package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Branch string

const (
	BranchCSE Branch = "CSE"
	BranchECE Branch = "ECE"
	BranchIT  Branch = "IT"
	BranchME  Branch = "ME"
	BranchCE  Branch = "CE"
)

var branchLabels = map[Branch]string{
	BranchCSE: "Computer Science Engineering",
	BranchECE: "Electronics and Communication Engineering",
	BranchIT:  "Information Technology",
	BranchME:  "Mechanical Engineering",
	BranchCE:  "Civil Engineering",
}

func (b Branch) Valid() bool {
	_, ok := branchLabels[b]
	return ok
}

func (b Branch) Label() string {
	return branchLabels[b]
}

const (
	MinYear = 1
	MaxYear = 4
)

type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	HallTicketID string    `gorm:"size:20;uniqueIndex;not null" json:"hall_ticket_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Branch       Branch    `gorm:"size:10;not null;index:idx_students_batch,priority:1" json:"branch"`
	Year         int       `gorm:"not null;index:idx_students_batch,priority:2" json:"year"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

// Label is how a student appears on attendance sheets.
func (s Student) Label() string {
	return s.HallTicketID + " - " + s.Name
}

type Faculty struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Subject   string    `gorm:"size:100;not null" json:"subject"`
	Branch    Branch    `gorm:"size:10;not null" json:"branch"`
	Year      int       `gorm:"not null" json:"year"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Faculty) TableName() string {
	return "faculty"
}

func (f *Faculty) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}

// Teaches reports whether the student belongs to the faculty's batch.
func (f Faculty) Teaches(s Student) bool {
	return s.Branch == f.Branch && s.Year == f.Year
}
