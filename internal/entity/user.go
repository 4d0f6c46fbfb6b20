package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// User is the login identity. Students log in with their hall ticket id,
// faculty with a chosen username.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Student *Student `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Faculty *Faculty `gorm:"constraint:OnDelete:CASCADE" json:"faculty,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}
