// Package identity holds the authenticated principal of a request.
package identity

import (
	"anoa.com/collegeattendance/internal/entity"
	"github.com/google/uuid"
)

// Principal is either a Student or a Faculty. The set is closed.
type Principal interface {
	AccountID() uuid.UUID
	Role() entity.Role
	DisplayName() string
	principal()
}

type Student struct {
	Profile entity.Student
}

func (s Student) AccountID() uuid.UUID { return s.Profile.UserID }
func (s Student) Role() entity.Role    { return entity.RoleStudent }
func (s Student) DisplayName() string  { return s.Profile.Name }
func (Student) principal()             {}

type Faculty struct {
	Profile entity.Faculty
}

func (f Faculty) AccountID() uuid.UUID { return f.Profile.UserID }
func (f Faculty) Role() entity.Role    { return entity.RoleFaculty }
func (f Faculty) DisplayName() string  { return f.Profile.Name }
func (Faculty) principal()             {}

// FromUser builds the principal for a user loaded with its profile.
// It returns false when the profile for the user's role is missing.
func FromUser(u *entity.User) (Principal, bool) {
	switch u.Role {
	case entity.RoleStudent:
		if u.Student == nil {
			return nil, false
		}
		return Student{Profile: *u.Student}, true
	case entity.RoleFaculty:
		if u.Faculty == nil {
			return nil, false
		}
		return Faculty{Profile: *u.Faculty}, true
	}
	return nil, false
}

// Dashboard names the landing page for a principal.
func Dashboard(p Principal) string {
	switch p.(type) {
	case Student:
		return "/api/student/dashboard"
	case Faculty:
		return "/api/faculty/dashboard"
	}
	return ""
}
