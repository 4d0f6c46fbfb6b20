package repository

import (
	"context"
	"strings"

	"anoa.com/collegeattendance/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RosterRepository interface {
	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*entity.Student, error)
	FindFacultyByUserID(ctx context.Context, userID uuid.UUID) (*entity.Faculty, error)
	FindStudentsByBranchYear(ctx context.Context, branch entity.Branch, year int) ([]entity.Student, error)
	FindStudentsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Student, error)
	SearchStudents(ctx context.Context, branch entity.Branch, year int, query string, limit int) ([]entity.Student, error)
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*entity.Student, error) {
	var student entity.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *rosterRepository) FindFacultyByUserID(ctx context.Context, userID uuid.UUID) (*entity.Faculty, error) {
	var faculty entity.Faculty
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&faculty).Error; err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindStudentsByBranchYear returns a batch ordered by hall ticket id.
func (r *rosterRepository) FindStudentsByBranchYear(ctx context.Context, branch entity.Branch, year int) ([]entity.Student, error) {
	var students []entity.Student
	err := r.db.WithContext(ctx).
		Where("branch = ? AND year = ?", branch, year).
		Order("hall_ticket_id ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *rosterRepository) FindStudentsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Student, error) {
	var students []entity.Student
	if len(ids) == 0 {
		return students, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("hall_ticket_id ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *rosterRepository) SearchStudents(ctx context.Context, branch entity.Branch, year int, query string, limit int) ([]entity.Student, error) {
	var students []entity.Student
	q := r.db.WithContext(ctx).Where("branch = ? AND year = ?", branch, year)

	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(hall_ticket_id) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Order("hall_ticket_id ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}
