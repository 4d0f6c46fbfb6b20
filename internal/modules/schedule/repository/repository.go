package repository

import (
	"context"

	"anoa.com/collegeattendance/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	// FindByFaculty lists newest date first. A limit of 0 returns all.
	FindByFaculty(ctx context.Context, facultyID uuid.UUID, limit int) ([]entity.Schedule, error)
	CountByFaculty(ctx context.Context, facultyID uuid.UUID) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	return r.db.WithContext(ctx).Omit("Faculty").Create(schedule).Error
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	var schedule entity.Schedule
	if err := r.db.WithContext(ctx).First(&schedule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindByFaculty(ctx context.Context, facultyID uuid.UUID, limit int) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	q := r.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) CountByFaculty(ctx context.Context, facultyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Schedule{}).
		Where("faculty_id = ?", facultyID).
		Count(&count).Error
	return count, err
}
