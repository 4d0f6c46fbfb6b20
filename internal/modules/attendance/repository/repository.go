package repository

import (
	"context"
	"time"

	"anoa.com/collegeattendance/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one attendance mark joined with its schedule and faculty.
type Record struct {
	ScheduleID  uuid.UUID
	Date        datatypes.Date
	Subject     string
	Topic       string
	FacultyID   uuid.UUID
	FacultyName string
	Status      entity.AttendanceStatus
	MarkedAt    time.Time
	UpdatedAt   time.Time
}

type Counts struct {
	StudentID uuid.UUID
	Total     int64
	Attended  int64
}

type AttendanceRepository interface {
	// UpsertBatch writes all marks in one transaction. An existing mark for
	// the same student and schedule has its status replaced.
	UpsertBatch(ctx context.Context, records []entity.Attendance) error
	FindBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]entity.Attendance, error)
	// FindByStudent lists newest schedule first, optionally limited to one faculty.
	FindByStudent(ctx context.Context, studentID uuid.UUID, facultyID *uuid.UUID) ([]Record, error)
	CountByStudents(ctx context.Context, facultyID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]Counts, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) UpsertBatch(ctx context.Context, records []entity.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "schedule_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).Create(&records).Error
	})
}

func (r *attendanceRepository) FindBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]entity.Attendance, error) {
	var records []entity.Attendance
	if err := r.db.WithContext(ctx).Where("schedule_id = ?", scheduleID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, facultyID *uuid.UUID) ([]Record, error) {
	var records []Record
	q := r.db.WithContext(ctx).
		Table("attendance AS a").
		Select(`a.schedule_id, s.date, s.subject, s.topic, s.faculty_id, f.name AS faculty_name,
			a.status, a.created_at AS marked_at, a.updated_at`).
		Joins("JOIN schedules s ON s.id = a.schedule_id").
		Joins("JOIN faculty f ON f.id = s.faculty_id").
		Where("a.student_id = ?", studentID)

	if facultyID != nil {
		q = q.Where("s.faculty_id = ?", *facultyID)
	}

	if err := q.Order("s.date DESC").Order("f.name ASC").Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByStudents aggregates marks per student over the faculty's schedules.
// Students without marks are absent from the result.
func (r *attendanceRepository) CountByStudents(ctx context.Context, facultyID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]Counts, error) {
	out := make(map[uuid.UUID]Counts, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}

	var rows []Counts
	err := r.db.WithContext(ctx).
		Table("attendance AS a").
		Select("a.student_id, COUNT(*) AS total, SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS attended", entity.StatusPresent).
		Joins("JOIN schedules s ON s.id = a.schedule_id").
		Where("s.faculty_id = ? AND a.student_id IN ?", facultyID, studentIDs).
		Group("a.student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.StudentID] = row
	}
	return out, nil
}
