// Package testutil provides an in-memory database, a fake redis and
// roster fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"anoa.com/collegeattendance/internal/bootstrap"
	"anoa.com/collegeattendance/internal/entity"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// Clock returns strictly increasing times starting at start.
func Clock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func CreateFaculty(t *testing.T, db *gorm.DB, username string, branch entity.Branch, year int) entity.Faculty {
	t.Helper()
	user := entity.User{
		Username:     username,
		PasswordHash: "x",
		Role:         entity.RoleFaculty,
		Faculty: &entity.Faculty{
			Name:    "Prof " + username,
			Subject: "Computer Networks",
			Branch:  branch,
			Year:    year,
		},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create faculty: %v", err)
	}
	return *user.Faculty
}

func CreateStudent(t *testing.T, db *gorm.DB, hallTicket, name string, branch entity.Branch, year int) entity.Student {
	t.Helper()
	user := entity.User{
		Username:     hallTicket,
		PasswordHash: "x",
		Role:         entity.RoleStudent,
		Student: &entity.Student{
			HallTicketID: hallTicket,
			Name:         name,
			Branch:       branch,
			Year:         year,
		},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return *user.Student
}

func CreateSchedule(t *testing.T, db *gorm.DB, faculty entity.Faculty, date string) entity.Schedule {
	t.Helper()
	d, err := entity.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	schedule := entity.Schedule{
		FacultyID: faculty.ID,
		Date:      d,
		Subject:   faculty.Subject,
		Topic:     "Topic for " + date,
	}
	if err := db.Create(&schedule).Error; err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return schedule
}

func Mark(t *testing.T, db *gorm.DB, student entity.Student, schedule entity.Schedule, status entity.AttendanceStatus) {
	t.Helper()
	if err := db.Create(&entity.Attendance{
		StudentID:  student.ID,
		ScheduleID: schedule.ID,
		Status:     status,
	}).Error; err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
}
