package bootstrap

import (
	"fmt"

	"anoa.com/collegeattendance/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Student{},
		&entity.Faculty{},
		&entity.Schedule{},
		&entity.Attendance{},
	)
}

// DemoPassword is shared by every seeded account.
const DemoPassword = "password123"

type demoStudent struct {
	hallTicket string
	name       string
}

var demoStudents = []demoStudent{
	{"21CSE001", "Aarav Sharma"},
	{"21CSE002", "Diya Patel"},
	{"21CSE003", "Kabir Reddy"},
	{"21CSE004", "Meera Iyer"},
}

// SeedDemo creates one CSE third-year faculty and a small batch of students.
// It is a no-op once the demo faculty exists.
func SeedDemo(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("username = ?", "demo.faculty").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("demo data already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashedPasswordBytes)

	return db.Transaction(func(tx *gorm.DB) error {
		faculty := entity.User{
			Username:     "demo.faculty",
			PasswordHash: hash,
			Role:         entity.RoleFaculty,
			Faculty: &entity.Faculty{
				Name:    "Demo Faculty",
				Subject: "Computer Networks",
				Branch:  entity.BranchCSE,
				Year:    3,
			},
		}
		if err := tx.Create(&faculty).Error; err != nil {
			return fmt.Errorf("seed faculty: %w", err)
		}

		for _, s := range demoStudents {
			user := entity.User{
				Username:     s.hallTicket,
				PasswordHash: hash,
				Role:         entity.RoleStudent,
				Student: &entity.Student{
					HallTicketID: s.hallTicket,
					Name:         s.name,
					Branch:       entity.BranchCSE,
					Year:         3,
				},
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed student %s: %w", s.hallTicket, err)
			}
		}

		log.Info("demo data seeded",
			zap.String("faculty", faculty.Username),
			zap.Int("students", len(demoStudents)),
		)
		return nil
	})
}
