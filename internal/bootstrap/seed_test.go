package bootstrap_test

import (
	"testing"

	"anoa.com/collegeattendance/internal/bootstrap"
	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, bootstrap.SeedDemo(db, zap.NewNop()))
	require.NoError(t, bootstrap.SeedDemo(db, zap.NewNop()))

	var students []entity.Student
	require.NoError(t, db.Order("hall_ticket_id").Find(&students).Error)
	require.Len(t, students, 4)
	assert.Equal(t, "21CSE001", students[0].HallTicketID)

	var faculty entity.Faculty
	require.NoError(t, db.First(&faculty).Error)
	for _, s := range students {
		assert.True(t, faculty.Teaches(s))
	}

	var user entity.User
	require.NoError(t, db.Where("username = ?", "demo.faculty").First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(bootstrap.DemoPassword)))
}
