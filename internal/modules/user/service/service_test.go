package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"anoa.com/collegeattendance/internal/auth"
	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/modules/user/dto"
	"anoa.com/collegeattendance/internal/modules/user/repository"
	"anoa.com/collegeattendance/internal/testutil"
	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingIndexer struct {
	indexed []entity.Student
}

func (r *recordingIndexer) IndexStudent(_ context.Context, s entity.Student) error {
	r.indexed = append(r.indexed, s)
	return nil
}

type harness struct {
	svc     AuthService
	issuer  *auth.Issuer
	revoked *auth.RevocationStore
	indexer *recordingIndexer
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)

	issuer := auth.NewIssuer("test-secret", "college-attendance", time.Hour)
	revoked := auth.NewRevocationStore(rdb)
	indexer := &recordingIndexer{}
	svc := NewAuthService(
		repository.NewUserRepository(db),
		issuer,
		revoked,
		ratelimiter.New(rdb),
		LoginThrottle{MaxAttempts: 3, Window: time.Minute},
		indexer,
		zap.NewNop(),
	)
	return harness{svc: svc, issuer: issuer, revoked: revoked, indexer: indexer}
}

func studentRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Role:            "student",
		HallTicketID:    "21CSE001",
		Name:            "Asha Rao",
		Branch:          "CSE",
		Year:            3,
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
	}
}

func facultyRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Role:            "faculty",
		Username:        "prof.iyer",
		Name:            "Dr. Iyer",
		Subject:         "Operating Systems",
		Branch:          "cse",
		Year:            3,
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
	}
}

func TestRegisterStudent(t *testing.T) {
	h := newHarness(t)

	me, err := h.svc.Register(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, me.Role)
	assert.Equal(t, "/api/student/dashboard", me.Dashboard)
	require.NotNil(t, me.Student)
	assert.Equal(t, "21CSE001", me.Student.HallTicketID)

	require.Len(t, h.indexer.indexed, 1)
	assert.Equal(t, me.Student.ID, h.indexer.indexed[0].ID)
}

func TestRegisterFaculty(t *testing.T) {
	h := newHarness(t)

	me, err := h.svc.Register(context.Background(), facultyRequest())
	require.NoError(t, err)
	require.NotNil(t, me.Faculty)
	assert.Equal(t, entity.BranchCSE, me.Faculty.Branch)
	assert.Equal(t, "Operating Systems", me.Faculty.Subject)
	assert.Empty(t, h.indexer.indexed)
}

func TestRegisterDuplicate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	_, err = h.svc.Register(ctx, studentRequest())
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	req := studentRequest()
	req.Password = "short"
	req.PasswordConfirm = "different"
	req.Branch = "XYZ"
	req.Year = 5
	req.HallTicketID = " "

	_, err := h.svc.Register(context.Background(), req)
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"password", "password_confirm", "branch", "year", "hall_ticket_id"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Register(ctx, facultyRequest())
	require.NoError(t, err)

	resp, err := h.svc.Login(ctx, dto.LoginRequest{Role: "faculty", Username: "prof.iyer", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "/api/faculty/dashboard", resp.Me.Dashboard)

	claims, err := h.issuer.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFaculty, claims.Role)
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	_, err = h.svc.Login(ctx, dto.LoginRequest{Role: "student", Username: "21CSE001", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = h.svc.Login(ctx, dto.LoginRequest{Role: "student", Username: "nobody", Password: "whatever1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = h.svc.Login(ctx, dto.LoginRequest{Role: "faculty", Username: "21CSE001", Password: "supersecret"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "student")
}

func TestLoginThrottle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	bad := dto.LoginRequest{Role: "student", Username: "21CSE001", Password: "wrong-password"}
	for i := 0; i < 3; i++ {
		_, err := h.svc.Login(ctx, bad)
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	}

	// even the right password is refused while locked out
	_, err = h.svc.Login(ctx, dto.LoginRequest{Role: "student", Username: "21CSE001", Password: "supersecret"})
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	var rle *ratelimiter.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Greater(t, rle.RetryAfter, time.Duration(0))
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	resp, err := h.svc.Login(ctx, dto.LoginRequest{Role: "student", Username: "21CSE001", Password: "supersecret"})
	require.NoError(t, err)
	claims, err := h.issuer.Parse(resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, claims))
	revoked, err := h.revoked.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
