package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/collegeattendance/internal/auth"
	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	"anoa.com/collegeattendance/internal/modules/user/dto"
	"anoa.com/collegeattendance/internal/modules/user/repository"
	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/metrics"
	"anoa.com/collegeattendance/pkg/ratelimiter"
	"anoa.com/collegeattendance/pkg/sanitize"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 8
	loginScope        = "login"
)

// StudentIndexer receives newly registered students for directory search.
type StudentIndexer interface {
	IndexStudent(ctx context.Context, student entity.Student) error
}

type LoginThrottle struct {
	MaxAttempts int64
	Window      time.Duration
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.MeResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, claims auth.Claims) error
	Me(p identity.Principal) *dto.MeResponse
}

type authService struct {
	repo     repository.UserRepository
	issuer   *auth.Issuer
	revoked  *auth.RevocationStore
	limiter  *ratelimiter.Limiter
	throttle LoginThrottle
	indexer  StudentIndexer
	log      *zap.Logger
}

func NewAuthService(
	repo repository.UserRepository,
	issuer *auth.Issuer,
	revoked *auth.RevocationStore,
	limiter *ratelimiter.Limiter,
	throttle LoginThrottle,
	indexer StudentIndexer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		issuer:   issuer,
		revoked:  revoked,
		limiter:  limiter,
		throttle: throttle,
		indexer:  indexer,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.MeResponse, error) {
	user, err := buildUser(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrDuplicateIdentity
		}
		return nil, err
	}
	metrics.Registrations.WithLabelValues(string(user.Role)).Inc()

	if user.Student != nil && s.indexer != nil {
		if err := s.indexer.IndexStudent(ctx, *user.Student); err != nil {
			s.log.Warn("failed to index student", zap.String("hall_ticket_id", user.Student.HallTicketID), zap.Error(err))
		}
	}

	p, _ := identity.FromUser(user)
	return s.Me(p), nil
}

// buildUser validates a registration and returns the unsaved user with
// its profile attached.
func buildUser(req dto.RegisterRequest) (*entity.User, error) {
	verr := &apperror.ValidationError{}

	role := entity.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		verr.Add("role", "Role must be one of: student, faculty")
	}
	name := sanitize.Text(req.Name)
	if name == "" {
		verr.Add("name", "Name is required")
	}
	branch := entity.Branch(strings.ToUpper(strings.TrimSpace(req.Branch)))
	if !branch.Valid() {
		verr.Add("branch", "Branch must be one of: CSE, ECE, IT, ME, CE")
	}
	if req.Year < entity.MinYear || req.Year > entity.MaxYear {
		verr.Add("year", "Year must be between 1 and 4")
	}
	if len(req.Password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if req.Password != req.PasswordConfirm {
		verr.Add("password_confirm", "Passwords do not match")
	}

	user := &entity.User{Role: role}
	switch role {
	case entity.RoleStudent:
		hallTicket := strings.TrimSpace(req.HallTicketID)
		if hallTicket == "" {
			verr.Add("hall_ticket_id", "Hall Ticket ID is required")
		} else if utf8.RuneCountInString(hallTicket) > 20 {
			verr.Add("hall_ticket_id", "Hall Ticket ID must be at most 20 characters")
		}
		user.Username = hallTicket
		user.Student = &entity.Student{
			HallTicketID: hallTicket,
			Name:         name,
			Branch:       branch,
			Year:         req.Year,
		}
	case entity.RoleFaculty:
		username := strings.TrimSpace(req.Username)
		if username == "" {
			verr.Add("username", "Username is required")
		}
		subject := sanitize.Text(req.Subject)
		if subject == "" {
			verr.Add("subject", "Subject is required")
		}
		user.Username = username
		user.Faculty = &entity.Faculty{
			Name:    name,
			Subject: subject,
			Branch:  branch,
			Year:    req.Year,
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	role := entity.Role(req.Role)

	if err := s.limiter.Check(ctx, loginScope, username, s.throttle.MaxAttempts); err != nil {
		metrics.LoginAttempts.WithLabelValues(string(role), "throttled").Inc()
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.failedLogin(ctx, role, username)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, s.failedLogin(ctx, role, username)
	}

	if user.Role != role {
		metrics.LoginAttempts.WithLabelValues(string(role), "wrong_role").Inc()
		return nil, apperror.New(http.StatusForbidden,
			fmt.Sprintf("this account is registered as %s, please use the %s login", user.Role, user.Role),
			apperror.ErrForbidden)
	}

	p, ok := identity.FromUser(user)
	if !ok {
		return nil, fmt.Errorf("user %s has no %s profile", user.ID, user.Role)
	}

	if err := s.limiter.Reset(ctx, loginScope, username); err != nil {
		s.log.Warn("failed to reset login throttle", zap.String("username", username), zap.Error(err))
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues(string(role), "success").Inc()

	return &dto.AuthResponse{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt.Unix(),
		Me:          s.Me(p),
	}, nil
}

func (s *authService) failedLogin(ctx context.Context, role entity.Role, username string) error {
	metrics.LoginAttempts.WithLabelValues(string(role), "invalid").Inc()
	if _, err := s.limiter.Hit(ctx, loginScope, username, s.throttle.Window); err != nil {
		s.log.Warn("failed to record login attempt", zap.String("username", username), zap.Error(err))
	}
	return apperror.ErrInvalidCredentials
}

func (s *authService) Logout(ctx context.Context, claims auth.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *authService) Me(p identity.Principal) *dto.MeResponse {
	resp := &dto.MeResponse{
		Role:      p.Role(),
		Name:      p.DisplayName(),
		Dashboard: identity.Dashboard(p),
	}
	switch v := p.(type) {
	case identity.Student:
		profile := v.Profile
		resp.Student = &profile
	case identity.Faculty:
		profile := v.Profile
		resp.Faculty = &profile
	}
	return resp
}
