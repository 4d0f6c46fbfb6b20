package middleware

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/collegeattendance/internal/auth"
	"anoa.com/collegeattendance/internal/identity"
	userRepo "anoa.com/collegeattendance/internal/modules/user/repository"
	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	principalKey = "principal"
	claimsKey    = "claims"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	issuer   *auth.Issuer
	revoked  *auth.RevocationStore
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, issuer *auth.Issuer, revoked *auth.RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		issuer:   issuer,
		revoked:  revoked,
	}
}

// RequireAuth resolves the bearer token to a principal once per request.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			abort(c, apperror.New(http.StatusUnauthorized, "authorization required", apperror.ErrUnauthorized))
			return
		}

		claims, err := m.issuer.Parse(tokenString)
		if err != nil {
			abort(c, apperror.New(http.StatusUnauthorized, err.Error(), apperror.ErrUnauthorized))
			return
		}

		revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			abort(c, err)
			return
		}
		if revoked {
			abort(c, apperror.New(http.StatusUnauthorized, "token has been revoked", apperror.ErrUnauthorized))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abort(c, apperror.New(http.StatusUnauthorized, "invalid token claims", apperror.ErrUnauthorized))
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abort(c, apperror.New(http.StatusUnauthorized, "user not found", apperror.ErrUnauthorized))
				return
			}
			abort(c, err)
			return
		}

		p, ok := identity.FromUser(user)
		if !ok || p.Role() != claims.Role {
			abort(c, apperror.New(http.StatusUnauthorized, "invalid token claims", apperror.ErrUnauthorized))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(principalKey, p)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := CurrentStudent(c); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireFaculty() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := CurrentFaculty(c); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	response.ResponseError(c, err)
	c.Abort()
}

func CurrentPrincipal(c *gin.Context) (identity.Principal, error) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, apperror.New(http.StatusUnauthorized, "user not authenticated", apperror.ErrUnauthorized)
	}
	p, ok := v.(identity.Principal)
	if !ok {
		return nil, apperror.New(http.StatusUnauthorized, "user not authenticated", apperror.ErrUnauthorized)
	}
	return p, nil
}

func CurrentClaims(c *gin.Context) (auth.Claims, error) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return auth.Claims{}, apperror.ErrUnauthorized
	}
	claims, ok := v.(auth.Claims)
	if !ok {
		return auth.Claims{}, apperror.ErrUnauthorized
	}
	return claims, nil
}

func CurrentStudent(c *gin.Context) (identity.Student, error) {
	p, err := CurrentPrincipal(c)
	if err != nil {
		return identity.Student{}, err
	}
	s, ok := p.(identity.Student)
	if !ok {
		return identity.Student{}, apperror.New(http.StatusForbidden, "student access required", apperror.ErrForbidden)
	}
	return s, nil
}

func CurrentFaculty(c *gin.Context) (identity.Faculty, error) {
	p, err := CurrentPrincipal(c)
	if err != nil {
		return identity.Faculty{}, err
	}
	f, ok := p.(identity.Faculty)
	if !ok {
		return identity.Faculty{}, apperror.New(http.StatusForbidden, "faculty access required", apperror.ErrForbidden)
	}
	return f, nil
}
