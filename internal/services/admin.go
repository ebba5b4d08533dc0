package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AdminService interface {
	Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AuthResponse, error)
	// Bootstrap creates the first admin when none exist. It reports whether one was created.
	Bootstrap(ctx context.Context, username, password string) (bool, error)
}

type adminService struct {
	repo     repository.AdminRepository
	limiter  repository.LoginLimiter
	jwtKey   []byte
	tokenTTL time.Duration
}

// NewAdminService builds the admin login service. A nil limiter disables attempt limiting.
func NewAdminService(repo repository.AdminRepository, limiter repository.LoginLimiter, jwtKey []byte, tokenTTL time.Duration) AdminService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &adminService{repo: repo, limiter: limiter, jwtKey: jwtKey, tokenTTL: tokenTTL}
}

func (s *adminService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AuthResponse, error) {

	if s.limiter != nil {
		allowed, retryAfter, err := s.limiter.Allow(ctx, req.Username)
		if err != nil {
			// an unreachable limiter must not lock the owner out
			slog.Warn("Login limiter unavailable", slog.String("error", err.Error()))
		} else if !allowed {
			return nil, appErrors.TooManyRequestsError("Too many login attempts").WithRetryAfter(retryAfter)
		}
	}

	admin, err := s.repo.GetAdminByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Admin not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch admin").WithError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.UnauthorizedError("Invalid username or password")
	}

	now := time.Now()
	claims := &models.Claims{
		UserID: admin.ID.Hex(),
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := signToken(claims, s.jwtKey)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, req.Username); err != nil {
			slog.Warn("Failed to reset login attempts", slog.String("error", err.Error()))
		}
	}

	return &models.AuthResponse{Token: token, ExpiresIn: int(s.tokenTTL.Seconds())}, nil
}

func (s *adminService) Bootstrap(ctx context.Context, username, password string) (bool, error) {

	if username == "" || password == "" {
		return false, nil
	}

	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return false, appErrors.DatabaseError("Failed to count admins").WithError(err)
	}

	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	if err := s.repo.CreateAdmin(ctx, &models.Admin{Username: username, PasswordHash: string(hash)}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, appErrors.DatabaseError("Failed to create admin").WithError(err)
	}

	slog.Info("Bootstrap admin created", slog.String("username", username))

	return true, nil
}
