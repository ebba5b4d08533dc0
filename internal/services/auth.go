package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/metrics"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/utils"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/sms"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const otpDigits = 6

type AuthService interface {
	SendOTP(ctx context.Context, phone, ip string) (*models.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, phone, code, ip string) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	ValidateSession(ctx context.Context, userID, sessionToken string) error
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
}

type AuthConfig struct {
	JWTKey            []byte
	TokenTTL          time.Duration
	CodeTTL           time.Duration
	MaxVerifyAttempts int
	// ThrottleFailOpen lets OTPs through when the throttle store is unreachable.
	ThrottleFailOpen bool
	// DevEcho returns the code in the response. Never enable in production.
	DevEcho  bool
	HashCost int
}

type authService struct {
	users    repository.UserRepository
	otps     repository.OTPRepository
	throttle ThrottleService
	sender   sms.Sender
	cfg      AuthConfig
}

func NewAuthService(users repository.UserRepository, otps repository.OTPRepository, throttle ThrottleService, sender sms.Sender, cfg AuthConfig) AuthService {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	if cfg.MaxVerifyAttempts <= 0 {
		cfg.MaxVerifyAttempts = 5
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 5 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}

	return &authService{users: users, otps: otps, throttle: throttle, sender: sender, cfg: cfg}
}

func (s *authService) SendOTP(ctx context.Context, phone, ip string) (*models.SendOTPResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return nil, appErrors.ValidationError("Enter a valid 10 digit mobile number")
	}

	status, err := s.throttle.CheckStatus(ctx, ip)
	if err != nil {
		if !s.cfg.ThrottleFailOpen {
			metrics.RecordOTPRequest("throttle_error")
			return nil, err
		}
		logger.Warn("Device throttle unavailable, allowing OTP", slog.String("ip", ip), slog.String("error", err.Error()))
		status = &models.DeviceStatus{}
	}

	if status.IsBlocked {
		metrics.RecordOTPRequest("blocked")
		return nil, blockedError(*status.BlockedUntil)
	}

	code, err := generateCode()
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate OTP").WithError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.HashCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure OTP").WithError(err)
	}

	if err := s.otps.SaveOTP(ctx, phone, string(hash), s.cfg.CodeTTL); err != nil {
		return nil, appErrors.InternalError("Failed to store OTP").WithError(err)
	}

	message := fmt.Sprintf("%s is your login code. It expires in %d minutes.", code, int(s.cfg.CodeTTL.Minutes()))
	if err := s.sender.Send(ctx, phone, message); err != nil {
		metrics.RecordOTPRequest("send_failed")
		_ = s.otps.DeleteOTP(ctx, phone)
		return nil, appErrors.ThirdPartyError("Failed to send OTP").WithError(err)
	}

	count, err := s.throttle.RecordAttempt(ctx, ip)
	if err != nil {
		if !s.cfg.ThrottleFailOpen {
			return nil, err
		}
		logger.Warn("Failed to record OTP attempt", slog.String("ip", ip), slog.String("error", err.Error()))
	}

	metrics.RecordOTPRequest("sent")
	logger.Info("OTP sent", slog.String("ip", ip), slog.Int("resendCount", count))

	resp := &models.SendOTPResponse{
		ExpiresIn:   int(s.cfg.CodeTTL.Seconds()),
		ResendsLeft: max(0, MaxOTPResends-count),
	}
	if s.cfg.DevEcho {
		resp.Code = code
	}

	return resp, nil
}

func (s *authService) VerifyOTP(ctx context.Context, phone, code, ip string) (*models.AuthResponse, error) {

	logger := middleware.LoggerFromContext(ctx)
	phone = utils.NormalizePhone(phone)

	record, err := s.otps.GetOTP(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.BadRequestError("OTP expired or not requested")
		}
		return nil, appErrors.InternalError("Failed to read OTP").WithError(err)
	}

	if record.Attempts >= s.cfg.MaxVerifyAttempts {
		_ = s.otps.DeleteOTP(ctx, phone)
		return nil, appErrors.BadRequestError("Too many incorrect attempts, request a new OTP")
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		attempts, err := s.otps.IncrementAttempts(ctx, phone)
		if err != nil {
			return nil, appErrors.InternalError("Failed to record OTP attempt").WithError(err)
		}

		if attempts >= s.cfg.MaxVerifyAttempts {
			_ = s.otps.DeleteOTP(ctx, phone)
			return nil, appErrors.BadRequestError("Too many incorrect attempts, request a new OTP")
		}

		return nil, appErrors.UnauthorizedError("Invalid OTP").
			WithDetail(fmt.Sprintf("%d attempts left", s.cfg.MaxVerifyAttempts-attempts))
	}

	if err := s.otps.DeleteOTP(ctx, phone); err != nil {
		logger.Warn("Failed to delete used OTP", slog.String("error", err.Error()))
	}

	if err := s.throttle.Clear(ctx, ip); err != nil {
		logger.Warn("Failed to clear device throttle", slog.String("ip", ip), slog.String("error", err.Error()))
	}

	user, err := s.findOrCreateUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sessionToken, err := generateSessionToken()
	if err != nil {
		return nil, appErrors.InternalError("Failed to start session").WithError(err)
	}

	if err := s.users.SetSessionToken(ctx, user.ID, sessionToken, &now); err != nil {
		return nil, appErrors.DatabaseError("Failed to start session").WithError(err)
	}

	user.SessionToken = sessionToken
	user.LastLoginAt = &now

	claims := &models.Claims{
		UserID:       user.ID.Hex(),
		SessionToken: sessionToken,
		Role:         models.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := signToken(claims, s.cfg.JWTKey)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in", slog.String("userId", user.ID.Hex()))

	return &models.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.cfg.TokenTTL.Seconds()),
		User:      user,
	}, nil
}

func (s *authService) findOrCreateUser(ctx context.Context, phone string) (*models.User, error) {

	user, err := s.users.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	user = &models.User{Phone: phone}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// another verify for the same phone won the insert
		if errors.Is(err, repository.ErrDuplicate) {
			existing, getErr := s.users.GetUserByPhone(ctx, phone)
			if getErr != nil {
				return nil, appErrors.DatabaseError("Failed to fetch user").WithError(getErr)
			}
			return existing, nil
		}
		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

// Logout rotates the session token so every issued JWT stops validating.
func (s *authService) Logout(ctx context.Context, userID primitive.ObjectID) error {

	sessionToken, err := generateSessionToken()
	if err != nil {
		return appErrors.InternalError("Failed to end session").WithError(err)
	}

	if err := s.users.SetSessionToken(ctx, userID, sessionToken, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.NotFoundError("User not found")
		}
		return appErrors.DatabaseError("Failed to end session").WithError(err)
	}

	return nil
}

func (s *authService) ValidateSession(ctx context.Context, userID, sessionToken string) error {

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return appErrors.ForceLogoutError("Session is no longer valid")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.ForceLogoutError("Session is no longer valid")
		}
		return appErrors.DatabaseError("Failed to validate session").WithError(err)
	}

	if user.SessionToken == "" || subtle.ConstantTimeCompare([]byte(user.SessionToken), []byte(sessionToken)) != 1 {
		return appErrors.ForceLogoutError("You have been logged in on another device")
	}

	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("User not found")
		}
		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = utils.Sanitize(*req.Name)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, appErrors.DatabaseError("Failed to update profile").WithError(err)
	}

	return user, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(math.Pow10(otpDigits))))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

const sessionTokenBytes = 32

func generateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

func signToken(claims *models.Claims, key []byte) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return token, nil
}

func blockedError(until time.Time) *appErrors.AppError {
	retryAfter := int(math.Ceil(time.Until(until).Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	return appErrors.DeviceBlockedError("Too many OTP requests from this device").
		WithDetail("Try again after " + until.Format(time.RFC3339)).
		WithRetryAfter(retryAfter)
}
