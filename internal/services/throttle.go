package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/fishshop-backend/internal/errors"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/metrics"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
)

// Fixed throttle policy.
const (
	MaxOTPResends       = 3
	DeviceBlockDuration = 3*time.Hour + 30*time.Minute
)

// ThrottleService limits OTP sends per client IP.
type ThrottleService interface {
	CheckStatus(ctx context.Context, ip string) (*models.DeviceStatus, error)
	RecordAttempt(ctx context.Context, ip string) (int, error)
	Clear(ctx context.Context, ip string) error
}

type throttleService struct {
	repo repository.DeviceRepository
	now  func() time.Time
}

func NewThrottleService(repo repository.DeviceRepository) ThrottleService {
	return NewThrottleServiceWithClock(repo, time.Now)
}

func NewThrottleServiceWithClock(repo repository.DeviceRepository, now func() time.Time) ThrottleService {
	return &throttleService{repo: repo, now: now}
}

// CheckStatus reports whether ip may request an OTP. An elapsed block is reset
// and persisted before reporting, so the check can mutate state.
func (s *throttleService) CheckStatus(ctx context.Context, ip string) (*models.DeviceStatus, error) {

	block, err := s.repo.FindByIP(ctx, ip)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.DeviceStatus{}, nil
		}
		return nil, appErrors.DatabaseError("Failed to read device status").WithError(err)
	}

	if block.BlockedUntil == nil {
		return &models.DeviceStatus{ResendCount: block.ResendCount}, nil
	}

	if !s.now().Before(*block.BlockedUntil) {
		if err := s.repo.Reset(ctx, ip); err != nil {
			return nil, appErrors.DatabaseError("Failed to reset device block").WithError(err)
		}

		middleware.LoggerFromContext(ctx).Info("Device block expired", slog.String("ip", ip))
		return &models.DeviceStatus{}, nil
	}

	until := *block.BlockedUntil

	return &models.DeviceStatus{
		IsBlocked:    true,
		ResendCount:  block.ResendCount,
		BlockedUntil: &until,
	}, nil
}

// RecordAttempt counts one OTP send and blocks the IP once the count reaches MaxOTPResends.
func (s *throttleService) RecordAttempt(ctx context.Context, ip string) (int, error) {

	now := s.now()

	until := now.Add(DeviceBlockDuration)

	block, err := s.repo.IncrementAttempt(ctx, ip, now, MaxOTPResends, until)
	if err != nil {
		return 0, appErrors.DatabaseError("Failed to record OTP attempt").WithError(err)
	}

	// blocked by this attempt; the store truncates to milliseconds
	if block.BlockedUntil != nil && !block.BlockedUntil.Before(until.Truncate(time.Millisecond)) {
		metrics.RecordDeviceBlock()
		middleware.LoggerFromContext(ctx).Warn("Device blocked for OTP abuse",
			slog.String("ip", ip),
			slog.Int("resendCount", block.ResendCount),
			slog.Time("blockedUntil", *block.BlockedUntil))
	}

	return block.ResendCount, nil
}

func (s *throttleService) Clear(ctx context.Context, ip string) error {

	if err := s.repo.Delete(ctx, ip); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return appErrors.DatabaseError("Failed to clear device status").WithError(err)
	}

	return nil
}
