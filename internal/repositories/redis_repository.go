package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

type OTPRepository interface {
	SaveOTP(ctx context.Context, phone, codeHash string, ttl time.Duration) error
	GetOTP(ctx context.Context, phone string) (*models.OTPRecord, error)
	IncrementAttempts(ctx context.Context, phone string) (int, error)
	DeleteOTP(ctx context.Context, phone string) error
}

type otpRepository struct {
	client *redis.Client
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.RedisConnect.Username, cfg.RedisConnect.Host, cfg.RedisConnect.Port)))

	// Parse the Redis URL
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")
	return client, nil
}

func NewOTPRepo(client *redis.Client) OTPRepository {
	return &otpRepository{client: client}
}

func otpKey(phone string) string {
	return "otp:" + phone
}

// SaveOTP replaces any pending code for the phone and resets its attempt counter.
func (r *otpRepository) SaveOTP(ctx context.Context, phone, codeHash string, ttl time.Duration) error {

	logger := middleware.LoggerFromContext(ctx)
	key := otpKey(phone)

	pipe := r.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "hash", codeHash, "attempts", 0)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for OTP save", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("redis pipeline error for otp save: %w", err)
	}

	return nil
}

func (r *otpRepository) GetOTP(ctx context.Context, phone string) (*models.OTPRecord, error) {

	values, err := r.client.HGetAll(ctx, otpKey(phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read otp: %w", err)
	}

	hash, ok := values["hash"]
	if !ok {
		return nil, ErrNotFound
	}

	attempts, err := strconv.Atoi(values["attempts"])
	if err != nil {
		attempts = 0
	}

	return &models.OTPRecord{CodeHash: hash, Attempts: attempts}, nil
}

func (r *otpRepository) IncrementAttempts(ctx context.Context, phone string) (int, error) {

	n, err := r.client.HIncrBy(ctx, otpKey(phone), "attempts", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment otp attempts: %w", err)
	}

	return int(n), nil
}

func (r *otpRepository) DeleteOTP(ctx context.Context, phone string) error {

	if err := r.client.Del(ctx, otpKey(phone)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete otp: %w", err)
	}

	return nil
}
