package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/stripe"
	"github.com/hellofresh/health-go/v5"
	healthMongo "github.com/hellofresh/health-go/v5/checks/mongo"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const serviceVersion = "1.0.0"

type Endpoints struct {
	StripeClient stripe.Client
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "mongodb",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: healthMongo.New(healthMongo.Config{
				DSN:               cfg.Mongo.URI,
				TimeoutConnect:    cfg.Mongo.ConnectTimeout,
				TimeoutDisconnect: 2 * time.Second,
				TimeoutPing:       2 * time.Second,
			}),
		},
		{
			// OTP state and the catalog cache live here; the throttle can fail open without it.
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: cfg.OTP.ThrottleFailOpen,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if cfg.Stripe.APIKey != "" {
		checks = append(checks, health.Config{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check:     stripeCheck(endpoints.StripeClient),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: serviceVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func stripeCheck(client stripe.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("stripe client is not initialized")
		}

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to stripe: %w", err)
		}

		return nil
	}
}
