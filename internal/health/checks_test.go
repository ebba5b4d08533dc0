package health

import (
	"context"
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/stripe/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStripeCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		// Arrange
		client := new(mocks.Client)
		client.On("Ping", mock.Anything).Return(nil).Once()

		// Act
		err := stripeCheck(client)(context.Background())

		// Assert
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Unreachable", func(t *testing.T) {
		// Arrange
		client := new(mocks.Client)
		client.On("Ping", mock.Anything).Return(errors.New("dial tcp: timeout")).Once()

		// Act
		err := stripeCheck(client)(context.Background())

		// Assert
		assert.ErrorContains(t, err, "failed to connect to stripe")
	})

	t.Run("Nil Client", func(t *testing.T) {
		// Act
		err := stripeCheck(nil)(context.Background())

		// Assert
		assert.Error(t, err)
	})
}

func TestNewHealthHandler(t *testing.T) {
	// Arrange
	cfg := &config.Config{
		Mongo:        config.Mongo{URI: "mongodb://localhost:27017"},
		RedisConnect: config.RedisConnect{Host: "localhost", Port: "6379"},
		Otel:         config.Otel{ServiceName: "fishshop-backend"},
	}

	// Act
	h, err := NewHealthHandler(cfg, &Endpoints{})

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, h.Handler())
}
