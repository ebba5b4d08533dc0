package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/fishshop-backend/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Opens after consecutive failures", func(t *testing.T) {
		// Arrange
		cb := circuitbreaker.New[string]("test", circuitbreaker.Options{ConsecutiveFails: 2})
		failing := func() (string, error) { return "", errors.New("boom") }

		// Act
		_, err1 := cb.Execute(failing)
		_, err2 := cb.Execute(failing)
		_, err3 := cb.Execute(func() (string, error) { return "ok", nil })

		// Assert
		require.Error(t, err1)
		require.Error(t, err2)
		assert.ErrorIs(t, err3, gobreaker.ErrOpenState)
		assert.Equal(t, gobreaker.StateOpen, cb.State())
	})

	t.Run("Stays closed on success", func(t *testing.T) {
		// Arrange
		cb := circuitbreaker.New[int]("ok", circuitbreaker.Options{})

		// Act
		v, err := cb.Execute(func() (int, error) { return 7, nil })

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7, v)
		assert.Equal(t, gobreaker.StateClosed, cb.State())
	})
}
