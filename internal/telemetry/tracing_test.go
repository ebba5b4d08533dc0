package telemetry

import (
	"context"
	"testing"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_WithoutExporter(t *testing.T) {
	// Arrange
	cfg := &config.Config{Env: "test", Otel: config.Otel{ServiceName: "fishshop-test", SamplerRatio: 1}}

	// Act
	shutdown, err := InitTracer(context.Background(), cfg)

	// Assert
	require.NoError(t, err)
	_, span := otel.Tracer("test").Start(context.Background(), "place-order")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}
