package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DevelopmentLevel(t *testing.T) {
	log := New("development")
	require.NotNil(t, log)
	assert.Equal(t, zerolog.DebugLevel, log.GetZerolog().GetLevel())
}

func TestNew_ProductionLevel(t *testing.T) {
	log := New("production")
	require.NotNil(t, log)
	assert.Equal(t, zerolog.InfoLevel, log.GetZerolog().GetLevel())
}

func TestWithRequestID_ReturnsChild(t *testing.T) {
	log := New("test")
	child := log.WithRequestID("req-123")

	require.NotNil(t, child)
	assert.NotSame(t, log, child)
}

func TestWith_Fields(t *testing.T) {
	log := New("test")
	child := log.With(map[string]interface{}{"component": "repository"})

	require.NotNil(t, child)
	// Logging must not panic with nil fields either.
	child.Info("message", nil)
	child.Error("message", nil, nil)
}
