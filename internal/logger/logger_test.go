package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New("verbose", false)
	require.NoError(t, err)

	assert.False(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestNewDebugDevelopment(t *testing.T) {
	log, err := New("debug", true)
	require.NoError(t, err)

	assert.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
}
