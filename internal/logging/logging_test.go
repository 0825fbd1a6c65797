package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for level, want := range map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"info":  zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		t.Run("level "+level, func(t *testing.T) {
			logger, err := New(level)
			require.NoError(t, err)
			defer logger.Sync()

			assert.True(t, logger.Core().Enabled(want))
			if want != zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(want-1))
			}
		})
	}
}

func TestNewUnknownLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}
