package logger

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_TeesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "logs.txt")

	logger, atom, err := New("debug", file, &console)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, atom.Level())

	logger.Info("converted", zap.Int("lines", 3))
	require.NoError(t, logger.Sync())

	assert.Contains(t, console.String(), "INFO")
	assert.Contains(t, console.String(), "converted")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lines":3`)
}

func TestNew_LevelChangesAtRuntime(t *testing.T) {
	var console bytes.Buffer

	logger, atom, err := New("warn", "", &console)
	require.NoError(t, err)

	logger.Info("hidden")
	atom.SetLevel(zapcore.InfoLevel)
	logger.Info("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("loud", "", &bytes.Buffer{})
	assert.Error(t, err)
}
