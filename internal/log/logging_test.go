package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, nil, FormatJSON)).Info("hello", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	slog.New(NewHandler(&buf, nil, FormatText)).Info("hello", "n", 1)
	assert.Contains(t, buf.String(), "msg=hello n=1")

	// A buffer is never a terminal.
	buf.Reset()
	slog.New(NewHandler(&buf, nil, FormatAuto)).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h := LevelFilter{
		pass: func(l slog.Level) bool { return l >= slog.LevelError },
		h:    slog.NewTextHandler(&buf, nil),
	}
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	logger := slog.New(h)
	logger.Info("dropped")
	logger.Error("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closers, err := SetupLogger("debug", path, FormatAuto)
	require.NoError(t, err)
	logger.Debug("scanning", "files", 3)
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=scanning files=3")
}
