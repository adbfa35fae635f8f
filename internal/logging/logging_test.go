package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("installing component", "component", "skills")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "installing component")
	assert.Contains(t, out, "component=skills")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Warn("profile file missing", "profile", "autonomous")

	out := buf.String()
	assert.Contains(t, out, `"msg":"profile file missing"`)
	assert.Contains(t, out, `"profile":"autonomous"`)
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be dropped")
	assert.Contains(t, out, "should appear")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, LevelTrace},
		{3, LevelTrace},
		{-1, slog.LevelInfo},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		assert.Equal(t, tt.want, got, "verbosity %d", tt.verbosity)
	}
}

func TestDefault_TracksProcessLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	slog.SetDefault(New(Config{Level: slog.LevelError, Output: &buf}))

	logger := Default()
	logger.Info("quieted")
	logger.Error("kept")

	// Components that fall back to Default must see the level the root
	// command configured, not a fixed Info-level logger.
	assert.NotContains(t, buf.String(), "quieted")
	assert.Contains(t, buf.String(), "kept")
}

func TestHandler_TraceLevelString(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelTrace,
		Format: FormatText,
		Output: &buf,
	})

	logger.Log(context.Background(), LevelTrace, "placed file", "dst", "/tmp/x")

	assert.Contains(t, buf.String(), "TRACE")
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	handler := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(handler)

	logger.Info("info only")
	logger.Error("both")

	assert.Contains(t, a.String(), "info only")
	assert.NotContains(t, b.String(), "info only")
	assert.Contains(t, a.String(), "both")
	assert.Contains(t, b.String(), "both")
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	require.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	// Falls back to the default logger instead of returning nil.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestSupportsColor_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled(true))
}

func TestSupportsColor_DumbTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, colorEnabled(true))
}

func TestSupportsColor_NotTTY(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, SupportsColor(&buf))
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(base).With("backend", "rsync")

	logger.Info("pushing")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "backend=rsync")
	assert.Contains(t, line, "pushing")
}
