package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("JSONByDefault", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello")

		entry := logLine(t, &buf)
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
	})

	t.Run("StaticAttrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "flagkit")),
		)
		log.Info("hello")

		entry := logLine(t, &buf)
		assert.Equal(t, "flagkit", entry["service"])
	})

	t.Run("LevelFiltering", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.Bytes())
	})

	t.Run("TextFormat", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("ContextExtractor", func(t *testing.T) {
		t.Parallel()
		type ctxKey struct{}

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if v := ctx.Value(ctxKey{}); v != nil {
					return slog.Any("request_id", v), true
				}
				return slog.Attr{}, false
			}),
		)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-123")
		log.InfoContext(ctx, "hello")

		entry := logLine(t, &buf)
		assert.Equal(t, "req-123", entry["request_id"])
	})

	t.Run("EnvironmentDefaults", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithEnvironment("production", "flagkit"),
		)
		log.Debug("dropped")
		assert.Empty(t, buf.Bytes())

		log.Info("kept")
		entry := logLine(t, &buf)
		assert.Equal(t, "flagkit", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(assert.AnError).Key)
	assert.Equal(t, "flag_key", logger.FlagKey("beta").Key)
	assert.Equal(t, "component", logger.Component("notifier").Key)
}
