package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "loader")).Info("loaded")

		assert.Equal(t, 1, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "loader"))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("message 1")
		logger.Info("message 2")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})
}
