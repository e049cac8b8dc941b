package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with default options", func(t *testing.T) {
		var buf bytes.Buffer
		opts := PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{},
		}

		handler := NewPrettyHandler(&buf, opts)

		assert.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to have a non-nil Handler field")
		assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
	})

	t.Run("Create PrettyHandler with custom level", func(t *testing.T) {
		var buf bytes.Buffer
		opts := PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}

		handler := NewPrettyHandler(&buf, opts)

		assert.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	newHandler := func(buf *bytes.Buffer, level slog.Level) *PrettyHandler {
		return NewPrettyHandler(buf, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: level},
		})
	}

	t.Run("Handle INFO level log", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newHandler(&buf, slog.LevelInfo)

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "built knowledge graph", 0)
		record.AddAttrs(slog.Int("passages", 42))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "INFO:", "Expected output to contain INFO level")
		assert.Contains(t, output, "built knowledge graph", "Expected output to contain the message")
		assert.Contains(t, output, "passages", "Expected output to contain attribute key")
		assert.Contains(t, output, "42", "Expected output to contain attribute value")
	})

	t.Run("Handle WARN level log", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newHandler(&buf, slog.LevelInfo)

		record := slog.NewRecord(time.Now(), slog.LevelWarn, "skipping self co-occurrence", 0)
		record.AddAttrs(slog.String("surface", "Marie Curie"))

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		output := buf.String()
		assert.Contains(t, output, "WARN:", "Expected output to contain WARN level")
		assert.Contains(t, output, "Marie Curie", "Expected output to contain attribute value")
	})

	t.Run("Handle ERROR level log", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newHandler(&buf, slog.LevelInfo)

		record := slog.NewRecord(time.Now(), slog.LevelError, "export failed", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Contains(t, buf.String(), "ERROR:", "Expected output to contain ERROR level")
	})

	t.Run("Handle log with no attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newHandler(&buf, slog.LevelInfo)

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "simple message", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Contains(t, buf.String(), "{}", "Expected output to contain empty JSON object for attributes")
	})

	t.Run("Handle log formats timestamp correctly", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newHandler(&buf, slog.LevelInfo)

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "time test", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String(),
			"Expected output to contain properly formatted timestamp")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Respects the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelWarn)

		logger.Info("should be suppressed")
		logger.Warn("should appear")

		output := buf.String()
		assert.NotContains(t, output, "should be suppressed")
		assert.Contains(t, output, "should appear")
	})
}
