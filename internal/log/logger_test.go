package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/portal/internal/errors"
)

func newJSONLogger(buf *bytes.Buffer, level Level) *Logger {
	return New(Config{
		Level:       level,
		Format:      FormatJSON,
		Output:      buf,
		ServiceName: "portal",
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(entries), buf.String())
	}
	if entries[0]["msg"] != "warn message" {
		t.Errorf("first entry msg = %v, want warn message", entries[0]["msg"])
	}
	if entries[0]["service"] != "portal" {
		t.Errorf("service attribute = %v, want portal", entries[0]["service"])
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("api request", "method", "GET", "url", "http://localhost/api/rfps")

	out := buf.String()
	if !strings.Contains(out, "msg=\"api request\"") {
		t.Errorf("text output missing msg: %s", out)
	}
	if !strings.Contains(out, "method=GET") {
		t.Errorf("text output missing attribute: %s", out)
	}
}

func TestWithAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, LevelDebug).With("app", "hr").WithGroup("gateway")

	logger.Info("done", "status", 200)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["app"] != "hr" {
		t.Errorf("app = %v, want hr", entries[0]["app"])
	}
	group, ok := entries[0]["gateway"].(map[string]any)
	if !ok {
		t.Fatalf("expected gateway group, got %v", entries[0])
	}
	if group["status"] != float64(200) {
		t.Errorf("gateway.status = %v, want 200", group["status"])
	}
}

func TestWithError(t *testing.T) {
	t.Run("portal error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newJSONLogger(&buf, LevelInfo)

		err := fmt.Errorf("restore: %w", errors.NewNotLoggedInError())
		logger.WithError(err).Warn("session unavailable")

		entries := decodeLines(t, &buf)
		if entries[0]["error_code"] != string(errors.ErrCodeAuthNotLoggedIn) {
			t.Errorf("error_code = %v", entries[0]["error_code"])
		}
		if _, ok := entries[0]["suggestions"]; !ok {
			t.Error("expected suggestions attribute")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newJSONLogger(&buf, LevelInfo)

		logger.WithError(fmt.Errorf("boom")).Error("failed")

		entries := decodeLines(t, &buf)
		if entries[0]["error"] != "boom" {
			t.Errorf("error = %v, want boom", entries[0]["error"])
		}
		if _, ok := entries[0]["error_code"]; ok {
			t.Error("plain errors should not carry error_code")
		}
	})

	t.Run("nil error", func(t *testing.T) {
		logger := Discard()
		if logger.WithError(nil) != logger {
			t.Error("WithError(nil) should return the same logger")
		}
	})
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, LevelInfo)

	cause := fmt.Errorf("disk full")
	logger.LogError(context.Background(), "persist token", errors.Wrap(errors.ErrCodeStateWriteFailed, "write failed", cause))
	logger.LogError(context.Background(), "ignored", nil)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["msg"] != "persist token" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["cause"] != "disk full" {
		t.Errorf("cause = %v", entries[0]["cause"])
	}
}

func TestEnabled(t *testing.T) {
	logger := New(Config{Level: LevelWarn, Output: &bytes.Buffer{}})
	ctx := context.Background()

	if logger.Enabled(ctx, LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	defaultLogger = nil
	first := DefaultLogger()
	if first == nil {
		t.Fatal("DefaultLogger returned nil")
	}
	if DefaultLogger() != first {
		t.Error("DefaultLogger should return the same instance")
	}

	custom := Discard()
	SetDefaultLogger(custom)
	if DefaultLogger() != custom {
		t.Error("SetDefaultLogger did not replace the default")
	}
}
