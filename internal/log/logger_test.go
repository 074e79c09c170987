package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentLedger)

	logger.InfoContext(context.Background(), "hello", FieldRecordID, 7)

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "record_id=7") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentHTTP))
	ctx := context.Background()

	sl.LogLedgerChange(ctx, OpCreate, "payable", 3, "luz", 8000)
	sl.LogError(ctx, "write failed", errors.New("disk full"), ComponentStorage, OpUpdate, nil)

	r := httptest.NewRequest(http.MethodGet, "/saidas?ano=2025", nil)
	sl.LogHTTPEnd(ctx, r, http.StatusInternalServerError, 12, "127.0.0.1")

	out := buf.String()
	for _, want := range []string{"record_kind=payable", "amount_cents=8000", `error="disk full"`, "level=ERROR", "status_code=500"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a default logger")
	}

	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentApp)
	ctx := context.WithValue(context.Background(), LoggerContextKey, logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the stored logger")
	}
}
