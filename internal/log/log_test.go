package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).WithComponent(ComponentLedger)

	logger.Info("hello", FieldID, 7)
	line := buf.String()
	if strings.Count(line, "component=") != 1 || !strings.Contains(line, "component=ledger") || !strings.Contains(line, "id=7") {
		t.Fatalf("unexpected record %q", line)
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{422, "level=WARN"},
		{500, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newBufferLogger(&buf))
		r := httptest.NewRequest("GET", "/api/ledger?x=1", nil)

		sl.LogHTTPEnd(context.Background(), r, tt.status, 3, "198.51.100.1")
		line := buf.String()
		if !strings.Contains(line, tt.level) || !strings.Contains(line, "path=/api/ledger") || !strings.Contains(line, "x=1") {
			t.Fatalf("status %d: unexpected record %q", tt.status, line)
		}
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))

	sl.LogError(context.Background(), "failed", errors.New("disk full"), ComponentStorage, OpCreate, nil)
	line := buf.String()
	for _, want := range []string{"level=ERROR", `error="disk full"`, "operation=create", "component=storage"} {
		if !strings.Contains(line, want) {
			t.Fatalf("record missing %s: %q", want, line)
		}
	}
}

func TestFromContext(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %q", l.Component())
	}

	var buf bytes.Buffer
	logger := newBufferLogger(&buf)
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatal("expected the stored logger")
	}
}

func TestToSliceIsSorted(t *testing.T) {
	got := NewFields().WithOperation(OpList).WithClientIP("1.2.3.4").WithClientIP("").ToSlice()
	if len(got) != 4 || got[0] != FieldClientIP || got[2] != FieldOperation {
		t.Fatalf("unexpected fields %v", got)
	}
}
