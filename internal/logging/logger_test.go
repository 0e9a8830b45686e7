package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(level string) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(buf, levelVar)), buf
}

func TestConsoleHandlerFormatsLine(t *testing.T) {
	logger, buf := newBufferLogger("info")
	logger = NewComponentLogger(logger, "compress")

	logger.Info("encode finished", Int64("input_bytes", 1000), String("reason", "smaller output"))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO compress: encode finished") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "input_bytes=1000") {
		t.Fatalf("missing attr: %q", line)
	}
	if !strings.Contains(line, `reason="smaller output"`) {
		t.Fatalf("expected quoted value: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	logger, buf := newBufferLogger("warn")
	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestErrorAttr(t *testing.T) {
	logger, buf := newBufferLogger("info")
	logger.Error("failed", Error(errors.New("boom")))
	if !strings.Contains(buf.String(), "error=boom") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Handler().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop handler should report disabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
