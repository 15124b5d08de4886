package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default config", DefaultConfig()},
		{"text format", Config{Level: "debug", Format: "text"}},
		{"console format", Config{Level: "info", Format: "console"}},
		{"nil output", Config{Level: "warn", Format: "json", Output: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil || l.Slog() == nil {
				t.Fatal("New() returned an unusable logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufferLogger(t, "debug", "json")

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("cleanup finished", "listeners", 3)

			entry := decode(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "cleanup finished" {
				t.Errorf("msg = %v, want 'cleanup finished'", entry["msg"])
			}
			if entry["listeners"] != float64(3) {
				t.Errorf("listeners = %v, want 3", entry["listeners"])
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.With("trigger", "signal").Info("running cleanup")

	if entry := decode(t, buf); entry["trigger"] != "signal" {
		t.Errorf("trigger = %v, want signal", entry["trigger"])
	}
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")
	l, buf := newBufferLogger(t, "error", "json")

	l.Info("filtered")
	if buf.Len() > 0 {
		t.Error("Info should be filtered at error level")
	}

	SetLevel("debug")
	l.Debug("visible")
	if buf.Len() == 0 {
		t.Error("Debug should be logged after level changed to debug")
	}
	if level := GetLevel(); level != "debug" {
		t.Errorf("GetLevel() = %q, want debug", level)
	}
}

func TestParseLevel(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{"warning", "warn"},
		{"ERROR", "error"},
		{"invalid", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetLevel(tt.input)
			if got := GetLevel(); got != tt.expected {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	l, buf := newBufferLogger(t, "debug", "json")
	SetDefault(l)

	Default().Warn("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Error("Default() should return the logger given to SetDefault")
	}

	buf.Reset()
	slog.InfoContext(WithRunID(context.Background(), "01J0RUN"), "through slog")
	entry := decode(t, buf)
	if entry["msg"] != "through slog" {
		t.Error("SetDefault should also replace the slog default")
	}
	if entry["run_id"] != "01J0RUN" {
		t.Errorf("run_id = %v, want it taken from the slog call's context", entry["run_id"])
	}
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.WithContext(context.Background()).Info("no run")
	if _, ok := decode(t, buf)["run_id"]; ok {
		t.Error("run_id should be absent without a run in the context")
	}

	buf.Reset()
	ctx := WithComponent(WithRunID(context.Background(), "01J0RUN"), "journal")
	l.WithContext(ctx).With("dir", "/tmp").Info("journal closed")

	entry := decode(t, buf)
	if entry["run_id"] != "01J0RUN" || entry["component"] != "journal" {
		t.Errorf("entry = %v, want run_id and component from the context", entry)
	}
	if entry["dir"] != "/tmp" {
		t.Errorf("dir = %v, want attributes from With kept", entry["dir"])
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(Config{Level: "info", Format: "xml"}); err == nil {
		t.Error("New() should reject an unknown format")
	}
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"json", true},
		{"TEXT", true},
		{"console", true},
		{"", false},
		{"xml", false},
	}
	for _, tt := range tests {
		if got := ValidFormat(tt.format); got != tt.want {
			t.Errorf("ValidFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" || cfg.Format != "json" {
		t.Errorf("DefaultConfig() = %+v, want info/json", cfg)
	}
	if cfg.Output == nil {
		t.Error("DefaultConfig().Output should not be nil")
	}
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "text")

	l.Info("listener registered", "component", "journal")

	output := buf.String()
	if !strings.Contains(output, "listener registered") || !strings.Contains(output, "component=journal") {
		t.Errorf("unexpected text output: %s", output)
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warning", "error"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false", level)
		}
	}
	for _, level := range []string{"", "trace", "fatal"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true", level)
		}
	}
}
