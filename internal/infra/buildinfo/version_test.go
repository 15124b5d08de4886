package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.4",
		Main:      debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("unset values", func(t *testing.T) {
		info := Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}
		fill(&info, bi)

		want := Info{Version: "v1.2.0", Commit: "abc123", BuildTime: "2026-01-02T03:04:05Z", GoVersion: "go1.24.4"}
		if info != want {
			t.Errorf("fill() = %+v, want %+v", info, want)
		}
	})

	t.Run("ldflags win", func(t *testing.T) {
		info := Info{Version: "v9.0.0", Commit: "fff", BuildTime: "today"}
		fill(&info, bi)

		if info.Version != "v9.0.0" || info.Commit != "fff" || info.BuildTime != "today" {
			t.Errorf("fill() overwrote injected values: %+v", info)
		}
	})

	t.Run("devel main module", func(t *testing.T) {
		info := Info{Version: "dev"}
		fill(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

		if info.Version != "dev" {
			t.Errorf("Version = %q, want dev", info.Version)
		}
	})
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, " built at ") || !strings.Contains(s, Get().Version) {
		t.Errorf("String() = %q", s)
	}
}

func TestRelease(t *testing.T) {
	if r := Release(); !strings.HasPrefix(r, "exitguard@") {
		t.Errorf("Release() = %q, want exitguard@ prefix", r)
	}
}
