package config

import (
	"log/slog"
	"os"
	"testing"
)

func TestParseEnvDefaults(t *testing.T) {
	for _, key := range []string{"ATTRACTORS_DATA_DIR", "ATTRACTORS_STORE", "ATTRACTORS_LOG_LEVEL", "ATTRACTORS_WORKERS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.DataDir != ".attractors" || e.Store != StoreFile || e.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", e)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("ATTRACTORS_DATA_DIR", "/tmp/runs")
	t.Setenv("ATTRACTORS_STORE", "sqlite")
	t.Setenv("ATTRACTORS_LOG_LEVEL", "debug")
	t.Setenv("ATTRACTORS_WORKERS", "3")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.DataDir != "/tmp/runs" || e.Store != StoreSQLite || e.Workers != 3 {
		t.Errorf("unexpected env: %+v", e)
	}
}

func TestParseEnvRejects(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ATTRACTORS_STORE", "postgres"},
		{"ATTRACTORS_LOG_LEVEL", "chatty"},
		{"ATTRACTORS_WORKERS", "many"},
		{"ATTRACTORS_WORKERS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := ParseEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
