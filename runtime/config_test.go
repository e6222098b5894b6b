package runtime

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loxrc.yaml")
	body := `
prompt: "lox> "
log_level: debug
print_ast: true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Prompt != "lox> " {
		t.Fatalf("prompt = %q", cfg.Prompt)
	}
	if cfg.ContinuationPrompt != ".. " {
		t.Fatalf("continuation prompt should keep its default, got %q", cfg.ContinuationPrompt)
	}
	if cfg.LogLevel != "debug" || !cfg.PrintAST {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loxrc.yaml")
	if err := os.WriteFile(path, []byte("promt: oops\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path, false)
	if err == nil || !strings.Contains(err.Error(), "promt") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loxrc.yaml")
	if err := os.WriteFile(path, []byte("log_level: chatty\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatalf("expected log level error")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("optional missing file should not fail: %v", err)
	}
	if cfg.Prompt != DefaultConfig().Prompt {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	if _, err := LoadConfig(path, false); err == nil {
		t.Fatalf("required missing file should fail")
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"trace", slog.LevelWarn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseLogLevel(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Fatalf("ParseLogLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
