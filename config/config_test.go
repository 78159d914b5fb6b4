package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Prompt != ">> " {
		t.Errorf("Prompt wrong. got=%q", cfg.Prompt)
	}
	if cfg.HistoryFile != ".monkey_history" {
		t.Errorf("HistoryFile wrong. got=%q", cfg.HistoryFile)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color wrong. got=%q", cfg.Color)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel wrong. got=%q", cfg.LogLevel)
	}
	if cfg.TraceParser {
		t.Errorf("TraceParser should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") did not return defaults. got=%+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Config
	}{
		{
			name: "all fields",
			content: `prompt: "monkey> "
history_file: ""
color: never
log_level: debug
trace_parser: true
`,
			expected: Config{
				Prompt:      "monkey> ",
				HistoryFile: "",
				Color:       ColorNever,
				LogLevel:    "debug",
				TraceParser: true,
			},
		},
		{
			name:    "partial keeps defaults",
			content: "color: always\n",
			expected: Config{
				Prompt:      ">> ",
				HistoryFile: ".monkey_history",
				Color:       ColorAlways,
				LogLevel:    "warn",
			},
		},
		{
			name:     "empty file",
			content:  "",
			expected: *Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if *cfg != tt.expected {
				t.Errorf("config wrong.\nwant=%+v\ngot=%+v", tt.expected, *cfg)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"unknown field", "promt: \">\"\n", "field promt not found"},
		{"bad color", "color: rainbow\n", `unknown color "rainbow"`},
		{"bad log level", "log_level: loud\n", `unknown log_level "loud"`},
		{"bad yaml", "prompt: [\n", "config: parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.contains)
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error %q does not mention path %q", err.Error(), path)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("cause is not a not-exist error. got=%v", err)
	}
	if !strings.HasPrefix(err.Error(), "config: open "+path) {
		t.Errorf("error not wrapped with path. got=%q", err.Error())
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()

	cfg.HistoryFile = ""
	if got := cfg.HistoryPath(); got != "" {
		t.Errorf("disabled history should be empty. got=%q", got)
	}

	abs := filepath.Join(t.TempDir(), "hist")
	cfg.HistoryFile = abs
	if got := cfg.HistoryPath(); got != abs {
		t.Errorf("absolute path changed. want=%q, got=%q", abs, got)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg.HistoryFile = ".monkey_history"
	if got := cfg.HistoryPath(); got != filepath.Join(home, ".monkey_history") {
		t.Errorf("relative path not under home. got=%q", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "monkey.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
