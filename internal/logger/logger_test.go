package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, env := range []string{"LOG_DEBUG", "LOG_PRETTY_FORMAT"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}
	if cfg.Debug || !cfg.PrettyFormat {
		t.Errorf("LoadConfig() = %+v, want Debug=false PrettyFormat=true", cfg)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("LOG_PRETTY_FORMAT", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}
	if !cfg.Debug || cfg.PrettyFormat {
		t.Errorf("LoadConfig() = %+v, want Debug=true PrettyFormat=false", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("LOG_DEBUG", "sometimes")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() expected error for a non-boolean LOG_DEBUG, got nil")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{})

	l.Debug().Msg("hidden")
	l.Info().Str("ticker", "AAPL").Msg("price lookup")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "price lookup" || entry["ticker"] != "AAPL" || entry["level"] != "info" {
		t.Errorf("log entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("log entry has no timestamp")
	}
}

func TestNew_DebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Debug: true})

	l.Debug().Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}
	if _, ok := entry["caller"]; !ok {
		t.Error("debug logger should record the caller")
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{PrettyFormat: true})

	l.Info().Msg("hello")

	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Errorf("pretty output = %q, want console format", buf.String())
	}
}
