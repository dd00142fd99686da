package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfig_Priority(t *testing.T) {
	t.Setenv("API_BASE", "https://env.example.com")
	t.Setenv("API_PREFIX", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_PROFILE", "env-profile")

	cfg := resolveConfig(
		config{SessionProfile: "flag-profile"},
		config{APIBase: "https://file.example.com", SessionBackend: backendRedis, LogLevel: "debug"},
	)

	tests := []struct {
		name, got, want string
	}{
		{"env beats file", cfg.APIBase, "https://env.example.com"},
		{"flag beats env", cfg.SessionProfile, "flag-profile"},
		{"file beats default", cfg.SessionBackend, backendRedis},
		{"file log level", cfg.LogLevel, "debug"},
		{"default", cfg.APIPrefix, "/api"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "console.yaml")
	os.WriteFile(good, []byte("api_base: https://api.example.com\nsession_backend: memory\n"), 0o600)
	cfg, err := loadConfigFile(good)
	if err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}
	if cfg.APIBase != "https://api.example.com" || cfg.SessionBackend != backendMemory {
		t.Errorf("cfg = %+v", cfg)
	}

	typo := filepath.Join(dir, "typo.yaml")
	os.WriteFile(typo, []byte("api_bsae: https://api.example.com\n"), 0o600)
	if _, err := loadConfigFile(typo); err == nil {
		t.Error("unknown key accepted")
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, nil, 0o600)
	if _, err := loadConfigFile(empty); err != nil {
		t.Errorf("empty file: %v", err)
	}

	if cfg, err := loadConfigFile(""); err != nil || cfg != (config{}) {
		t.Errorf("no path: %+v, %v", cfg, err)
	}
	if _, err := loadConfigFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*config)
		wantErr string
	}{
		{"defaults", func(*config) {}, ""},
		{"ftp base", func(c *config) { c.APIBase = "ftp://x" }, "scheme"},
		{"no host", func(c *config) { c.APIBase = "http://" }, "host"},
		{"relative prefix", func(c *config) { c.APIPrefix = "api" }, "API_PREFIX"},
		{"backend", func(c *config) { c.SessionBackend = "sqlite" }, "SESSION_BACKEND"},
		{"log level", func(c *config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"silent", func(c *config) { c.LogLevel = "silent" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults
			tt.mod(&cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_BaseURL(t *testing.T) {
	cfg := config{APIBase: "https://api.example.com/", APIPrefix: "/api/"}
	if got := cfg.baseURL(); got != "https://api.example.com/api" {
		t.Errorf("baseURL() = %q", got)
	}
	cfg.APIPrefix = ""
	if got := cfg.baseURL(); got != "https://api.example.com" {
		t.Errorf("baseURL() without prefix = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf strings.Builder
	log, err := newLogger("info", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hidden")
	log.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "app=bet-console") {
		t.Errorf("log output = %q", out)
	}

	buf.Reset()
	log, err = newLogger("SILENT", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("silent logger wrote %q", buf.String())
	}

	if lvl, err := parseLogLevel("WARN"); err != nil || lvl != slog.LevelWarn {
		t.Errorf("parseLogLevel(WARN) = %v, %v", lvl, err)
	}
	if lvl, err := parseLogLevel(" Silent "); err != nil || lvl <= slog.LevelError {
		t.Errorf("parseLogLevel(silent) = %v, %v", lvl, err)
	}
	if _, err := newLogger("loud", &buf); err == nil {
		t.Errorf("newLogger(loud) accepted an unknown level")
	}
}

func TestIsLocalhost(t *testing.T) {
	for raw, want := range map[string]bool{
		"http://localhost:3001":   true,
		"http://127.0.0.1":        true,
		"http://api.example.com":  false,
		"https://api.example.com": false,
	} {
		if got := isLocalhost(raw); got != want {
			t.Errorf("isLocalhost(%q) = %v, want %v", raw, got, want)
		}
	}
}
