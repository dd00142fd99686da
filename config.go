package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	backendFile   = "file"
	backendRedis  = "redis"
	backendMemory = "memory"
)

// config is the resolved console configuration. The yaml tags describe the
// optional config file.
type config struct {
	APIBase        string `yaml:"api_base"`
	APIPrefix      string `yaml:"api_prefix"`
	SessionBackend string `yaml:"session_backend"`
	SessionFile    string `yaml:"session_file"`
	SessionProfile string `yaml:"session_profile"`
	RedisURL       string `yaml:"redis_url"`
	LogLevel       string `yaml:"log_level"`
}

var defaults = config{
	APIBase:        "http://localhost:3001",
	APIPrefix:      "/api",
	SessionBackend: backendFile,
	SessionFile:    ".bet-console-session.json",
	SessionProfile: "default",
	RedisURL:       "redis://localhost:6379/0",
	LogLevel:       "warn",
}

var (
	flagAPIBase        *string
	flagAPIPrefix      *string
	flagSessionBackend *string
	flagSessionFile    *string
	flagSessionProfile *string
	flagRedisURL       *string
	flagLogLevel       *string
	flagConfig         *string
)

func init() {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Define flags (but don't parse yet to avoid conflicts with test flags)
	flagAPIBase = flag.String("api-base", "", "API base URL (default: http://localhost:3001 or API_BASE env)")
	flagAPIPrefix = flag.String("api-prefix", "", "API path prefix (default: /api or API_PREFIX env)")
	flagSessionBackend = flag.String("session-backend", "", "Session store: file, redis or memory (SESSION_BACKEND env)")
	flagSessionFile = flag.String(
		"session-file",
		"",
		"Session file for the file backend (default: .bet-console-session.json or SESSION_FILE env)",
	)
	flagSessionProfile = flag.String("session-profile", "", "Named session, allows several logins side by side")
	flagRedisURL = flag.String("redis-url", "", "Redis URL for the redis backend (REDIS_URL env)")
	flagLogLevel = flag.String("log-level", "", "debug, info, warn, error or silent (LOG_LEVEL env)")
	flagConfig = flag.String("config", "", "Optional YAML config file (CONSOLE_CONFIG env)")
}

// initConfig parses flags and resolves configuration.
// Separated from init() to avoid conflicts with test flag parsing
func initConfig() (*config, error) {
	flag.Parse()

	file, err := loadConfigFile(getConfig(*flagConfig, "CONSOLE_CONFIG", "", ""))
	if err != nil {
		return nil, err
	}

	cfg := resolveConfig(config{
		APIBase:        *flagAPIBase,
		APIPrefix:      *flagAPIPrefix,
		SessionBackend: *flagSessionBackend,
		SessionFile:    *flagSessionFile,
		SessionProfile: *flagSessionProfile,
		RedisURL:       *flagRedisURL,
		LogLevel:       *flagLogLevel,
	}, file)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn if using HTTP instead of HTTPS
	if strings.HasPrefix(strings.ToLower(cfg.APIBase), "http://") && !isLocalhost(cfg.APIBase) {
		fmt.Fprintln(
			os.Stderr,
			"⚠️  WARNING: Using HTTP instead of HTTPS. Tokens will be transmitted in plaintext!",
		)
		fmt.Fprintln(os.Stderr)
	}
	return &cfg, nil
}

// resolveConfig merges the layers with priority flag > env > file > default.
func resolveConfig(flags, file config) config {
	return config{
		APIBase:        getConfig(flags.APIBase, "API_BASE", file.APIBase, defaults.APIBase),
		APIPrefix:      getConfig(flags.APIPrefix, "API_PREFIX", file.APIPrefix, defaults.APIPrefix),
		SessionBackend: getConfig(flags.SessionBackend, "SESSION_BACKEND", file.SessionBackend, defaults.SessionBackend),
		SessionFile:    getConfig(flags.SessionFile, "SESSION_FILE", file.SessionFile, defaults.SessionFile),
		SessionProfile: getConfig(flags.SessionProfile, "SESSION_PROFILE", file.SessionProfile, defaults.SessionProfile),
		RedisURL:       getConfig(flags.RedisURL, "REDIS_URL", file.RedisURL, defaults.RedisURL),
		LogLevel:       getConfig(flags.LogLevel, "LOG_LEVEL", file.LogLevel, defaults.LogLevel),
	}
}

// getConfig returns value with priority: flag > env > file > default
func getConfig(flagValue, envKey, fileValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// loadConfigFile reads the YAML config at path. An empty path yields an
// empty config; unknown keys are rejected.
func loadConfigFile(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) validate() error {
	if err := validateServerURL(c.APIBase); err != nil {
		return fmt.Errorf("invalid API_BASE: %w", err)
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with /, got: %s", c.APIPrefix)
	}
	switch c.SessionBackend {
	case backendFile, backendRedis, backendMemory:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (want file, redis or memory)", c.SessionBackend)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// baseURL joins the API base and prefix.
func (c config) baseURL() string {
	return strings.TrimRight(c.APIBase, "/") + strings.TrimRight(c.APIPrefix, "/")
}

// validateServerURL validates that the server URL is properly formatted
func validateServerURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("server URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("URL must include a host")
	}

	return nil
}

func isLocalhost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
