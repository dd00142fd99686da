package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// levelSilent turns logging off entirely. It parses to a level above
// every record slog emits.
const levelSilent = "silent"

func parseLogLevel(s string) (slog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == levelSilent {
		return slog.LevelError + 1, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return lvl, nil
}

// newLogger builds the diagnostic logger. Logs go to w (stderr in
// practice) and never mix with command output on stdout.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl > slog.LevelError {
		return slog.New(slog.DiscardHandler), nil
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With("app", "bet-console"), nil
}
