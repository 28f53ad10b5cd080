package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config selects the level and output format of the logger.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`

	// Format is json or text.
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`

	Sentry SentryConfig `yaml:"sentry"`
}

// ParseLevel parses a level name. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return l, nil
}

// New builds a logger writing to w.
//
// Records are enriched with the attributes returned by extractors. When cfg.Sentry.DSN is
// set, warnings and errors are also sent to Sentry; if Sentry cannot be initialized the
// logger falls back to w alone and reports the failure there.
func New(w io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		base = slog.NewJSONHandler(w, opts)
	case "text":
		base = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
	}

	handler := base
	if cfg.Sentry.DSN != "" {
		sh, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			slog.New(base).Error("failed to initialize sentry", slog.String("error", err.Error()))
		} else {
			handler = newMultiHandler(base, sh)
		}
	}

	return slog.New(NewContextHandler(handler, extractors...)), nil
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
