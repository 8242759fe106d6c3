package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Setup opens (or creates) the log file and returns a logger writing to it.
// The TUI owns stdout, so everything structured goes to disk. Level comes
// from REVDASH_LOG_LEVEL and defaults to info.
func Setup(path string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	logger := zerolog.New(f).Level(levelFromEnv()).With().Timestamp().Logger()
	return logger, f, nil
}

func levelFromEnv() zerolog.Level {
	raw := strings.TrimSpace(os.Getenv("REVDASH_LOG_LEVEL"))
	if raw == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
