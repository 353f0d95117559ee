package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevelEnv names the environment variable holding the default trace level.
const LogLevelEnv = "LCTRACE_LOG_LEVEL"

const (
	formatConsole = "console"
	formatJSON    = "json"
)

// newLogger builds the trace logger. An empty level means debug, which shows
// every delivery.
func newLogger(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl := zerolog.DebugLevel
	if level = strings.TrimSpace(level); level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	w := out
	if format == formatConsole {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "lctrace").Logger(), nil
}
