package obs

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerOnce sync.Once
	logger     zerolog.Logger
)

// Logger returns the shared service logger. Level comes from LOG_LEVEL
// (default info); LOG_FORMAT=console selects the development writer, JSON
// otherwise.
func Logger() zerolog.Logger {
	loggerOnce.Do(func() {
		level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))))
		if err != nil || level == zerolog.NoLevel {
			level = zerolog.InfoLevel
		}
		var out io.Writer = os.Stdout
		if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
			out = zerolog.ConsoleWriter{Out: os.Stdout}
		}
		logger = zerolog.New(out).
			Level(level).
			With().
			Timestamp().
			Str("service", "taskora-api").
			Logger()
	})
	return logger
}
