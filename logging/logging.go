package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger. Console output always goes to stdout; if
// logFile is non-empty the same stream is appended there as raw JSON.
func Setup(level, logFile string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("[%s]", i))
		},
	}

	var w io.Writer = cw
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		w = io.MultiWriter(cw, f)
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return logger, nil
}
