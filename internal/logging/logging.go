package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the application logger. LOG_LEVEL selects the level (zerolog
// names: debug, info, warn, error); anything unparsable falls back to info.
func New() zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			level = parsed
		}
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
