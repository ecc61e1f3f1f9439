package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New arma el logger de la app. level inválido o vacío cae en info.
// Si pretty es true usa ConsoleWriter (desarrollo), si no JSON por línea.
func New(level string, out io.Writer, pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(parsed).With().Timestamp().Logger()
}
