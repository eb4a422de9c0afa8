package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// New builds the process logger for env. Local runs get a console writer;
// everything else logs JSON to stdout.
func New(env string) (zerolog.Logger, error) {
	zerolog.TimestampFieldName = "timestamp"

	w := io.Writer(os.Stdout)
	level := zerolog.InfoLevel
	switch env {
	case EnvDev:
		level = zerolog.DebugLevel
	case EnvProd:
	case EnvLocal:
		level = zerolog.TraceLevel
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger(), nil
}
