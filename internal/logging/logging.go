// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global logger to write human-readable lines to w at the
// given level, tagged with a fresh session id. It returns the session id.
func Init(w io.Writer, level string) (string, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return "", fmt.Errorf("parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if w == nil {
		w = os.Stderr
	}

	session := uuid.NewString()

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Str("session", session).
		Logger()

	return session, nil
}
