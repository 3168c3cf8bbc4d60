package internal

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Component tags every log line with the part of the pipeline it came from
type Component string

const (
	ComponentGeneral Component = "general"
	ComponentSync    Component = "sync"
	ComponentLedger  Component = "ledger"
	ComponentQuotes  Component = "quotes"
	ComponentJournal Component = "journal"
	ComponentEvents  Component = "events"
	ComponentConfig  Component = "config"
)

// NewLogger builds the process-wide console logger. Debug raises verbosity.
func NewLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// ComponentLogger returns a child logger tagged with the given component
func ComponentLogger(logger zerolog.Logger, component Component) zerolog.Logger {
	return logger.With().Str("component", string(component)).Logger()
}
