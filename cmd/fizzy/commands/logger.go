package commands

import (
	"os"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/rs/zerolog"
)

// CommandLogger adapts zerolog to the client's Logger interface. Output goes
// to stderr so it never mixes with rendered command output.
type CommandLogger struct {
	logger zerolog.Logger
}

// NewCommandLogger creates a console logger for verbose mode.
func NewCommandLogger() *CommandLogger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}

	return &CommandLogger{
		logger: zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.DebugLevel),
	}
}

// Debug logs a debug message with structured fields.
func (l *CommandLogger) Debug(message string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(message)
}

// Info logs an informational message with structured fields.
func (l *CommandLogger) Info(message string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(message)
}

// Warn logs a warning with structured fields.
func (l *CommandLogger) Warn(message string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(message)
}

// Error logs an error with structured fields.
func (l *CommandLogger) Error(message string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(message)
}

var _ fizzy.Logger = (*CommandLogger)(nil)
