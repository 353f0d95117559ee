package diagnostics

import (
	"github.com/rs/zerolog"

	"github.com/go-drift/lifecycle/pkg/errors"
)

// ErrorLogger is an errors.ErrorHandler that writes reports through zerolog.
type ErrorLogger struct {
	log zerolog.Logger
	// Stacks adds stack traces to logged panics.
	Stacks bool
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger zerolog.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// HandleError implements errors.ErrorHandler.
func (l *ErrorLogger) HandleError(err *errors.LifecycleError) {
	if err == nil {
		return
	}
	e := l.log.Error().Str("op", err.Op).Str("kind", err.Kind.String())
	if err.Family != "" {
		e = e.Str("family", err.Family)
	}
	e.Err(err.Err).Msg("lifecycle error")
}

// HandlePanic implements errors.ErrorHandler.
func (l *ErrorLogger) HandlePanic(err *errors.PanicError) {
	if err == nil {
		return
	}
	e := l.log.Error().
		Str("op", err.Op).
		Str("kind", err.Kind.String()).
		Interface("value", err.Value)
	if l.Stacks && err.StackTrace != "" {
		e = e.Str("stack", err.StackTrace)
	}
	e.Msg("lifecycle panic")
}
