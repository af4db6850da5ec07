package weld

// Logger defines the interface for runtime logging.
// The runtime uses structured logging with key-value pairs so resolution
// and lifecycle decisions produce consistent, parseable output.
//
// The variadic arguments come in key-value pairs:
//
//	logger.Info("Constructed component", "component", "database", "scope", "singleton")
//
// This shape is directly compatible with slog, zap's sugared logger,
// logrus, and similar libraries; adapting one is a four-method wrapper.
type Logger interface {
	// Info logs normal runtime events such as component construction.
	Info(msg string, args ...any)

	// Error logs failures that abort the current operation.
	Error(msg string, args ...any)

	// Warn logs recovered problems, such as a failing property lookup
	// that excluded a conditional component.
	Warn(msg string, args ...any)

	// Debug logs detailed resolution diagnostics, such as condition
	// ordering and per-slot state transitions.
	Debug(msg string, args ...any)
}

// noopLogger is the default when the caller supplies none.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}
