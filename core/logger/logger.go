package logger

// Logger is the logging contract consumed by the planning core and the
// service layer. Implementations live under infra/logger so the core
// stays free of I/O concerns.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
