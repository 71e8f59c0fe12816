// Package logger defines the logging interface used by the planning
// core. Implementations live in infra/logger.
package logger

// Logger is the minimal structured logging surface used across the
// project.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
