package infomedia

import "strings"

// Logger defines the logging surface the connector relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// Timing log levels accepted by Config.TimingLogLevel.
const (
	LevelTrace = "trace"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

type logFunc func(msg, key string, obj interface{})

// timingLogger resolves the configured level to a log method once.
// Trace has no zap counterpart and is folded into debug.
func timingLogger(log Logger, level string) logFunc {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelTrace, LevelDebug:
		return log.DebugObj
	case LevelWarn, "warning":
		return log.WarnObj
	case LevelError:
		return log.ErrorObj
	default:
		return log.InfoObj
	}
}
