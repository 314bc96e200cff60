package publishers

// Logger is the structured logging surface used by publishers; internal/logger satisfies it.
type Logger interface {
	InfoObj(msg, key string, obj any)
	DebugObj(msg, key string, obj any)
	WarnObj(msg, key string, obj any)
	ErrorObj(msg, key string, obj any)
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, any)  {}
func (noopLogger) DebugObj(string, string, any) {}
func (noopLogger) WarnObj(string, string, any)  {}
func (noopLogger) ErrorObj(string, string, any) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
