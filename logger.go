package unitedlogs

import "go.uber.org/zap"

// Logger receives the client's own diagnostics. The client never logs through
// it at a level above Debug unless a request could not be built at all.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

// NoOpLogger is a logger that does nothing (the default)
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, keysAndValues ...any) {}

func (n *NoOpLogger) Warn(msg string, keysAndValues ...any) {}

type zapLogger struct {
	sugared *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger. A nil logger yields a NoOpLogger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		return &NoOpLogger{}
	}
	return &zapLogger{sugared: l.Named("unitedlogs").Sugar()}
}

func (z *zapLogger) Debug(msg string, keysAndValues ...any) {
	z.sugared.Debugw(msg, keysAndValues...)
}

func (z *zapLogger) Warn(msg string, keysAndValues ...any) {
	z.sugared.Warnw(msg, keysAndValues...)
}
