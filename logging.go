package digo

import "go.uber.org/zap"

// Logger is the external logging capability consumed when an observer
// errors (spec §4.5: "captured and logged through the configured logger
// collaborator") and when disposer errors are collected into a disposal
// report (spec §7).
type Logger interface {
	Errorw(msg string, keysAndValues ...any)
}

// NopLogger discards everything. It is the default Config.Logger set by
// NewCollection, so a Provider built without an explicit logger never needs
// a nil check.
type NopLogger struct{}

// Errorw implements Logger by discarding the message.
func (NopLogger) Errorw(string, ...any) {}

// zapLogger adapts *zap.SugaredLogger to the Logger capability, the
// pack's dominant structured-logging choice (see 2lar-b2, brain2-backend).
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a *zap.SugaredLogger as a digo Logger.
func NewZapLogger(s *zap.SugaredLogger) Logger {
	if s == nil {
		return NopLogger{}
	}
	return &zapLogger{s: s}
}

func (l *zapLogger) Errorw(msg string, keysAndValues ...any) {
	l.s.Errorw(msg, keysAndValues...)
}
