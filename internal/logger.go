package internal

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger adapts a zap logger to services.LogHandler.
type Logger struct {
	log *zap.Logger
}

// NewLogger builds a logger tagged with category. Debug enables the
// development encoder and debug level; otherwise JSON at info level.
func NewLogger(category string, debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	}
	log, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		log = zap.NewNop()
	}
	return WrapLogger(log, category)
}

// WrapLogger uses an existing zap logger. A nil logger discards everything.
func WrapLogger(log *zap.Logger, category string) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.With(zap.String("category", category))}
}

func (l *Logger) Debug(text string) {
	l.log.Debug(text)
}

func (l *Logger) Info(text string) {
	l.log.Info(text)
}

func (l *Logger) Warn(text string) {
	l.log.Warn(text)
}

func (l *Logger) Error(text string, err error) {
	l.log.Error(text, zap.Error(err))
}

func (l *Logger) Sync() {
	_ = l.log.Sync()
}
