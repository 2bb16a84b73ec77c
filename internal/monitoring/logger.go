package monitoring

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logf is the package-level diagnostic logger. It defaults to a zap console
// logger at info level but may be replaced by SetLogger. Tests or production
// code can redirect or mute it.
var Logf func(format string, v ...interface{}) = defaultLogger().Sugar().Infof

// Debugf is the verbose counterpart of Logf. It is muted unless the logger
// installed by UseZap has debug level enabled.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string `mapstructure:"level" json:"level"`
	// Format is "console" (default) or "json".
	Format string `mapstructure:"format" json:"format"`
}

// NewZapLogger builds a zap logger writing to stderr.
func NewZapLogger(cfg LogConfig) (*zap.Logger, error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encoding := "console"
	if strings.EqualFold(cfg.Format, "json") {
		encCfg = zap.NewProductionEncoderConfig()
		encoding = "json"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// UseZap routes Logf and Debugf through l. A nil logger mutes both.
func UseZap(l *zap.Logger) {
	if l == nil {
		SetLogger(nil)
		Debugf = func(string, ...interface{}) {}
		return
	}
	s := l.Sugar()
	Logf = s.Infof
	Debugf = s.Debugf
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func defaultLogger() *zap.Logger {
	l, err := NewZapLogger(LogConfig{})
	if err != nil {
		return zap.NewNop()
	}
	return l
}
