package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// defaultZapLevel defines the fallback log level when an unknown level string is provided.
const defaultZapLevel = zapcore.InfoLevel

// toZapLevel converts a textual level to zapcore.Level. Unknown levels fall back to info.
func toZapLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

// ValidLevel reports whether s names a supported level.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

// ValidFormat reports whether s names a supported encoding.
func ValidFormat(s string) bool {
	return s == FormatConsole || s == FormatJSON
}

func stdout() zapcore.WriteSyncer {
	return zapcore.Lock(os.Stdout) // thread-safe writer
}

// newCore builds a zapcore.Core with a console or JSON encoder targeting ws.
func newCore(level zapcore.Level, format string, ws zapcore.WriteSyncer) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	if format == FormatJSON {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		// Console output is read next to the roaster; timestamps come from the journal.
		cfg.TimeKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(level))
}

// newZapLogger constructs a sugared zap logger with the provided level string.
func newZapLogger(levelStr, format string, ws zapcore.WriteSyncer) *Logger {
	core := newCore(toZapLevel(levelStr), format, ws)
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
	}
}

func newNopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger that adds kv to every entry.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(kv...)}
}

// Named returns a child logger for a component, e.g. "session".
func (l *Logger) Named(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name)}
}
