package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	ContextKeyRunID   contextKey = "run_id"
	ContextKeyEventID contextKey = "event_id"
	ContextKeyLine    contextKey = "line"
	ContextKeySeq     contextKey = "seq"
)

type Logger struct {
	zap *zap.Logger
}

// New builds a JSON logger writing to stderr, leaving stdout free for the
// account report.
func New(level string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	zapLogger, err := config.Build()
	if err != nil {
		return NewNop()
	}
	return &Logger{zap: zapLogger}
}

// NewWithCore wraps an existing zap core, mainly so tests can observe output.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{zap: zap.New(core)}
}

func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithRunID tags every log line of one engine run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// WithEventID tags log lines emitted while handling one input record.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, ContextKeyEventID, eventID)
}

func GetRunID(ctx context.Context) string {
	if v := ctx.Value(ContextKeyRunID); v != nil {
		if runID, ok := v.(string); ok {
			return runID
		}
	}
	return ""
}

func GetEventID(ctx context.Context) string {
	if v := ctx.Value(ContextKeyEventID); v != nil {
		if eventID, ok := v.(string); ok {
			return eventID
		}
	}
	return ""
}

// WithLine records the input line a log entry is about. Lines start at 1.
func WithLine(ctx context.Context, line int) context.Context {
	return context.WithValue(ctx, ContextKeyLine, line)
}

// WithSeq records the bus sequence number of the event being handled.
func WithSeq(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, ContextKeySeq, seq)
}

func GetLine(ctx context.Context) int {
	line, _ := ctx.Value(ContextKeyLine).(int)
	return line
}

func GetSeq(ctx context.Context) uint64 {
	seq, _ := ctx.Value(ContextKeySeq).(uint64)
	return seq
}

func (l *Logger) buildFields(ctx context.Context, fields ...interface{}) []zap.Field {
	zapFields := []zap.Field{}

	if runID := GetRunID(ctx); runID != "" {
		zapFields = append(zapFields, zap.String("run_id", runID))
	}

	if eventID := GetEventID(ctx); eventID != "" {
		zapFields = append(zapFields, zap.String("event_id", eventID))
	}

	if seq := GetSeq(ctx); seq != 0 {
		zapFields = append(zapFields, zap.Uint64("seq", seq))
	}

	if line := GetLine(ctx); line != 0 {
		zapFields = append(zapFields, zap.Int("line", line))
	}

	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			value := fields[i+1]
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}

	return zapFields
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	zapFields := l.buildFields(ctx, fields...)
	l.zap.Debug(msg, zapFields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	zapFields := l.buildFields(ctx, fields...)
	l.zap.Info(msg, zapFields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	zapFields := l.buildFields(ctx, fields...)
	l.zap.Warn(msg, zapFields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	zapFields := l.buildFields(ctx, fields...)
	l.zap.Error(msg, zapFields...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...interface{}) {
	zapFields := l.buildFields(ctx, fields...)
	l.zap.Fatal(msg, zapFields...)
}

// Enabled lets hot paths skip building fields for entries that would be dropped.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.zap.Core().Enabled(level)
}

func (l *Logger) Sync() error {
	return l.zap.Sync()
}
