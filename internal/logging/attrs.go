package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Attr is the field type accepted by every helper in this package.
type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Format tags a record with an output format key.
func Format(key string) Attr { return slog.String(FieldFormat, key) }

// Stage tags a record with a pipeline stage name.
func Stage(name string) Attr { return slog.String(FieldStage, name) }

// Elapsed reports a stage or run duration, rounded to milliseconds.
func Elapsed(d time.Duration) Attr {
	return slog.Duration(FieldElapsed, d.Round(time.Millisecond))
}

// Frames reports capture progress; it renders as "done/total".
func Frames(done, total int) Attr {
	return slog.Any(FieldFrames, frameCount{done: done, total: total})
}

type frameCount struct{ done, total int }

func (f frameCount) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("%d/%d", f.done, f.total))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint,
// and impact. Callers override the defaults by passing those fields.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, defaultErrorHint),
		String(FieldImpact, "build completed with warnings"),
	)
	logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

// ErrorWithContext logs an error that always carries event_type and error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, defaultErrorHint),
	)
	logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

const defaultErrorHint = "check logs for details"

func withDefaults(attrs []Attr, defaults ...Attr) []Attr {
	for _, d := range defaults {
		if !hasKey(attrs, d.Key) {
			attrs = append(attrs, d)
		}
	}
	return attrs
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}
