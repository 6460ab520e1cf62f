// Package audit records the outcome of book operations in an append-only trail.
package audit

import (
	"context"
	"errors"
	"log"
	"time"
)

// Level is the severity of an audit entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is the transport form of an audit record.
type Entry struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink appends audit entries.
type Sink interface {
	Append(ctx context.Context, level Level, message string) error
}

// Recorder stores entries that already carry their own timestamp.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// LogSink writes entries to the standard logger.
type LogSink struct{}

func (LogSink) Append(_ context.Context, level Level, message string) error {
	log.Printf("[audit] level=%s %s", level, message)
	return nil
}

// MultiSink fans an entry out to every sink, returning the joined errors.
type MultiSink []Sink

func (m MultiSink) Append(ctx context.Context, level Level, message string) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, level, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
