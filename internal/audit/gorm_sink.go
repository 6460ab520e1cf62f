package audit

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSink persists audit entries to the audit_logs table.
type GORMSink struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGORMSink creates a new GORMSink.
func NewGORMSink(db *gorm.DB) *GORMSink {
	return &GORMSink{db: db, now: time.Now}
}

// Append stores an entry stamped with the current time.
func (s *GORMSink) Append(ctx context.Context, level Level, message string) error {
	return s.Record(ctx, Entry{Level: level, Message: message, Timestamp: s.now()})
}

// Record stores an entry as given.
func (s *GORMSink) Record(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	row := models.AuditLog{
		ID:        uuid.New().String(),
		Level:     string(entry.Level),
		Message:   entry.Message,
		Timestamp: entry.Timestamp.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *GORMSink) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	if err := s.db.WithContext(ctx).Order("timestamp desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read audit logs: %w", err)
	}
	return rows, nil
}
