package models

import "time"

// AuditLog is a single entry in the append-only audit trail.
type AuditLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Level     string    `json:"level" gorm:"type:varchar(16);index"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}
