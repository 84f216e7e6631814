package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records a textual action with structured metadata against an
// optional user. Writes are fire-and-forget; a failed audit write never
// fails the action it describes.
type AuditLog struct {
	gorm.Model
	UserID   uint           `gorm:"default:0;index" json:"userId"`
	Action   string         `gorm:"type:varchar(100);not null" json:"action"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
