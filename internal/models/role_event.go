package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleEvent is the audit trail for role mutations (switches, grants, revokes,
// enable-all). EventData holds the before/after detail as JSON.
type RoleEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (RoleEvent) TableName() string {
	return "RoleEvents"
}

func (e *RoleEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
