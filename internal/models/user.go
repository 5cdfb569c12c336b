package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User carries the account identity plus the scalar current-role fields read
// by every permission check. current_role must be one of the user's active
// UserRole grants — application-level invariant only, violated intentionally
// under test-mode override; no DB constraint enforces it.
type User struct {
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname       string         `gorm:"column:fullname;not null" json:"fullname"`
	UserName       string         `gorm:"column:user_name;not null" json:"user_name"`
	Email          string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"column:password_hash;not null" json:"-"`
	CurrentRole    string         `gorm:"column:current_role;not null;default:viewer" json:"current_role"`
	PreviousRole   *string        `gorm:"column:previous_role" json:"previous_role"`
	LastRoleChange *time.Time     `gorm:"column:last_role_change" json:"last_role_change"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
