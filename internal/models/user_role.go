package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is a role grant. Grants are deactivated, never hard-deleted, so a
// revoked role can be reactivated without duplicating rows. (user_id, role)
// is unique.
type UserRole struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role       string    `gorm:"column:role;not null;uniqueIndex:idx_user_role" json:"role"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsTestRole bool      `gorm:"column:is_test_role;not null;default:false" json:"is_test_role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (UserRole) TableName() string {
	return "UserRoles"
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
