package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ad is one creative inside a campaign. New ads start "pending" and need a
// publisher review before serving. Status: "pending" | "approved" | "rejected".
type Ad struct {
	AdID       uuid.UUID      `gorm:"column:ad_id;type:uuid;primaryKey" json:"ad_id"`
	CampaignID uuid.UUID      `gorm:"column:campaign_id;type:uuid;not null;index" json:"campaign_id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	TargetURL  string         `gorm:"column:target_url;not null" json:"target_url"`
	ImageURL   string         `gorm:"column:image_url" json:"image_url"`
	Status     string         `gorm:"column:status;not null;default:pending" json:"status"`
	Review     datatypes.JSON `gorm:"column:review;type:jsonb" json:"review"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Ad) TableName() string {
	return "Ads"
}

func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.AdID == uuid.Nil {
		a.AdID = uuid.New()
	}
	return nil
}
