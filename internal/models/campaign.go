package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign groups an advertiser's ads under one budget.
// Status: "active" | "paused" | "completed".
type Campaign struct {
	CampaignID   uuid.UUID      `gorm:"column:campaign_id;type:uuid;primaryKey" json:"campaign_id"`
	AdvertiserID uuid.UUID      `gorm:"column:advertiser_id;type:uuid;not null;index" json:"advertiser_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Status       string         `gorm:"column:status;not null;default:active" json:"status"`
	BudgetSats   int64          `gorm:"column:budget_sats;not null;default:0" json:"budget_sats"`
	SpentSats    int64          `gorm:"column:spent_sats;not null;default:0" json:"spent_sats"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Campaign) TableName() string {
	return "Campaigns"
}

func (cp *Campaign) BeforeCreate(tx *gorm.DB) error {
	if cp.CampaignID == uuid.Nil {
		cp.CampaignID = uuid.New()
	}
	return nil
}
