package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdSpace is a publisher's placement slot. Status: "active" | "inactive".
type AdSpace struct {
	SpaceID     uuid.UUID      `gorm:"column:space_id;type:uuid;primaryKey" json:"space_id"`
	PublisherID uuid.UUID      `gorm:"column:publisher_id;type:uuid;not null;index" json:"publisher_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Website     string         `gorm:"column:website;not null" json:"website"`
	Dimensions  string         `gorm:"column:dimensions;not null" json:"dimensions"`
	Status      string         `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AdSpace) TableName() string {
	return "AdSpaces"
}

func (s *AdSpace) BeforeCreate(tx *gorm.DB) error {
	if s.SpaceID == uuid.Nil {
		s.SpaceID = uuid.New()
	}
	return nil
}
