package adspaces

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nostr-ads-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAdNotFound      = errors.New("Ad not found")
	ErrAdNotPending    = errors.New("Ad is not pending review")
	ErrInvalidDecision = errors.New("Decision must be approve or reject")
)

type Service struct {
	DB *gorm.DB
}

type CreateAdSpaceInput struct {
	PublisherID uuid.UUID
	Name        string
	Website     string
	Dimensions  string
}

func (s *Service) CreateAdSpace(ctx context.Context, in CreateAdSpaceInput) (*models.AdSpace, error) {
	if in.Name == "" || in.Website == "" || in.Dimensions == "" {
		return nil, errors.New("Name, website and dimensions are required")
	}
	space := &models.AdSpace{
		PublisherID: in.PublisherID,
		Name:        in.Name,
		Website:     in.Website,
		Dimensions:  in.Dimensions,
		Status:      "active",
	}
	if err := s.DB.WithContext(ctx).Create(space).Error; err != nil {
		return nil, err
	}
	return space, nil
}

func (s *Service) GetMyAdSpaces(ctx context.Context, publisherID uuid.UUID) ([]models.AdSpace, error) {
	var out []models.AdSpace
	if err := s.DB.WithContext(ctx).
		Where("publisher_id = ?", publisherID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetPendingAds lists every ad awaiting review, oldest first.
func (s *Service) GetPendingAds(ctx context.Context) ([]models.Ad, error) {
	var ads []models.Ad
	if err := s.DB.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC").
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

type ReviewAdInput struct {
	ReviewerID uuid.UUID
	AdID       uuid.UUID
	Decision   string // "approve" | "reject"
	Reason     string
}

// ReviewAd approves or rejects a pending ad and records the review detail on
// the ad row.
func (s *Service) ReviewAd(ctx context.Context, in ReviewAdInput) (*models.Ad, error) {
	if in.Decision != "approve" && in.Decision != "reject" {
		return nil, ErrInvalidDecision
	}
	var ad models.Ad
	if err := s.DB.WithContext(ctx).Where("ad_id = ?", in.AdID).First(&ad).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	if ad.Status != "pending" {
		return nil, ErrAdNotPending
	}
	if in.Decision == "approve" {
		ad.Status = "approved"
	} else {
		ad.Status = "rejected"
	}
	review, _ := json.Marshal(map[string]interface{}{
		"reviewer_id": in.ReviewerID,
		"decision":    in.Decision,
		"reason":      in.Reason,
		"reviewed_at": time.Now(),
	})
	ad.Review = datatypes.JSON(review)
	if err := s.DB.WithContext(ctx).Save(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}
