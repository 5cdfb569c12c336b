package campaigns

import (
	"context"
	"errors"

	"nostr-ads-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound = errors.New("Campaign not found")
	ErrAdNotFound       = errors.New("Ad not found")
	ErrNotCampaignOwner = errors.New("Campaign does not belong to this advertiser")
)

type Service struct {
	DB *gorm.DB
}

type CreateCampaignInput struct {
	AdvertiserID uuid.UUID
	Name         string
	BudgetSats   int64
}

func (s *Service) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*models.Campaign, error) {
	if in.Name == "" {
		return nil, errors.New("Campaign name is required")
	}
	if in.BudgetSats < 0 {
		return nil, errors.New("Budget must be non-negative")
	}
	cp := &models.Campaign{
		AdvertiserID: in.AdvertiserID,
		Name:         in.Name,
		Status:       "active",
		BudgetSats:   in.BudgetSats,
	}
	if err := s.DB.WithContext(ctx).Create(cp).Error; err != nil {
		return nil, err
	}
	return cp, nil
}

// GetMyCampaigns returns all campaigns owned by the advertiser, newest first.
func (s *Service) GetMyCampaigns(ctx context.Context, advertiserID uuid.UUID) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := s.DB.WithContext(ctx).
		Where("advertiser_id = ?", advertiserID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ownedCampaign loads a campaign and enforces advertiser ownership.
func (s *Service) ownedCampaign(ctx context.Context, campaignID, advertiserID uuid.UUID) (*models.Campaign, error) {
	var cp models.Campaign
	if err := s.DB.WithContext(ctx).Where("campaign_id = ?", campaignID).First(&cp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	if cp.AdvertiserID != advertiserID {
		return nil, ErrNotCampaignOwner
	}
	return &cp, nil
}

type CreateAdInput struct {
	AdvertiserID uuid.UUID
	CampaignID   uuid.UUID
	Title        string
	TargetURL    string
	ImageURL     string
}

// CreateAd adds a pending ad to one of the advertiser's campaigns.
func (s *Service) CreateAd(ctx context.Context, in CreateAdInput) (*models.Ad, error) {
	if in.Title == "" || in.TargetURL == "" {
		return nil, errors.New("Title and target_url are required")
	}
	if _, err := s.ownedCampaign(ctx, in.CampaignID, in.AdvertiserID); err != nil {
		return nil, err
	}
	ad := &models.Ad{
		CampaignID: in.CampaignID,
		Title:      in.Title,
		TargetURL:  in.TargetURL,
		ImageURL:   in.ImageURL,
		Status:     "pending",
	}
	if err := s.DB.WithContext(ctx).Create(ad).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

type EditAdInput struct {
	AdvertiserID uuid.UUID
	AdID         uuid.UUID
	Title        *string
	TargetURL    *string
	ImageURL     *string
}

// EditAd updates an advertiser's own ad. Any edit resets the ad to pending
// so the change goes through review again.
func (s *Service) EditAd(ctx context.Context, in EditAdInput) (*models.Ad, error) {
	var ad models.Ad
	if err := s.DB.WithContext(ctx).Where("ad_id = ?", in.AdID).First(&ad).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	if _, err := s.ownedCampaign(ctx, ad.CampaignID, in.AdvertiserID); err != nil {
		return nil, err
	}
	if in.Title != nil {
		ad.Title = *in.Title
	}
	if in.TargetURL != nil {
		ad.TargetURL = *in.TargetURL
	}
	if in.ImageURL != nil {
		ad.ImageURL = *in.ImageURL
	}
	ad.Status = "pending"
	ad.Review = nil
	if err := s.DB.WithContext(ctx).Save(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// PauseCampaign sets an owned campaign to paused.
func (s *Service) PauseCampaign(ctx context.Context, campaignID, advertiserID uuid.UUID) (*models.Campaign, error) {
	cp, err := s.ownedCampaign(ctx, campaignID, advertiserID)
	if err != nil {
		return nil, err
	}
	cp.Status = "paused"
	if err := s.DB.WithContext(ctx).Save(cp).Error; err != nil {
		return nil, err
	}
	return cp, nil
}

// GetCampaignAds lists the ads of one owned campaign.
func (s *Service) GetCampaignAds(ctx context.Context, campaignID, advertiserID uuid.UUID) ([]models.Ad, error) {
	if _, err := s.ownedCampaign(ctx, campaignID, advertiserID); err != nil {
		return nil, err
	}
	var ads []models.Ad
	if err := s.DB.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}
