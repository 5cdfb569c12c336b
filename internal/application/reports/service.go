package reports

import (
	"context"

	"nostr-ads-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Overview is the aggregate everyone with canViewAnalytics may see.
type Overview struct {
	TotalCampaigns  int64 `json:"total_campaigns"`
	ActiveCampaigns int64 `json:"active_campaigns"`
	TotalAds        int64 `json:"total_ads"`
	ApprovedAds     int64 `json:"approved_ads"`
	PendingAds      int64 `json:"pending_ads"`
	TotalAdSpaces   int64 `json:"total_adspaces"`
}

func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	var o Overview
	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.Campaign{}).Count(&o.TotalCampaigns).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Campaign{}).Where("status = ?", "active").Count(&o.ActiveCampaigns).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Ad{}).Count(&o.TotalAds).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Ad{}).Where("status = ?", "approved").Count(&o.ApprovedAds).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Ad{}).Where("status = ?", "pending").Count(&o.PendingAds).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.AdSpace{}).Count(&o.TotalAdSpaces).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// FinancialReport aggregates campaign budget columns only; wallet and
// transaction bookkeeping live elsewhere.
type FinancialReport struct {
	TotalBudgetSats int64 `json:"total_budget_sats"`
	TotalSpentSats  int64 `json:"total_spent_sats"`
	CampaignCount   int64 `json:"campaign_count"`
}

func (s *Service) GetFinancialReport(ctx context.Context) (*FinancialReport, error) {
	var r FinancialReport
	db := s.DB.WithContext(ctx)
	row := db.Model(&models.Campaign{}).
		Select("COALESCE(SUM(budget_sats), 0), COALESCE(SUM(spent_sats), 0), COUNT(*)").
		Row()
	if err := row.Scan(&r.TotalBudgetSats, &r.TotalSpentSats, &r.CampaignCount); err != nil {
		return nil, err
	}
	return &r, nil
}
