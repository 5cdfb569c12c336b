package campaigns

import (
	campsvc "nostr-ads-backend/internal/application/campaigns"
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *campsvc.Service
}

// CreateCampaignRequest body.
type CreateCampaignRequest struct {
	Name       string `json:"name"`
	BudgetSats int64  `json:"budget_sats"`
}

// CreateCampaign POST /api/v1/campaigns/create-campaign — canCreateAds
// (middleware applied on route).
func (h *Handlers) CreateCampaign(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var req CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return response.BadRequest(c, "Campaign name is required", "")
	}
	cp, err := h.Service.CreateCampaign(c.Context(), campsvc.CreateCampaignInput{
		AdvertiserID: actor.UserID,
		Name:         req.Name,
		BudgetSats:   req.BudgetSats,
	})
	if err != nil {
		return response.BadRequest(c, err.Error(), "")
	}
	return response.SuccessCreated(c, "Campaign created successfully", fiber.Map{"campaign": cp}, nil)
}

// GetMyCampaigns GET /api/v1/campaigns/get-my-campaigns
func (h *Handlers) GetMyCampaigns(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	out, err := h.Service.GetMyCampaigns(c.Context(), actor.UserID)
	if err != nil {
		return response.Internal(c)
	}
	return response.Success(c, "Campaigns fetched successfully", fiber.Map{"campaigns": out}, nil)
}

// CreateAdRequest body.
type CreateAdRequest struct {
	CampaignID string `json:"campaign_id"`
	Title      string `json:"title"`
	TargetURL  string `json:"target_url"`
	ImageURL   string `json:"image_url"`
}

// CreateAd POST /api/v1/campaigns/create-ad — canCreateAds; ad starts pending.
func (h *Handlers) CreateAd(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var req CreateAdRequest
	if err := c.BodyParser(&req); err != nil || req.CampaignID == "" || req.Title == "" || req.TargetURL == "" {
		return response.BadRequest(c, "campaign_id, title and target_url are required", "")
	}
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return response.BadRequest(c, "Invalid campaign_id", "")
	}
	ad, err := h.Service.CreateAd(c.Context(), campsvc.CreateAdInput{
		AdvertiserID: actor.UserID,
		CampaignID:   campaignID,
		Title:        req.Title,
		TargetURL:    req.TargetURL,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return mapCampaignError(c, err)
	}
	return response.SuccessCreated(c, "Ad created successfully", fiber.Map{"ad": ad}, nil)
}

// EditAdRequest body; nil fields are left unchanged.
type EditAdRequest struct {
	AdID      string  `json:"ad_id"`
	Title     *string `json:"title"`
	TargetURL *string `json:"target_url"`
	ImageURL  *string `json:"image_url"`
}

// EditAd PUT /api/v1/campaigns/edit-ad — canManageOwnAds; resets the ad to
// pending for re-review.
func (h *Handlers) EditAd(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var req EditAdRequest
	if err := c.BodyParser(&req); err != nil || req.AdID == "" {
		return response.BadRequest(c, "ad_id is required", "")
	}
	adID, err := uuid.Parse(req.AdID)
	if err != nil {
		return response.BadRequest(c, "Invalid ad_id", "")
	}
	ad, err := h.Service.EditAd(c.Context(), campsvc.EditAdInput{
		AdvertiserID: actor.UserID,
		AdID:         adID,
		Title:        req.Title,
		TargetURL:    req.TargetURL,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return mapCampaignError(c, err)
	}
	return response.Success(c, "Ad updated successfully", fiber.Map{"ad": ad}, nil)
}

// PauseCampaignRequest body.
type PauseCampaignRequest struct {
	CampaignID string `json:"campaign_id"`
}

// PauseCampaign POST /api/v1/campaigns/pause-campaign — canManageOwnAds.
func (h *Handlers) PauseCampaign(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var req PauseCampaignRequest
	if err := c.BodyParser(&req); err != nil || req.CampaignID == "" {
		return response.BadRequest(c, "campaign_id is required", "")
	}
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return response.BadRequest(c, "Invalid campaign_id", "")
	}
	cp, err := h.Service.PauseCampaign(c.Context(), campaignID, actor.UserID)
	if err != nil {
		return mapCampaignError(c, err)
	}
	return response.Success(c, "Campaign paused", fiber.Map{"campaign": cp}, nil)
}

// GetCampaignAds GET /api/v1/campaigns/get-campaign-ads/:campaign_id
func (h *Handlers) GetCampaignAds(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	campaignID, err := uuid.Parse(c.Params("campaign_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid campaign_id", "")
	}
	ads, err := h.Service.GetCampaignAds(c.Context(), campaignID, actor.UserID)
	if err != nil {
		return mapCampaignError(c, err)
	}
	return response.Success(c, "Ads fetched successfully", fiber.Map{"ads": ads}, nil)
}

func mapCampaignError(c *fiber.Ctx, err error) error {
	switch err {
	case campsvc.ErrCampaignNotFound, campsvc.ErrAdNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, response.CodeNotFound)
	case campsvc.ErrNotCampaignOwner:
		return response.Forbidden(c, err.Error())
	default:
		return response.BadRequest(c, err.Error(), "")
	}
}
