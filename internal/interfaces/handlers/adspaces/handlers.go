package adspaces

import (
	spacesvc "nostr-ads-backend/internal/application/adspaces"
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *spacesvc.Service
}

// CreateAdSpaceRequest body.
type CreateAdSpaceRequest struct {
	Name       string `json:"name"`
	Website    string `json:"website"`
	Dimensions string `json:"dimensions"`
}

// CreateAdSpace POST /api/v1/adspaces/create-adspace — publisher or admin
// (middleware applied on route).
func (h *Handlers) CreateAdSpace(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var req CreateAdSpaceRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Website == "" || req.Dimensions == "" {
		return response.BadRequest(c, "Name, website and dimensions are required", "")
	}
	space, err := h.Service.CreateAdSpace(c.Context(), spacesvc.CreateAdSpaceInput{
		PublisherID: actor.UserID,
		Name:        req.Name,
		Website:     req.Website,
		Dimensions:  req.Dimensions,
	})
	if err != nil {
		return response.BadRequest(c, err.Error(), "")
	}
	return response.SuccessCreated(c, "Ad space created successfully", fiber.Map{"adspace": space}, nil)
}

// GetMyAdSpaces GET /api/v1/adspaces/get-my-adspaces
func (h *Handlers) GetMyAdSpaces(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	out, err := h.Service.GetMyAdSpaces(c.Context(), actor.UserID)
	if err != nil {
		return response.Internal(c)
	}
	return response.Success(c, "Ad spaces fetched successfully", fiber.Map{"adspaces": out}, nil)
}

// GetPendingAds GET /api/v1/adspaces/pending-ads — canApproveAds.
func (h *Handlers) GetPendingAds(c *fiber.Ctx) error {
	ads, err := h.Service.GetPendingAds(c.Context())
	if err != nil {
		return response.Internal(c)
	}
	return response.Success(c, "Pending ads fetched successfully", fiber.Map{"ads": ads}, nil)
}

// ReviewAdRequest body.
type ReviewAdRequest struct {
	AdID     string `json:"ad_id"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// ReviewAd POST /api/v1/adspaces/review-ad — canApproveAds; approves or
// rejects a pending ad.
func (h *Handlers) ReviewAd(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var req ReviewAdRequest
	if err := c.BodyParser(&req); err != nil || req.AdID == "" || req.Decision == "" {
		return response.BadRequest(c, "ad_id and decision are required", "")
	}
	adID, err := uuid.Parse(req.AdID)
	if err != nil {
		return response.BadRequest(c, "Invalid ad_id", "")
	}
	ad, err := h.Service.ReviewAd(c.Context(), spacesvc.ReviewAdInput{
		ReviewerID: actor.UserID,
		AdID:       adID,
		Decision:   req.Decision,
		Reason:     req.Reason,
	})
	if err != nil {
		switch err {
		case spacesvc.ErrAdNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, response.CodeNotFound)
		default:
			return response.BadRequest(c, err.Error(), "")
		}
	}
	return response.Success(c, "Ad reviewed", fiber.Map{"ad": ad}, nil)
}
