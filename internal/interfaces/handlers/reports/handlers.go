package reports

import (
	reportsvc "nostr-ads-backend/internal/application/reports"
	"nostr-ads-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *reportsvc.Service
}

// Overview GET /api/v1/reports/overview — canViewAnalytics.
func (h *Handlers) Overview(c *fiber.Ctx) error {
	o, err := h.Service.GetOverview(c.Context())
	if err != nil {
		return response.Internal(c)
	}
	return response.Success(c, "Overview fetched successfully", o, nil)
}

// Financial GET /api/v1/reports/financial — canViewFinancialReports.
func (h *Handlers) Financial(c *fiber.Ctx) error {
	r, err := h.Service.GetFinancialReport(c.Context())
	if err != nil {
		return response.Internal(c)
	}
	return response.Success(c, "Financial report fetched successfully", r, nil)
}
