package reports

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	reportsvc "nostr-ads-backend/internal/application/reports"
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/models"
	rolesdom "nostr-ads-backend/internal/roles"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T, currentRole rolesdom.Role) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.UserRole{}, &models.RoleEvent{},
		&models.Campaign{}, &models.Ad{}, &models.AdSpace{},
	))

	store := &rolesdom.Store{DB: db}
	resolver := &rolesdom.Resolver{
		Store:    store,
		Override: &rolesdom.Override{Environment: "production"},
	}

	user := &models.User{
		UserName:     "sara",
		Email:        "sara@example.com",
		PasswordHash: "x",
		Fullname:     "Sara Board",
		CurrentRole:  currentRole.String(),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, store.GrantRole(context.Background(), user.UserID, currentRole))

	h := &Handlers{Service: &reportsvc.Service{DB: db}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":      user.UserID.String(),
			"email":        user.Email,
			"current_role": user.CurrentRole,
		})
		return c.Next()
	})
	grp := app.Group("/api/v1/reports")
	grp.Get("/overview", middleware.RequireCapability(resolver, rolesdom.CapViewAnalytics), h.Overview)
	grp.Get("/financial", middleware.RequireCapability(resolver, rolesdom.CapViewFinancialReports), h.Financial)
	return app, db
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]interface{}) {
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func seedCampaigns(t *testing.T, db *gorm.DB) {
	cps := []models.Campaign{
		{AdvertiserID: uuid.New(), Name: "A", Status: "active", BudgetSats: 50000, SpentSats: 12000},
		{AdvertiserID: uuid.New(), Name: "B", Status: "paused", BudgetSats: 30000, SpentSats: 30000},
	}
	for i := range cps {
		require.NoError(t, db.Create(&cps[i]).Error)
	}
	ads := []models.Ad{
		{CampaignID: cps[0].CampaignID, Title: "x", TargetURL: "https://x", Status: "approved"},
		{CampaignID: cps[0].CampaignID, Title: "y", TargetURL: "https://y", Status: "pending"},
	}
	for i := range ads {
		require.NoError(t, db.Create(&ads[i]).Error)
	}
}

func TestOverview_ViewerAllowed(t *testing.T) {
	app, db := setup(t, rolesdom.Viewer)
	seedCampaigns(t, db)

	resp, body := get(t, app, "/api/v1/reports/overview")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_campaigns"])
	assert.Equal(t, float64(1), data["active_campaigns"])
	assert.Equal(t, float64(2), data["total_ads"])
	assert.Equal(t, float64(1), data["approved_ads"])
	assert.Equal(t, float64(1), data["pending_ads"])
}

func TestFinancial_ViewerForbidden(t *testing.T) {
	app, _ := setup(t, rolesdom.Viewer)

	resp, body := get(t, app, "/api/v1/reports/financial")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["code"])
}

func TestFinancial_Stakeholder(t *testing.T) {
	app, db := setup(t, rolesdom.Stakeholder)
	seedCampaigns(t, db)

	resp, body := get(t, app, "/api/v1/reports/financial")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(80000), data["total_budget_sats"])
	assert.Equal(t, float64(42000), data["total_spent_sats"])
	assert.Equal(t, float64(2), data["campaign_count"])
}

func TestFinancial_AdvertiserForbidden(t *testing.T) {
	app, _ := setup(t, rolesdom.Advertiser)

	resp, _ := get(t, app, "/api/v1/reports/financial")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
