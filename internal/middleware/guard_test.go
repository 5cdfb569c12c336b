package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"nostr-ads-backend/internal/models"
	"nostr-ads-backend/internal/roles"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGuard(t *testing.T, currentRole roles.Role, environment string) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserRole{}, &models.RoleEvent{}))

	store := &roles.Store{DB: db}
	resolver := &roles.Resolver{
		Store:    store,
		Override: &roles.Override{Environment: environment},
	}

	user := &models.User{
		UserName:     "quinn",
		Email:        "quinn@example.com",
		PasswordHash: "x",
		Fullname:     "Quinn Guard",
		CurrentRole:  currentRole.String(),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, store.GrantRole(context.Background(), user.UserID, currentRole))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":      user.UserID.String(),
			"email":        user.Email,
			"current_role": user.CurrentRole,
		})
		return c.Next()
	})
	app.Use(RouteGuard(resolver))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/admin/system", ok)
	app.Get("/advertiser/campaigns", ok)
	app.Get("/publisher/review", ok)
	app.Get("/stakeholder/reports", ok)
	app.Get("/dashboard", ok)
	return app
}

func guardStatus(t *testing.T, app *fiber.App, path string, headers map[string]string) int {
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRouteGuard(t *testing.T) {
	tests := []struct {
		role roles.Role
		path string
		want int
	}{
		{roles.Viewer, "/admin/system", fiber.StatusForbidden},
		{roles.Admin, "/admin/system", fiber.StatusOK},
		{roles.Viewer, "/advertiser/campaigns", fiber.StatusForbidden},
		{roles.Advertiser, "/advertiser/campaigns", fiber.StatusOK},
		{roles.Advertiser, "/publisher/review", fiber.StatusForbidden},
		{roles.Publisher, "/publisher/review", fiber.StatusOK},
		{roles.Viewer, "/stakeholder/reports", fiber.StatusForbidden},
		{roles.Stakeholder, "/stakeholder/reports", fiber.StatusOK},
		// Unlisted route: open to everyone.
		{roles.Viewer, "/dashboard", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role.String()+" "+tt.path, func(t *testing.T) {
			app := setupGuard(t, tt.role, "production")
			assert.Equal(t, tt.want, guardStatus(t, app, tt.path, nil))
		})
	}
}

func TestRouteGuard_ForbiddenBody(t *testing.T) {
	app := setupGuard(t, roles.Viewer, "production")

	req := httptest.NewRequest("GET", "/admin/system", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "User is Forbidden from performing this action", body["error"])
	assert.Equal(t, "forbidden", body["code"])
}

func TestRouteGuard_TestModeGrantsCapabilitiesNotRole(t *testing.T) {
	app := setupGuard(t, roles.Viewer, "development")
	hdr := map[string]string{"X-Test-Mode": "true"}

	// Capability-gated prefixes open up: the synthetic resolution carries the
	// full capability set.
	assert.Equal(t, fiber.StatusOK, guardStatus(t, app, "/advertiser/campaigns", hdr))
	assert.Equal(t, fiber.StatusOK, guardStatus(t, app, "/publisher/review", hdr))

	// Role-gated /admin still follows the session's current role; switching
	// to admin first is what opens it.
	assert.Equal(t, fiber.StatusForbidden, guardStatus(t, app, "/admin/system", hdr))
}

func TestRouteGuard_TestHeaderInertInProduction(t *testing.T) {
	app := setupGuard(t, roles.Viewer, "production")

	assert.Equal(t, fiber.StatusForbidden,
		guardStatus(t, app, "/admin/system", map[string]string{"X-Test-Mode": "true"}))
}

func TestRouteGuard_Unauthenticated(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserRole{}, &models.RoleEvent{}))

	resolver := &roles.Resolver{
		Store:    &roles.Store{DB: db},
		Override: &roles.Override{Environment: "production"},
	}
	app := fiber.New()
	app.Use(RouteGuard(resolver))
	app.Get("/admin/system", func(c *fiber.Ctx) error { return c.SendString("ok") })

	assert.Equal(t, fiber.StatusUnauthorized, guardStatus(t, app, "/admin/system", nil))
}

func TestRequestContext_ParsesTestHeader(t *testing.T) {
	app := fiber.New()
	var got roles.RequestContext
	var ok bool
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":      "7b0d2a52-19b7-4f70-9a8e-0a9c1e6b2f11",
			"email":        "quinn@example.com",
			"current_role": "viewer",
		})
		return c.Next()
	})
	app.Get("/", func(c *fiber.Ctx) error {
		got, ok = RequestContext(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Test-Mode", "true")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	require.True(t, ok)
	assert.True(t, got.ClientTestFlag)
	assert.Equal(t, roles.Viewer, got.SessionRole)
	assert.Equal(t, "quinn@example.com", got.Email)
}

func TestRequestContext_NoSession(t *testing.T) {
	app := fiber.New()
	var ok bool
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok = RequestContext(c)
		return c.SendString("ok")
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, ok)
}
