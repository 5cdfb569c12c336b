package roles

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/models"
	rolesdom "nostr-ads-backend/internal/roles"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app   *fiber.App
	db    *gorm.DB
	store *rolesdom.Store
	h     *Handlers
	user  *models.User
}

func setup(t *testing.T, environment string, isProduction bool) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserRole{}, &models.RoleEvent{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cache := &rolesdom.Cache{Rdb: rdb, TTL: time.Minute}
	store := &rolesdom.Store{DB: db, Cache: cache}
	resolver := &rolesdom.Resolver{
		Store:    store,
		Override: &rolesdom.Override{Environment: environment, TestUserPattern: "+test@"},
		Cache:    cache,
	}
	h := &Handlers{Store: store, Resolver: resolver, Cache: cache, IsProduction: isProduction}

	user := &models.User{
		UserName:     "carol",
		Email:        "carol@example.com",
		PasswordHash: "x",
		Fullname:     "Carol Tester",
		CurrentRole:  "viewer",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, store.GrantRole(context.Background(), user.UserID, rolesdom.Viewer))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		u := map[string]interface{}{
			"user_id":      user.UserID.String(),
			"fullname":     user.Fullname,
			"email":        user.Email,
			"current_role": currentRoleOf(t, db, user.UserID),
		}
		c.Locals("user", u)
		c.Locals("session_data", map[string]interface{}{"user": u})
		return c.Next()
	})
	app.Get("/api/enhanced-roles", h.Get)
	app.Post("/api/enhanced-roles/enable-all", h.EnableAll)
	app.Get("/api/auth/roles-check", h.RolesCheck)
	app.Post("/api/v1/roles/switch-role", h.SwitchRole)
	app.Post("/api/v1/roles/grant-role", h.GrantRole)
	app.Post("/api/v1/roles/revoke-role", h.RevokeRole)

	return &fixture{app: app, db: db, store: store, h: h, user: user}
}

func currentRoleOf(t *testing.T, db *gorm.DB, userID uuid.UUID) string {
	var u models.User
	require.NoError(t, db.Where("user_id = ?", userID).First(&u).Error)
	return u.CurrentRole
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
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

func TestGetEnhancedRoles(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "GET", "/api/enhanced-roles", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "viewer", data["currentRole"])
	assert.Equal(t, []interface{}{"viewer"}, data["availableRoles"])

	caps := data["capabilities"].(map[string]interface{})
	assert.Equal(t, false, caps["canCreateAds"])
	assert.Equal(t, true, caps["canViewAnalytics"])
}

func TestEnableAll_ForbiddenInProduction(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "POST", "/api/enhanced-roles/enable-all", nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["code"])
	assert.NotEmpty(t, body["error"])

	// No grants were written.
	active, err := f.store.ListActiveRoles(context.Background(), f.user.UserID)
	require.NoError(t, err)
	assert.Equal(t, []rolesdom.Role{rolesdom.Viewer}, active)
}

func TestEnableAll_GrantsEveryRoleInDev(t *testing.T) {
	f := setup(t, "development", false)

	resp, body := doJSON(t, f.app, "POST", "/api/enhanced-roles/enable-all", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["availableRoles"], len(rolesdom.AllRoles))

	active, err := f.store.ListActiveRoles(context.Background(), f.user.UserID)
	require.NoError(t, err)
	assert.Len(t, active, len(rolesdom.AllRoles))
}

func TestSwitchRole_NotGranted(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/switch-role",
		fiber.Map{"role": "admin"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "not_granted", body["code"])
	assert.Equal(t, "Role is not granted to this user", body["error"])

	assert.Equal(t, "viewer", currentRoleOf(t, f.db, f.user.UserID))
}

func TestSwitchRole_InvalidRole(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/switch-role",
		fiber.Map{"role": "superuser"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_role", body["code"])
}

func TestSwitchRole_GrantedRole(t *testing.T) {
	f := setup(t, "production", true)
	require.NoError(t, f.store.GrantRole(context.Background(), f.user.UserID, rolesdom.Advertiser))

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/switch-role",
		fiber.Map{"role": "advertiser"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "advertiser", data["currentRole"])
	assert.Equal(t, "advertiser", currentRoleOf(t, f.db, f.user.UserID))
}

func TestSwitchRole_TestModeBypassesGrants(t *testing.T) {
	f := setup(t, "development", false)

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/switch-role",
		fiber.Map{"role": "admin"}, map[string]string{"X-Test-Mode": "true"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["currentRole"])
	// Test mode resolutions expose the full role set.
	assert.Len(t, data["availableRoles"], len(rolesdom.AllRoles))

	assert.Equal(t, "admin", currentRoleOf(t, f.db, f.user.UserID))
}

func TestSwitchRole_TestHeaderInertInProduction(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/switch-role",
		fiber.Map{"role": "admin"}, map[string]string{"X-Test-Mode": "true"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "not_granted", body["code"])
}

func TestRolesCheck_ReportsDrift(t *testing.T) {
	f := setup(t, "production", true)

	_, body := doJSON(t, f.app, "GET", "/api/auth/roles-check", nil, nil)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["drift"])

	require.NoError(t, f.db.Table("Users").
		Where("user_id = ?", f.user.UserID).
		Update("current_role", "stakeholder").Error)

	resp, body := doJSON(t, f.app, "GET", "/api/auth/roles-check", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["drift"])

	// Resolver already fell back for this request.
	resolved := data["resolver"].(map[string]interface{})
	assert.Equal(t, "viewer", resolved["currentRole"])
}

func TestGrantAndRevokeRole(t *testing.T) {
	f := setup(t, "production", true)

	target := &models.User{
		UserName:     "dave",
		Email:        "dave@example.com",
		PasswordHash: "x",
		Fullname:     "Dave Target",
		CurrentRole:  "viewer",
		IsActive:     true,
	}
	require.NoError(t, f.db.Create(target).Error)
	require.NoError(t, f.store.GrantRole(context.Background(), target.UserID, rolesdom.Viewer))

	resp, _ := doJSON(t, f.app, "POST", "/api/v1/roles/grant-role",
		fiber.Map{"user_id": target.UserID.String(), "role": "publisher"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	active, err := f.store.ListActiveRoles(context.Background(), target.UserID)
	require.NoError(t, err)
	assert.Equal(t, []rolesdom.Role{rolesdom.Publisher, rolesdom.Viewer}, active)

	resp, _ = doJSON(t, f.app, "POST", "/api/v1/roles/revoke-role",
		fiber.Map{"user_id": target.UserID.String(), "role": "publisher"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	active, err = f.store.ListActiveRoles(context.Background(), target.UserID)
	require.NoError(t, err)
	assert.Equal(t, []rolesdom.Role{rolesdom.Viewer}, active)
}

func TestRevokeLastRoleRejected(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/revoke-role",
		fiber.Map{"user_id": f.user.UserID.String(), "role": "viewer"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invariant_violation", body["code"])
}

func TestGrantRole_BadUserID(t *testing.T) {
	f := setup(t, "production", true)

	resp, body := doJSON(t, f.app, "POST", "/api/v1/roles/grant-role",
		fiber.Map{"user_id": "not-a-uuid", "role": "viewer"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", body["code"])
}

func TestUnauthenticated(t *testing.T) {
	f := setup(t, "production", true)

	app := fiber.New()
	app.Use(middleware.RequireAuth())
	app.Get("/api/enhanced-roles", f.h.Get)

	req := httptest.NewRequest("GET", "/api/enhanced-roles", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unauthenticated", body["code"])
}
