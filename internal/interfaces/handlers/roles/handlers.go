package roles

import (
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/pkg/response"
	rolesdom "nostr-ads-backend/internal/roles"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers exposes the role resolution and management endpoints. IsProduction
// hard-gates the enable-all debug paths regardless of any client flag.
type Handlers struct {
	Store        *rolesdom.Store
	Resolver     *rolesdom.Resolver
	Cache        *rolesdom.Cache
	IsProduction bool
}

// Get GET /api/enhanced-roles — resolution for the authenticated caller.
func (h *Handlers) Get(c *fiber.Ctx) error {
	req, ok := middleware.RequestContext(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	res, err := h.Resolver.Resolve(c.Context(), req)
	if err != nil {
		return mapRoleError(c, err)
	}
	return response.Success(c, "Roles resolved", res, nil)
}

// EnableAll POST /api/enhanced-roles/enable-all — grants every role to the
// caller as test grants. 403 outside non-production environments, always.
func (h *Handlers) EnableAll(c *fiber.Ctx) error {
	if h.IsProduction {
		return response.Forbidden(c, "Test roles cannot be enabled in production")
	}
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	if err := h.Store.GrantAllTestRoles(c.Context(), actor.UserID); err != nil {
		return mapRoleError(c, err)
	}
	log.Warn().
		Str("user_id", actor.UserID.String()).
		Str("email", actor.Email).
		Msg("all test roles enabled for user")

	req, _ := middleware.RequestContext(c)
	res, err := h.Resolver.Resolve(c.Context(), req)
	if err != nil {
		return mapRoleError(c, err)
	}
	return response.Success(c, "All roles enabled", res, nil)
}

// RolesCheck GET /api/auth/roles-check — diagnostic dump comparing the raw
// store read with the resolver output so operators can see drift.
func (h *Handlers) RolesCheck(c *fiber.Ctx) error {
	req, ok := middleware.RequestContext(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	storedCurrent, err := h.Store.CurrentRole(c.Context(), req.UserID)
	if err != nil {
		return mapRoleError(c, err)
	}
	active, err := h.Store.ListActiveRoles(c.Context(), req.UserID)
	if err != nil {
		return mapRoleError(c, err)
	}
	res, err := h.Resolver.Resolve(c.Context(), req)
	if err != nil {
		return mapRoleError(c, err)
	}

	drift := true
	for _, r := range active {
		if r == storedCurrent {
			drift = false
			break
		}
	}

	check := fiber.Map{
		"store": fiber.Map{
			"currentRole": storedCurrent,
			"activeRoles": active,
		},
		"resolver": res,
		"drift":    drift,
	}
	if cached, ok := h.Cache.Get(c.Context(), req.UserID); ok {
		check["cachedMirror"] = cached
	}
	return response.Success(c, "Roles check", check, nil)
}

// SwitchRoleRequest body for switch-role.
type SwitchRoleRequest struct {
	Role string `json:"role"`
}

// SwitchRole POST /api/v1/roles/switch-role — set the caller's current role.
// Test-mode override lets any enumerated role through regardless of grants.
func (h *Handlers) SwitchRole(c *fiber.Ctx) error {
	req, ok := middleware.RequestContext(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body SwitchRoleRequest
	if err := c.BodyParser(&body); err != nil || body.Role == "" {
		return response.BadRequest(c, "Role is required", "")
	}
	role, valid := rolesdom.Parse(body.Role)
	if !valid {
		return response.BadRequest(c, "Invalid role", response.CodeInvalidRole)
	}

	override := h.Resolver.Override.Active(req)
	if err := h.Store.SetCurrentRole(c.Context(), req.UserID, role, override); err != nil {
		return mapRoleError(c, err)
	}
	middleware.UpdateSessionRole(c, role.String())

	req.SessionRole = role
	res, err := h.Resolver.Resolve(c.Context(), req)
	if err != nil {
		return mapRoleError(c, err)
	}
	return response.Success(c, "Role switched", res, nil)
}

// GrantRoleRequest body for grant-role / revoke-role (admin surface).
type GrantRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// GrantRole POST /api/v1/roles/grant-role — requires canManageRoles
// (middleware applied on route).
func (h *Handlers) GrantRole(c *fiber.Ctx) error {
	userID, role, errResp := parseGrantRequest(c)
	if errResp != nil {
		return errResp(c)
	}
	if err := h.Store.GrantRole(c.Context(), userID, role); err != nil {
		return mapRoleError(c, err)
	}
	return response.Success(c, "Role granted", fiber.Map{"user_id": userID, "role": role}, nil)
}

// RevokeRole POST /api/v1/roles/revoke-role — requires canManageRoles.
func (h *Handlers) RevokeRole(c *fiber.Ctx) error {
	userID, role, errResp := parseGrantRequest(c)
	if errResp != nil {
		return errResp(c)
	}
	if err := h.Store.RevokeRole(c.Context(), userID, role); err != nil {
		return mapRoleError(c, err)
	}
	return response.Success(c, "Role revoked", fiber.Map{"user_id": userID, "role": role}, nil)
}

func parseGrantRequest(c *fiber.Ctx) (uuid.UUID, rolesdom.Role, func(*fiber.Ctx) error) {
	var body GrantRoleRequest
	if err := c.BodyParser(&body); err != nil || body.UserID == "" || body.Role == "" {
		return uuid.Nil, "", func(c *fiber.Ctx) error {
			return response.BadRequest(c, "user_id and role are required", "")
		}
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return uuid.Nil, "", func(c *fiber.Ctx) error {
			return response.BadRequest(c, "Invalid user ID format (must be a valid UUID)", "")
		}
	}
	role, valid := rolesdom.Parse(body.Role)
	if !valid {
		return uuid.Nil, "", func(c *fiber.Ctx) error {
			return response.BadRequest(c, "Invalid role", response.CodeInvalidRole)
		}
	}
	return userID, role, nil
}

// mapRoleError converts role-domain errors to the standard body.
func mapRoleError(c *fiber.Ctx, err error) error {
	switch err {
	case rolesdom.ErrNotGranted:
		return response.BadRequest(c, err.Error(), response.CodeNotGranted)
	case rolesdom.ErrInvariantViolation:
		return response.BadRequest(c, err.Error(), response.CodeInvariantViolation)
	case rolesdom.ErrInvalidRole:
		return response.BadRequest(c, err.Error(), response.CodeInvalidRole)
	case rolesdom.ErrUserNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, response.CodeNotFound)
	default:
		return response.Internal(c)
	}
}
