package user

import (
	usersvc "nostr-ads-backend/internal/application/user"
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/models"
	"nostr-ads-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the user service and session config for create-user
// (signup starts a session).
type Handlers struct {
	Service *usersvc.Service
	Config  middleware.SessionConfig
}

// CreateUserRequest body.
type CreateUserRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// CreateUser POST /api/v1/users/create-user — signup; grants the viewer
// baseline, starts a session, returns 201 with data.user.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Missing required fields", "")
	}
	if req.UserName == "" || req.Email == "" || req.Password == "" || req.Fullname == "" {
		return response.BadRequest(c, "Missing required fields", "")
	}

	u, err := h.Service.CreateUser(c.Context(), usersvc.CreateUserInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
	})
	if err != nil {
		return response.BadRequest(c, err.Error(), "")
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:      u.UserID.String(),
		Fullname:    u.Fullname,
		Email:       u.Email,
		CurrentRole: u.CurrentRole,
	})

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// UpdateUser PUT /api/v1/users/update-user — updates the session user.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || len(body) == 0 {
		return response.BadRequest(c, "Missing update fields", "")
	}

	u, err := h.Service.UpdateUser(c.Context(), actor.UserID.String(), body)
	if err != nil {
		if err.Error() == "User not found" {
			return response.Error(c, err.Error(), fiber.StatusNotFound, response.CodeNotFound)
		}
		return response.BadRequest(c, err.Error(), "")
	}
	return response.Success(c, "User updated successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// ViewUser GET /api/v1/users/view-user — returns the session user.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	u, err := h.Service.ViewUser(c.Context(), actor.UserID.String())
	if err != nil {
		if err.Error() == "User not found" {
			return response.Error(c, err.Error(), fiber.StatusNotFound, response.CodeNotFound)
		}
		return response.Internal(c)
	}
	return response.Success(c, "User found", fiber.Map{"user": safeUser(u)}, nil)
}

// safeUser strips the password hash from API responses.
func safeUser(u *models.User) fiber.Map {
	return fiber.Map{
		"user_id":          u.UserID,
		"user_name":        u.UserName,
		"fullname":         u.Fullname,
		"email":            u.Email,
		"current_role":     u.CurrentRole,
		"previous_role":    u.PreviousRole,
		"last_role_change": u.LastRoleChange,
		"is_active":        u.IsActive,
		"createdAt":        u.CreatedAt,
	}
}
