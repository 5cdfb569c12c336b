package auth

import (
	"context"

	authsvc "nostr-ads-backend/internal/application/auth"
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// LoginRequest body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login — authenticate, create session, track it in
// user_sessions:<id>, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Internal(c)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Email and password are required", "")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required", "")
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case authsvc.ErrEmailPasswordRequired:
			return response.BadRequest(c, err.Error(), "")
		case authsvc.ErrInvalidEmail, authsvc.ErrIncorrectPassword:
			return response.Unauthorized(c, err.Error())
		default:
			return response.Internal(c)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:      user.UserID.String(),
		Fullname:    user.Fullname,
		Email:       user.Email,
		CurrentRole: user.CurrentRole,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
		return response.Internal(c)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":      user.UserID.String(),
			"fullname":     user.Fullname,
			"email":        user.Email,
			"current_role": user.CurrentRole,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — destroy session, remove Redis key,
// clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	actor := middleware.GetSessionActor(c)
	sessionID := middleware.GetSessionID(c)

	ctx := context.Background()
	if sessionID != "" && h.Rdb != nil {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
		if actor != nil {
			_ = h.Rdb.SRem(ctx, userSessionsPrefix+actor.UserID.String(), sessionID).Err()
		}
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out", nil, nil)
}
