package middleware

import (
	"nostr-ads-backend/internal/pkg/response"
	"nostr-ads-backend/internal/roles"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// testModeHeader is the advisory client flag for the test-mode override. The
// server environment stays authoritative; in production this header is inert.
const testModeHeader = "X-Test-Mode"

// RequireAuth ensures a user is in the session. 401 otherwise.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// SessionActor is the parsed session identity.
type SessionActor struct {
	UserID      uuid.UUID
	Fullname    string
	Email       string
	CurrentRole string
}

// GetSessionActor parses the session user map. Returns nil when there is no
// authenticated caller or the stored shape is unusable.
func GetSessionActor(c *fiber.Ctx) *SessionActor {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	actor := &SessionActor{UserID: id}
	actor.Fullname, _ = m["fullname"].(string)
	actor.Email, _ = m["email"].(string)
	actor.CurrentRole, _ = m["current_role"].(string)
	return actor
}

// RequestContext builds the resolver input for the current request: session
// identity plus the advisory client test flag.
func RequestContext(c *fiber.Ctx) (roles.RequestContext, bool) {
	actor := GetSessionActor(c)
	if actor == nil {
		return roles.RequestContext{}, false
	}
	return roles.RequestContext{
		UserID:         actor.UserID,
		Email:          actor.Email,
		SessionRole:    roles.Role(actor.CurrentRole),
		ClientTestFlag: c.Get(testModeHeader) == "true",
	}, true
}
