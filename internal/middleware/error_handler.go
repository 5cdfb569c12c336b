package middleware

import (
	"errors"

	"nostr-ads-backend/internal/pkg/response"
	"nostr-ads-backend/internal/roles"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Maps domain errors to the
// standard { error, code } body: Forbidden 403, Unauthenticated 401,
// NotGranted/InvariantViolation 400, everything else 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, roles.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, roles.ErrUnauthenticated):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, roles.ErrNotGranted):
		return response.BadRequest(c, err.Error(), response.CodeNotGranted)
	case errors.Is(err, roles.ErrInvariantViolation):
		return response.BadRequest(c, err.Error(), response.CodeInvariantViolation)
	case errors.Is(err, roles.ErrInvalidRole):
		return response.BadRequest(c, err.Error(), response.CodeInvalidRole)
	}

	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code, response.CodeInternal)
	}
	return response.Internal(c)
}
