package middleware

import (
	"nostr-ads-backend/internal/pkg/response"
	"nostr-ads-backend/internal/roles"

	"github.com/gofiber/fiber/v2"
)

// RequireCapability resolves the caller and denies with 403 unless the
// resolved capability set has cap. No handler logic runs on denial.
func RequireCapability(resolver *roles.Resolver, cap roles.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, ok := RequestContext(c)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}
		res, err := resolver.Resolve(c.Context(), req)
		if err != nil {
			return response.Internal(c)
		}
		if !res.Capabilities.Has(cap) {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		c.Locals("resolution", res)
		return c.Next()
	}
}

// RequireRole denies with 403 unless the resolved current role is one of the
// allowed roles.
func RequireRole(resolver *roles.Resolver, allowed ...roles.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, ok := RequestContext(c)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}
		res, err := resolver.Resolve(c.Context(), req)
		if err != nil {
			return response.Internal(c)
		}
		for _, r := range allowed {
			if res.CurrentRole == r {
				c.Locals("resolution", res)
				return c.Next()
			}
		}
		return response.Forbidden(c, "User is Forbidden from performing this action")
	}
}

// RouteGuard applies the prefix route table to the request path. Unlisted
// paths fall through (open-by-default).
func RouteGuard(resolver *roles.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, ok := RequestContext(c)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}
		res, err := resolver.Resolve(c.Context(), req)
		if err != nil {
			return response.Internal(c)
		}
		if !roles.IsRouteAllowed(res.CurrentRole, c.Path()) {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		c.Locals("resolution", res)
		return c.Next()
	}
}

// GetResolution returns the resolution a guard stored for the handler, if any.
func GetResolution(c *fiber.Ctx) (roles.Resolution, bool) {
	res, ok := c.Locals("resolution").(roles.Resolution)
	return res, ok
}
