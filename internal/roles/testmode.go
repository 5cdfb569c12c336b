package roles

import (
	"strings"

	"github.com/google/uuid"
)

// OverrideState is the test-mode override state for one request.
type OverrideState string

const (
	OverrideInactive OverrideState = "inactive"
	OverrideActive   OverrideState = "active"
)

// RequestContext carries what the override and resolver need to know about
// the calling request. SessionRole is the role the session claims; in test
// mode it is trusted as-is, otherwise the store is authoritative.
type RequestContext struct {
	UserID         uuid.UUID
	Email          string
	SessionRole    Role
	ClientTestFlag bool
}

// Override is the development-only blanket bypass. The state is re-derived
// on every request from the server environment — never cached, so a stale
// client flag cannot grant elevated access after a redeploy.
type Override struct {
	// Environment is the server runtime environment ("production" disables
	// the override unconditionally).
	Environment string
	// TestUserPattern, when non-empty, marks any user whose email contains
	// it as a test user (e.g. "+test@").
	TestUserPattern string
}

// State evaluates the override for a request. Active requires a
// non-production environment AND either the client flag or a test-user
// match; the environment check is authoritative over any client input.
func (o *Override) State(req RequestContext) OverrideState {
	if o == nil || o.Environment == "production" {
		return OverrideInactive
	}
	if req.ClientTestFlag {
		return OverrideActive
	}
	if o.TestUserPattern != "" && req.Email != "" && strings.Contains(req.Email, o.TestUserPattern) {
		return OverrideActive
	}
	return OverrideInactive
}

// Active reports whether the override applies to the request.
func (o *Override) Active(req RequestContext) bool {
	return o.State(req) == OverrideActive
}
