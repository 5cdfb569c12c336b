package roles

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Resolution answers "what can this user do right now".
type Resolution struct {
	CurrentRole    Role         `json:"currentRole"`
	AvailableRoles []Role       `json:"availableRoles"`
	Capabilities   Capabilities `json:"capabilities"`
}

// Resolver is the single entry point for role resolution. All previous
// variants (legacy, enhanced, unified test mode) collapse into this.
type Resolver struct {
	Store    *Store
	Override *Override
	Cache    *Cache
}

// Resolve determines the active role, available roles and capability set for
// a request. When the test-mode override applies it returns the synthetic
// full-access result without touching the store, so debug paths cannot
// depend on or corrupt real grant data. Otherwise it reads the store; if the
// stored current role is not among the active grants it falls back to viewer
// if granted, else the lexicographically smallest active role, and logs the
// drift (non-fatal).
func (r *Resolver) Resolve(ctx context.Context, req RequestContext) (Resolution, error) {
	if r.Override.Active(req) {
		return r.syntheticResolution(req), nil
	}

	active, err := r.Store.ListActiveRoles(ctx, req.UserID)
	if err != nil {
		return Resolution{}, err
	}
	stored, err := r.Store.CurrentRole(ctx, req.UserID)
	if err != nil {
		return Resolution{}, err
	}

	current := stored
	if !containsRole(active, stored) {
		current = driftFallback(active)
		log.Warn().
			Str("user_id", req.UserID.String()).
			Str("stored_role", stored.String()).
			Interface("active_roles", active).
			Str("fallback_role", current.String()).
			Msg("role drift detected")
	}

	res := Resolution{
		CurrentRole:    current,
		AvailableRoles: active,
		Capabilities:   CapabilitiesFor(current),
	}
	if r.Cache != nil {
		r.Cache.Set(ctx, req.UserID, res)
	}
	return res, nil
}

// syntheticResolution is the test-mode result: every enumerated role
// available, all capabilities true. Never written to the cache — test-mode
// state must be re-derived each request.
func (r *Resolver) syntheticResolution(req RequestContext) Resolution {
	current := req.SessionRole
	if !current.IsValid() {
		current = Admin
	}
	all := make([]Role, len(AllRoles))
	copy(all, AllRoles)
	return Resolution{
		CurrentRole:    current,
		AvailableRoles: SortRoles(all),
		Capabilities:   FullCapabilities(),
	}
}

// driftFallback picks a deterministic role when current role and grants
// disagree: viewer if granted, else the smallest active role, else viewer
// (possible only before the first grant).
func driftFallback(active []Role) Role {
	if len(active) == 0 {
		return Viewer
	}
	if containsRole(active, Viewer) {
		return Viewer
	}
	return SortRoles(active)[0]
}
