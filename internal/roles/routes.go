package roles

import "strings"

// RouteRule guards one path prefix by role or capability. Exactly one of
// RequiredRole / RequiredCap is set.
type RouteRule struct {
	Prefix       string
	RequiredRole Role
	RequiredCap  Capability
}

// routeTable is consulted top to bottom, first match wins. Unlisted routes
// are allowed — open-by-default, preserved from the source application (see
// DESIGN.md; flagged as a probable defect there).
var routeTable = []RouteRule{
	{Prefix: "/admin", RequiredRole: Admin},
	{Prefix: "/advertiser", RequiredCap: CapCreateAds},
	{Prefix: "/publisher", RequiredCap: CapApproveAds},
	{Prefix: "/stakeholder", RequiredCap: CapViewFinancialReports},
}

// IsRouteAllowed decides allow/deny for a (role, route) pair. Identical
// semantics on client and server.
func IsRouteAllowed(role Role, path string) bool {
	for _, rule := range routeTable {
		if !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		if rule.RequiredRole != "" {
			return role == rule.RequiredRole
		}
		return CapabilitiesFor(role).Has(rule.RequiredCap)
	}
	return true
}
