package roles

import "fmt"

// Capability names a single boolean permission flag.
type Capability string

const (
	CapCreateAds            Capability = "canCreateAds"
	CapManageOwnAds         Capability = "canManageOwnAds"
	CapApproveAds           Capability = "canApproveAds"
	CapViewAnalytics        Capability = "canViewAnalytics"
	CapManageRoles          Capability = "canManageRoles"
	CapViewFinancialReports Capability = "canViewFinancialReports"
	CapManageSystem         Capability = "canManageSystem"
)

// Capabilities is the flat flag set derived from a role. Never stored;
// recomputed on demand.
type Capabilities struct {
	CanCreateAds            bool `json:"canCreateAds"`
	CanManageOwnAds         bool `json:"canManageOwnAds"`
	CanApproveAds           bool `json:"canApproveAds"`
	CanViewAnalytics        bool `json:"canViewAnalytics"`
	CanManageRoles          bool `json:"canManageRoles"`
	CanViewFinancialReports bool `json:"canViewFinancialReports"`
	CanManageSystem         bool `json:"canManageSystem"`
}

// capabilityTable is the canonical role -> capabilities mapping.
var capabilityTable = map[Role]Capabilities{
	Viewer: {
		CanViewAnalytics: true,
	},
	Advertiser: {
		CanCreateAds:     true,
		CanManageOwnAds:  true,
		CanViewAnalytics: true,
	},
	Publisher: {
		CanApproveAds:    true,
		CanViewAnalytics: true,
	},
	Stakeholder: {
		CanViewAnalytics:        true,
		CanViewFinancialReports: true,
	},
	Admin: {
		CanCreateAds:            true,
		CanManageOwnAds:         true,
		CanApproveAds:           true,
		CanViewAnalytics:        true,
		CanManageRoles:          true,
		CanViewFinancialReports: true,
		CanManageSystem:         true,
	},
}

// CapabilitiesFor returns the capability set for a role. Total over the
// enumeration; panics on anything else — role strings from requests must go
// through Parse first.
func CapabilitiesFor(r Role) Capabilities {
	caps, ok := capabilityTable[r]
	if !ok {
		panic(fmt.Sprintf("roles: CapabilitiesFor called with unknown role %q", r))
	}
	return caps
}

// FullCapabilities is the admin row; used for the test-mode synthetic result.
func FullCapabilities() Capabilities {
	return capabilityTable[Admin]
}

// Has returns the flag named by cap. Unknown capability names are false.
func (c Capabilities) Has(cap Capability) bool {
	switch cap {
	case CapCreateAds:
		return c.CanCreateAds
	case CapManageOwnAds:
		return c.CanManageOwnAds
	case CapApproveAds:
		return c.CanApproveAds
	case CapViewAnalytics:
		return c.CanViewAnalytics
	case CapManageRoles:
		return c.CanManageRoles
	case CapViewFinancialReports:
		return c.CanViewFinancialReports
	case CapManageSystem:
		return c.CanManageSystem
	default:
		return false
	}
}
