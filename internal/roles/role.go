package roles

import "sort"

// Role is one of the fixed marketplace roles. The set is closed; roles are
// not user-extensible.
type Role string

const (
	Viewer      Role = "viewer"
	Advertiser  Role = "advertiser"
	Publisher   Role = "publisher"
	Stakeholder Role = "stakeholder"
	Admin       Role = "admin"
)

// AllRoles lists every enumerated role (must match the enum_Users_current_role values).
var AllRoles = []Role{Viewer, Advertiser, Publisher, Stakeholder, Admin}

// IsValid returns true if r is one of the enumerated roles.
func (r Role) IsValid() bool {
	switch r {
	case Viewer, Advertiser, Publisher, Stakeholder, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Parse validates a role string from a request body. Returns false for
// anything outside the enumeration; callers must check before hitting the
// capability table.
func Parse(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// SortRoles orders a role set lexicographically (deterministic API output
// and drift fallback).
func SortRoles(rs []Role) []Role {
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return rs
}
