package domain

import "slices"

// Organization roles. Role assignment happens at invite time and is fixed
// per membership; there is no per-user scope override.
const (
	RoleAdmin       = "admin"
	RoleContributor = "contributor"
	RoleViewer      = "viewer"
)

// Permission scopes carried in access tokens.
const (
	ScopeOrgRead          = "org:read"
	ScopeOrgWrite         = "org:write"
	ScopeInvitesWrite     = "invites:write"
	ScopeAssessmentsRead  = "assessments:read"
	ScopeAssessmentsWrite = "assessments:write"
	ScopeReportsRead      = "reports:read"
	ScopeReportsWrite     = "reports:write"
)

var roleScopes = map[string][]string{
	RoleAdmin: {
		ScopeOrgRead, ScopeOrgWrite, ScopeInvitesWrite,
		ScopeAssessmentsRead, ScopeAssessmentsWrite,
		ScopeReportsRead, ScopeReportsWrite,
	},
	RoleContributor: {
		ScopeOrgRead,
		ScopeAssessmentsRead, ScopeAssessmentsWrite,
		ScopeReportsRead, ScopeReportsWrite,
	},
	RoleViewer: {
		ScopeOrgRead, ScopeAssessmentsRead, ScopeReportsRead,
	},
}

// ValidRole reports whether the given role is part of the organization
// role set.
func ValidRole(role string) bool {
	_, ok := roleScopes[role]
	return ok
}

// ScopesForRole returns the permission scopes granted to a role. The
// returned slice is a copy.
func ScopesForRole(role string) []string {
	return slices.Clone(roleScopes[role])
}
