package model

import "strings"

// Canonical role names. The backend emits both "ADMIN" and "ROLE_ADMIN"
// depending on the endpoint; both spellings stay accepted on input and are
// normalized here, at the ingestion boundary, so every downstream check is a
// plain set-membership test.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	rolePrefix = "ROLE_"
)

// NormalizeRole maps a role string to its canonical spelling.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(role, rolePrefix)
}

// NormalizeRoles returns the canonical form of a role list, preserving order
// and dropping duplicates and empty entries.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		n := NormalizeRole(r)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// HasAnyRole reports whether the identity holds at least one of the
// required roles. Both sides are normalized, so alias spellings match in
// either direction. An empty requirement always passes.
func (id *Identity) HasAnyRole(required ...string) bool {
	if len(required) == 0 {
		return true
	}
	if id == nil {
		return false
	}
	have := make(map[string]struct{}, len(id.Roles))
	for _, r := range id.Roles {
		have[NormalizeRole(r)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[NormalizeRole(r)]; ok {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the admin role.
func (id *Identity) IsAdmin() bool {
	return id.HasAnyRole(RoleAdmin)
}
