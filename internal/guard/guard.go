// Package guard decides, per navigation, whether the current session may
// render a screen. It is a pure function over a session snapshot plus a role
// whitelist and holds no state of its own; callers re-evaluate it on every
// state change.
package guard

import (
	"github.com/semanticsaas/talentctl/internal/session"
)

// Well-known redirect targets.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Verdict classifies a Decision.
type Verdict int

const (
	// Pending means the session is still loading and no redirect decision
	// may be made yet (avoids a flash-redirect before startup validation
	// completes).
	Pending Verdict = iota
	// Allow lets the guarded screen render.
	Allow
	// Redirect sends the user to Decision.Path instead.
	Redirect
)

// Decision is the guard's answer for one navigation.
type Decision struct {
	Verdict Verdict
	Path    string
}

// Evaluate gates a screen behind authentication and an optional role
// whitelist. An empty whitelist requires only authentication. Role alias
// spellings match in both directions via normalized set membership.
func Evaluate(snap session.Snapshot, requiredRoles ...string) Decision {
	if snap.IsLoading() {
		return Decision{Verdict: Pending}
	}
	if !snap.IsAuthenticated() {
		return Decision{Verdict: Redirect, Path: LoginPath}
	}
	if !snap.Identity.HasAnyRole(requiredRoles...) {
		return Decision{Verdict: Redirect, Path: UnauthorizedPath}
	}
	return Decision{Verdict: Allow}
}
