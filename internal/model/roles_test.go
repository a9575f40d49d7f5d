package model

import "testing"

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"ADMIN":      "ADMIN",
		"ROLE_ADMIN": "ADMIN",
		"role_admin": "ADMIN",
		" user ":     "USER",
		"ROLE_USER":  "USER",
		"":           "",
	}
	for in, want := range cases {
		if got := NormalizeRole(in); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeRoles_DropsDupesAndEmpties(t *testing.T) {
	t.Parallel()

	got := NormalizeRoles([]string{"ROLE_ADMIN", "ADMIN", "", "user", "USER"})
	want := []string{"ADMIN", "USER"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestHasAnyRole_AliasBothDirections(t *testing.T) {
	t.Parallel()

	plain := &Identity{Roles: []string{"ADMIN"}}
	prefixed := &Identity{Roles: []string{"ROLE_ADMIN"}}
	user := &Identity{Roles: []string{"USER"}}

	if !plain.HasAnyRole("ROLE_ADMIN") {
		t.Fatalf("ADMIN identity must satisfy ROLE_ADMIN requirement")
	}
	if !prefixed.HasAnyRole("ADMIN") {
		t.Fatalf("ROLE_ADMIN identity must satisfy ADMIN requirement")
	}
	if user.HasAnyRole("ADMIN") {
		t.Fatalf("USER identity must not satisfy ADMIN requirement")
	}
	if !user.HasAnyRole() {
		t.Fatalf("empty requirement must always pass")
	}

	var nobody *Identity
	if nobody.HasAnyRole("ADMIN") {
		t.Fatalf("nil identity must not satisfy a non-empty requirement")
	}
}
