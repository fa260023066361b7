package domain

import "testing"

func TestRoleForTag(t *testing.T) {
	cases := []struct {
		tag  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"mod", RoleModerator},
		{"user", RoleUser},
		{"", RoleUser},
		{"ADMIN", RoleUser}, // tag lookup is case-sensitive
		{"superuser", RoleUser},
	}

	for _, tc := range cases {
		if got := RoleForTag(tc.tag); got != tc.want {
			t.Fatalf("RoleForTag(%q) = %s, want %s", tc.tag, got, tc.want)
		}
	}
}

func TestRolesForTags_EmptyAssignsUser(t *testing.T) {
	for _, tags := range [][]string{nil, {}} {
		roles := RolesForTags(tags)
		if len(roles) != 1 || roles[0] != RoleUser {
			t.Fatalf("RolesForTags(%v) = %v, want [%s]", tags, roles, RoleUser)
		}
	}
}

func TestRolesForTags_NoImplicitUser(t *testing.T) {
	roles := RolesForTags([]string{"admin", "mod"})
	if len(roles) != 2 {
		t.Fatalf("expected exactly 2 roles, got %v", roles)
	}
	if roles[0] != RoleAdmin || roles[1] != RoleModerator {
		t.Fatalf("expected [ADMIN MODERATOR], got %v", roles)
	}
}

func TestRolesForTags_Deduplicates(t *testing.T) {
	roles := RolesForTags([]string{"user", "unknown", "admin", "admin"})
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles after dedup, got %v", roles)
	}
	if roles[0] != RoleUser || roles[1] != RoleAdmin {
		t.Fatalf("expected [USER ADMIN], got %v", roles)
	}
}

func TestPrincipal_HasAnyRole(t *testing.T) {
	p := &Principal{Roles: []Role{RoleUser}}

	if !p.HasAnyRole(RoleUser, RoleModerator, RoleAdmin) {
		t.Fatalf("USER principal should satisfy a predicate including USER")
	}
	if p.HasAnyRole(RoleAdmin) {
		t.Fatalf("USER principal must not satisfy an ADMIN-only predicate")
	}
	if p.HasAnyRole() {
		t.Fatalf("empty predicate must never be satisfied")
	}
}
