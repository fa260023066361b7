package domain

// Role is one of the three seeded authorization roles. The set is closed:
// roles are reference data created once at startup and never mutated by
// request flows.
type Role string

const (
	RoleUser      Role = "ROLE_USER"
	RoleModerator Role = "ROLE_MODERATOR"
	RoleAdmin     Role = "ROLE_ADMIN"
)

// AllRoles lists every seeded role, in seed order.
var AllRoles = []Role{RoleUser, RoleModerator, RoleAdmin}

// RoleRecord is a seeded role row: a stable storage identifier plus the
// canonical role name.
type RoleRecord struct {
	ID   string
	Name Role
}

// roleTags maps a registration tag to its canonical role. Tags outside the
// table fall back to RoleUser, making RoleForTag total over all input.
var roleTags = map[string]Role{
	"admin": RoleAdmin,
	"mod":   RoleModerator,
}

// RoleForTag maps one registration tag to a canonical role. Unknown tags
// (including "user") resolve to RoleUser.
func RoleForTag(tag string) Role {
	if role, ok := roleTags[tag]; ok {
		return role
	}
	return RoleUser
}

// RolesForTags maps a set of registration tags to the corresponding role
// set, deduplicated. An empty or nil tag set yields exactly {RoleUser}.
func RolesForTags(tags []string) []Role {
	if len(tags) == 0 {
		return []Role{RoleUser}
	}

	seen := make(map[Role]struct{}, len(tags))
	roles := make([]Role, 0, len(tags))
	for _, tag := range tags {
		role := RoleForTag(tag)
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles
}
