package permissions

import "strings"

// RoleRule is a declarative predicate over permission names. Exactly the
// fields that are set participate in the match:
//   - AllowAll grants every permission
//   - NameExcludes rejects names containing any listed substring
//   - NameContains requires the name to contain the substring
//   - Actions, when non-empty, additionally restricts the action prefix
//
// Rules are data rather than closures so seeding stays deterministic and the
// default role set can be inspected and tested.
type RoleRule struct {
	Role         string
	AllowAll     bool
	NameExcludes []string
	NameContains string
	Actions      []string
}

// Matches reports whether the rule grants the named permission.
func (r RoleRule) Matches(name string) bool {
	if r.AllowAll {
		return true
	}
	for _, sub := range r.NameExcludes {
		if strings.Contains(name, sub) {
			return false
		}
	}
	if len(r.NameExcludes) > 0 && r.NameContains == "" {
		return true
	}
	if r.NameContains != "" && !strings.Contains(name, r.NameContains) {
		return false
	}
	if len(r.Actions) > 0 {
		action, _, ok := strings.Cut(name, "-")
		if !ok {
			return false
		}
		found := false
		for _, a := range r.Actions {
			if a == action {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return r.NameContains != ""
}

// DefaultRoleRules are the well-known roles seeded on every deployment.
var DefaultRoleRules = []RoleRule{
	{Role: "super-admin", AllowAll: true},
	{Role: "admin", NameExcludes: []string{"roles"}},
	{Role: "moderator", NameContains: "todos"},
	{Role: "user", NameContains: "todos", Actions: []string{"view", "create", "update", "delete"}},
}
