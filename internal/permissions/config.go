// Package permissions holds the static permission catalog: which actions
// exist per resource, how permissions are grouped for the UI, and the
// declarative rules the default roles are seeded from.
package permissions

import "fmt"

type ResourceConfig struct {
	DisplayName string
	Description string
	// Actions maps an action name to its human-readable label. An empty map
	// means the resource takes DefaultActions.
	Actions map[string]string
}

type GroupConfig struct {
	DisplayName string
	Description string
	Resources   []string
}

// DefaultActions are the labels used when a resource does not override an
// action's label.
var DefaultActions = map[string]string{
	"view":   "View records",
	"create": "Create new records",
	"update": "Update existing records",
	"delete": "Delete records",
}

var Resources = map[string]ResourceConfig{
	"users": {
		DisplayName: "Users",
		Description: "Manage system users",
		Actions: map[string]string{
			"view":   "View users",
			"create": "Create new users",
			"update": "Update existing users",
			"delete": "Delete users",
		},
	},
	"roles": {
		DisplayName: "Roles",
		Description: "Manage user roles",
		Actions: map[string]string{
			"view":   "View roles",
			"create": "Create new roles",
			"update": "Update existing roles",
			"delete": "Delete roles",
		},
	},
	"permissions": {
		DisplayName: "Permissions",
		Description: "Manage permissions",
		Actions: map[string]string{
			"view":   "View permissions",
			"create": "Create new permissions",
			"update": "Update existing permissions",
			"delete": "Delete permissions",
		},
	},
	"todos": {
		DisplayName: "Todo Items",
		Description: "Manage todo items",
		Actions: map[string]string{
			"view":   "View todo items",
			"create": "Create new todo items",
			"update": "Update existing todo items",
			"delete": "Delete todo items",
		},
	},
}

var Groups = map[string]GroupConfig{
	"user-management": {
		DisplayName: "User Management",
		Description: "User and role management permissions",
		Resources:   []string{"users", "roles", "permissions"},
	},
	"content-management": {
		DisplayName: "Content Management",
		Description: "Content related permissions",
		Resources:   []string{"todos"},
	},
}

// GroupOrder lists the group keys in the order admin forms render them.
func GroupOrder() []string {
	return []string{"user-management", "content-management"}
}

// Name builds the canonical permission name for an (action, resource) pair.
func Name(action, resource string) string {
	return action + "-" + resource
}

// GroupFor returns the group tag a resource belongs to, or "" when ungrouped.
func GroupFor(resource string) string {
	for key, group := range Groups {
		for _, r := range group.Resources {
			if r == resource {
				return key
			}
		}
	}
	return ""
}

// Definition is one derived permission record: the (action, resource) pair
// expanded against the catalog.
type Definition struct {
	Name        string
	DisplayName string
	Group       string
}

// Definitions expands the catalog into one Definition per (resource, action)
// pair. An action with a label in neither the resource config nor
// DefaultActions is a configuration bug and fails loudly.
func Definitions() ([]Definition, error) {
	var defs []Definition
	for resource, cfg := range Resources {
		actions := cfg.Actions
		if len(actions) == 0 {
			actions = DefaultActions
		}
		for action := range actions {
			label := actions[action]
			if label == "" {
				label = DefaultActions[action]
			}
			if label == "" {
				return nil, fmt.Errorf("permissions: action %q on resource %q has no label configured", action, resource)
			}
			defs = append(defs, Definition{
				Name:        Name(action, resource),
				DisplayName: label,
				Group:       GroupFor(resource),
			})
		}
	}
	return defs, nil
}
