package visibility

import (
	"slices"

	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Condition decides whether a fragment is shown for a snapshot.
type Condition interface {
	ShouldRender(st rbac.State) bool
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(st rbac.State) bool

func (f ConditionFunc) ShouldRender(st rbac.State) bool {
	return f(st)
}

// RoleCondition renders when the current role is one of ids.
func RoleCondition(ids ...string) Condition {
	ids = slices.Clone(ids)
	return ConditionFunc(func(st rbac.State) bool {
		return st.HasRole(ids...)
	})
}

// PermissionCondition renders when the current role holds every given action
// on resource. Without actions it checks rbac.ActionRead.
func PermissionCondition(resource string, actions ...rbac.Action) Condition {
	if len(actions) == 0 {
		actions = []rbac.Action{rbac.ActionRead}
	}
	checks := make([]rbac.PermissionCheck, len(actions))
	for i, a := range actions {
		checks[i] = rbac.PermissionCheck{Resource: resource, Action: a}
	}
	return ConditionFunc(func(st rbac.State) bool {
		return st.HasAllPermissions(checks...)
	})
}

// AnyPermissionCondition renders when at least one check passes.
func AnyPermissionCondition(checks ...rbac.PermissionCheck) Condition {
	checks = slices.Clone(checks)
	return ConditionFunc(func(st rbac.State) bool {
		return st.HasAnyPermission(checks...)
	})
}
