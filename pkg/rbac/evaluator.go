package rbac

import "slices"

// PermissionRequirementEnforced reports whether RouteRequirement.RequiredPermissions
// take part in CanAccessRoute. The permission string format is not defined yet,
// so declared permission strings never deny access.
const PermissionRequirementEnforced = false

// HasRole reports whether the current role id is one of ids.
// It is always false without a current role.
func (s State) HasRole(ids ...string) bool {
	if s.CurrentRole == nil {
		return false
	}
	return slices.Contains(ids, s.CurrentRole.ID)
}

// HasPermission reports whether any permission entry of the current role
// covers the resource and contains the action.
func (s State) HasPermission(resource string, action Action) bool {
	if s.CurrentRole == nil {
		return false
	}
	for _, p := range s.CurrentRole.Permissions {
		if p.Resource == resource && p.Allows(action) {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one check passes. Empty input is false.
func (s State) HasAnyPermission(checks ...PermissionCheck) bool {
	for _, c := range checks {
		if s.HasPermission(c.Resource, c.Action) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every check passes. Empty input is true.
func (s State) HasAllPermissions(checks ...PermissionCheck) bool {
	for _, c := range checks {
		if !s.HasPermission(c.Resource, c.Action) {
			return false
		}
	}
	return true
}

// ResourcePermissions returns the actions granted on resource, merged across
// every matching permission entry in first-seen order.
func (s State) ResourcePermissions(resource string) []Action {
	if s.CurrentRole == nil {
		return []Action{}
	}
	actions := make([]Action, 0, len(Actions))
	for _, p := range s.CurrentRole.Permissions {
		if p.Resource != resource {
			continue
		}
		for _, a := range p.Actions {
			if !slices.Contains(actions, a) {
				actions = append(actions, a)
			}
		}
	}
	return actions
}

// CanAccessRoute evaluates a route requirement.
// A requirement that declares nothing is always satisfied. Declared roles must
// match the current role. Declared permission strings are not evaluated
// (see PermissionRequirementEnforced).
func (s State) CanAccessRoute(req RouteRequirement) bool {
	if req.Empty() {
		return true
	}
	if len(req.RequiredRoles) > 0 && !s.HasRole(req.RequiredRoles...) {
		return false
	}
	return true
}
