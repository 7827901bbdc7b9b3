// Package rbac defines the role and permission model of the role simulation core
// and the pure access evaluator that every consumer shares.
//
// The model is deliberately small and static:
//
//   - Role: a named bundle of permissions with a hierarchy level (1 = highest authority)
//   - Permission: a grant of one or more actions on an opaque resource identifier
//   - Action: one verb from a closed set (read, write, delete, approve, create, update, export)
//   - Catalog: the immutable, ordered list of roles built once at process start
//   - State: an immutable snapshot of "who the current actor is"
//
// All predicates are methods on State so a caller that already holds a snapshot
// (a route guard, a visibility directive, an outbound request decorator) can
// evaluate it without touching the store again. Identical inputs always yield
// identical results: there are no clocks and no randomness in this package.
//
// Basic usage:
//
//	catalog := rbac.DefaultCatalog()
//	admin, _ := catalog.Lookup("admin")
//
//	state := rbac.State{CurrentRole: admin, AvailableRoles: catalog.Roles(), IsSimulated: true}
//	state.HasRole("admin", "reviewer")                          // true
//	state.HasPermission("carta-presentacion", rbac.ActionApprove) // true
//
//	// Carry the snapshot through a request so downstream code sees the same value.
//	ctx = rbac.WithState(ctx, state)
//
// A catalog can be loaded from YAML at startup instead of using the built-in one:
//
//	f, _ := os.Open("roles.yaml")
//	catalog, err := rbac.LoadCatalogYAML(f)
//
// Route requirements may declare permission strings, but those are not evaluated
// yet: see PermissionRequirementEnforced.
package rbac
