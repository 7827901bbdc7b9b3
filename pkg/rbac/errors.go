package rbac

import "errors"

// Domain errors for the role model and evaluator.
var (
	// ErrRoleNotFound is returned when a role id is not part of the catalog.
	ErrRoleNotFound = errors.New("rbac.role_not_found")

	// ErrInvalidCatalog is returned when catalog data fails validation.
	ErrInvalidCatalog = errors.New("rbac.invalid_catalog")

	// ErrDuplicateRole is returned when two catalog roles share an id.
	ErrDuplicateRole = errors.New("rbac.duplicate_role")

	// ErrInvalidAction is returned when a string is not a known permission action.
	ErrInvalidAction = errors.New("rbac.invalid_action")

	// ErrPermissionNotEnforced marks route permission strings that were declared but not evaluated.
	ErrPermissionNotEnforced = errors.New("rbac.permission_not_enforced")

	// ErrClaimsNotSupported is returned by the claims ingestion extension point.
	ErrClaimsNotSupported = errors.New("rbac.claims_not_supported")
)
