package guard

import "errors"

var (
	// ErrInvalidRoute is returned when a route fails validation.
	ErrInvalidRoute = errors.New("guard.invalid_route")

	// ErrDuplicateRoute is returned when a path is registered twice.
	ErrDuplicateRoute = errors.New("guard.duplicate_route")

	// ErrUnknownRole is returned when a route requires a role missing from the catalog.
	ErrUnknownRole = errors.New("guard.unknown_role")

	// ErrNavigationFailed wraps errors returned by a Navigator.
	ErrNavigationFailed = errors.New("guard.navigation_failed")
)
