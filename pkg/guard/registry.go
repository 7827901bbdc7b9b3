package guard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Route is a navigable path with its access requirement.
type Route struct {
	Path        string `validate:"required,startswith=/"`
	Requirement rbac.RouteRequirement
}

// Registry holds the guarded routes of an application.
// Routes are registered at startup and looked up by exact path.
type Registry struct {
	catalog *rbac.Catalog

	mu     sync.RWMutex
	routes []Route
	index  map[string]int
}

// NewRegistry creates an empty registry whose role requirements are checked
// against catalog.
func NewRegistry(catalog *rbac.Catalog) *Registry {
	if catalog == nil {
		catalog = rbac.DefaultCatalog()
	}
	return &Registry{
		catalog: catalog,
		index:   make(map[string]int),
	}
}

// Register validates and adds routes. Either every route is added or none.
func (r *Registry) Register(routes ...Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		if err := validate.Struct(route); err != nil {
			return errors.Join(ErrInvalidRoute, fmt.Errorf("route %q: %w", route.Path, err))
		}
		if _, dup := r.index[route.Path]; dup {
			return errors.Join(ErrDuplicateRoute, fmt.Errorf("route %q", route.Path))
		}
		if _, dup := seen[route.Path]; dup {
			return errors.Join(ErrDuplicateRoute, fmt.Errorf("route %q", route.Path))
		}
		seen[route.Path] = struct{}{}

		for _, id := range route.Requirement.RequiredRoles {
			if !r.catalog.Has(id) {
				return errors.Join(ErrUnknownRole, fmt.Errorf("route %q requires %q", route.Path, id))
			}
		}
	}

	for _, route := range routes {
		r.index[route.Path] = len(r.routes)
		r.routes = append(r.routes, cloneRoute(route))
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(routes ...Route) *Registry {
	if err := r.Register(routes...); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the route registered for path.
func (r *Registry) Lookup(path string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[path]
	if !ok {
		return Route{}, false
	}
	return cloneRoute(r.routes[i]), true
}

// Routes returns the registered routes in registration order.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, len(r.routes))
	for i, route := range r.routes {
		out[i] = cloneRoute(route)
	}
	return out
}

func cloneRoute(r Route) Route {
	r.Requirement.RequiredRoles = append([]string(nil), r.Requirement.RequiredRoles...)
	r.Requirement.RequiredPermissions = append([]string(nil), r.Requirement.RequiredPermissions...)
	return r
}
