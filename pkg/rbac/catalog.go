package rbac

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog is the immutable, ordered set of roles available for simulation.
// It is built once at startup and shared without locking.
type Catalog struct {
	roles []Role
	index map[string]int
}

type catalogFile struct {
	Roles []Role `yaml:"roles" validate:"required,min=1,dive"`
}

// NewCatalog validates the roles and returns a catalog holding deep copies of them,
// so later changes to the input do not leak into the catalog.
func NewCatalog(roles ...Role) (*Catalog, error) {
	if err := validate.Struct(catalogFile{Roles: roles}); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	c := &Catalog{
		roles: make([]Role, 0, len(roles)),
		index: make(map[string]int, len(roles)),
	}
	for _, r := range roles {
		if _, exists := c.index[r.ID]; exists {
			return nil, errors.Join(ErrInvalidCatalog, ErrDuplicateRole, fmt.Errorf("role %q declared twice", r.ID))
		}
		c.index[r.ID] = len(c.roles)
		c.roles = append(c.roles, cloneRole(r))
	}

	return c, nil
}

// MustNewCatalog is like NewCatalog but panics on invalid input.
// Intended for static catalogs declared in code.
func MustNewCatalog(roles ...Role) *Catalog {
	c, err := NewCatalog(roles...)
	if err != nil {
		panic(fmt.Sprintf("rbac: invalid catalog: %v", err))
	}
	return c
}

// LoadCatalogYAML reads a catalog from YAML of the form:
//
//	roles:
//	  - id: admin
//	    name: admin
//	    display_name: Administrator
//	    level: 1
//	    permissions:
//	      - id: admin-panel
//	        resource: admin
//	        actions: [read, write]
func LoadCatalogYAML(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	return NewCatalog(file.Roles...)
}

// Lookup finds a role by exact id match.
// The returned role belongs to the catalog and must not be modified.
func (c *Catalog) Lookup(id string) (*Role, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.roles[i], true
}

// Has reports whether the catalog contains a role with the given id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Roles returns the roles in catalog order.
// The slice is a copy; the roles inside it share permission data with the catalog
// and must be treated as read-only.
func (c *Catalog) Roles() []Role {
	return slices.Clone(c.roles)
}

// Len returns the number of roles.
func (c *Catalog) Len() int {
	return len(c.roles)
}

func cloneRole(r Role) Role {
	perms := make([]Permission, len(r.Permissions))
	for i, p := range r.Permissions {
		perms[i] = Permission{
			ID:       p.ID,
			Name:     p.Name,
			Resource: p.Resource,
			Actions:  slices.Clone(p.Actions),
		}
	}
	r.Permissions = perms
	return r
}
