package rbac

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Action is a verb from the closed permission-action enumeration.
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionExport  Action = "export"
)

// Actions lists every known action in declaration order.
var Actions = []Action{
	ActionRead,
	ActionWrite,
	ActionDelete,
	ActionApprove,
	ActionCreate,
	ActionUpdate,
	ActionExport,
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDelete, ActionApprove, ActionCreate, ActionUpdate, ActionExport:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ParseAction converts a string to an Action, case-insensitive.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", errors.Join(ErrInvalidAction, fmt.Errorf("unknown action %q", s))
	}
	return a, nil
}

// Permission grants a set of actions on a single resource.
type Permission struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Name     string   `yaml:"name" json:"name"`
	Resource string   `yaml:"resource" json:"resource" validate:"required"`
	Actions  []Action `yaml:"actions" json:"actions" validate:"required,min=1,dive,oneof=read write delete approve create update export"`
}

// Allows reports whether the permission contains the action.
func (p Permission) Allows(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Role is a named bundle of permissions. Level 1 is the highest authority.
// Roles are immutable once they are part of a Catalog.
type Role struct {
	ID          string       `yaml:"id" json:"id" validate:"required"`
	Name        string       `yaml:"name" json:"name" validate:"required"`
	DisplayName string       `yaml:"display_name" json:"displayName" validate:"required"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Level       int          `yaml:"level" json:"level" validate:"gte=1"`
	Permissions []Permission `yaml:"permissions" json:"permissions" validate:"dive"`
}

// PermissionIDs returns the ids of the role's permissions in declaration order.
func (r Role) PermissionIDs() []string {
	ids := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.ID)
	}
	return ids
}

// State is an immutable snapshot of the simulated actor.
// A zero LastChanged means the snapshot was not produced by a change
// (initial default or restoration from persistence).
//
// Each snapshot owns its AvailableRoles slice. CurrentRole and the
// permissions inside the roles belong to the catalog and are read-only.
type State struct {
	CurrentRole    *Role
	AvailableRoles []Role
	IsSimulated    bool
	LastChanged    time.Time
}

// Changed reports whether the snapshot carries a change timestamp.
func (s State) Changed() bool {
	return !s.LastChanged.IsZero()
}

// RoleID returns the current role id or an empty string.
func (s State) RoleID() string {
	if s.CurrentRole == nil {
		return ""
	}
	return s.CurrentRole.ID
}

// PermissionCheck pairs a resource with an action for composed checks.
type PermissionCheck struct {
	Resource string
	Action   Action
}

// RouteRequirement is the declarative access requirement attached to a route.
type RouteRequirement struct {
	RequiredRoles       []string `validate:"omitempty,dive,required"`
	RequiredPermissions []string `validate:"omitempty,dive,required"`
	// RequireAll selects AND composition for RequiredPermissions (OR otherwise).
	RequireAll bool
}

// Empty reports whether the requirement declares nothing.
func (r RouteRequirement) Empty() bool {
	return len(r.RequiredRoles) == 0 && len(r.RequiredPermissions) == 0
}

// Claims describes externally issued identity claims.
// It is the planned replacement for the simulated catalog lookup and is not
// consumed by any component yet.
type Claims struct {
	Subject     string    `json:"sub"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	IssuedAt    time.Time `json:"iat"`
	ExpiresAt   time.Time `json:"exp"`
}
