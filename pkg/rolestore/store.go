package rolestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/rolesim/pkg/broadcast"
	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/metrics"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Store holds the current simulated role and broadcasts every change.
type Store struct {
	catalog   *rbac.Catalog
	available []rbac.Role
	storage   Storage
	key       string
	log       *slog.Logger
	now       func() time.Time
	metrics   *metrics.Metrics

	mu      sync.Mutex // orders staged snapshots with their storage writes
	subject *broadcast.Subject[rbac.State]
}

// New creates a Store over catalog and restores the persisted role, if any.
// Storage read errors are logged and the store starts with no role.
func New(ctx context.Context, catalog *rbac.Catalog, opts ...Option) *Store {
	if catalog == nil {
		catalog = rbac.DefaultCatalog()
	}

	s := &Store{
		catalog:   catalog,
		available: catalog.Roles(),
		storage:   NewMemoryStorage(),
		key:       StorageKey,
		log:       logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("rolestore"))

	s.subject = broadcast.NewSubject(s.restore(ctx))
	return s
}

func (s *Store) restore(ctx context.Context) rbac.State {
	initial := s.snapshot(nil, time.Time{})

	id, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.WarnContext(ctx, "failed to read persisted role",
			logger.StorageKey(s.key),
			logger.Error(errors.Join(ErrStorageFailure, err)),
		)
		return initial
	}
	if id == "" {
		return initial
	}

	role, ok := s.catalog.Lookup(id)
	if !ok {
		s.log.WarnContext(ctx, "ignoring persisted role missing from catalog",
			logger.RoleID(id),
			logger.StorageKey(s.key),
		)
		return initial
	}

	s.log.InfoContext(ctx, "restored simulated role", logger.RoleID(role.ID))
	return s.snapshot(role, time.Time{})
}

func (s *Store) snapshot(role *rbac.Role, changed time.Time) rbac.State {
	return rbac.State{
		CurrentRole:    role,
		AvailableRoles: slices.Clone(s.available),
		IsSimulated:    true,
		LastChanged:    changed,
	}
}

// SwitchRole makes the catalog role with id current, persists id and
// publishes the new snapshot. An unknown id returns rbac.ErrRoleNotFound and
// leaves the state untouched. Switching to the current role publishes again.
// Subscribers may call SwitchRole or ClearRole from their callbacks.
func (s *Store) SwitchRole(ctx context.Context, id string) error {
	role, ok := s.catalog.Lookup(id)
	if !ok {
		s.metrics.RoleSwitchFailed()
		s.log.WarnContext(ctx, "role not found", logger.RoleID(id))
		return errors.Join(rbac.ErrRoleNotFound, fmt.Errorf("role %q", id))
	}

	s.mu.Lock()
	s.subject.Set(s.snapshot(role, s.now()))
	if err := s.storage.Set(ctx, s.key, role.ID); err != nil {
		s.log.ErrorContext(ctx, "failed to persist role",
			logger.RoleID(role.ID),
			logger.StorageKey(s.key),
			logger.Error(errors.Join(ErrStorageFailure, err)),
		)
	}
	s.mu.Unlock()

	s.metrics.RoleSwitched(role.ID)
	s.log.InfoContext(ctx, "role switched",
		logger.RoleID(role.ID),
		slog.String("display_name", role.DisplayName),
	)
	s.subject.Flush()
	return nil
}

// ClearRole drops the current role, removes the persisted record and
// publishes the new snapshot.
func (s *Store) ClearRole(ctx context.Context) {
	s.mu.Lock()
	s.subject.Set(s.snapshot(nil, s.now()))
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.log.ErrorContext(ctx, "failed to remove persisted role",
			logger.StorageKey(s.key),
			logger.Error(errors.Join(ErrStorageFailure, err)),
		)
	}
	s.mu.Unlock()

	s.metrics.RoleCleared()
	s.log.InfoContext(ctx, "role cleared")
	s.subject.Flush()
}

// State returns the latest snapshot.
func (s *Store) State() rbac.State {
	return s.subject.Value()
}

// CurrentRole returns the current role or nil.
func (s *Store) CurrentRole() *rbac.Role {
	return s.State().CurrentRole
}

// AvailableRoles returns the catalog roles in order.
func (s *Store) AvailableRoles() []rbac.Role {
	return s.catalog.Roles()
}

// Catalog returns the catalog the store was built with.
func (s *Store) Catalog() *rbac.Catalog {
	return s.catalog
}

// HasRole reports whether the current role is one of ids.
func (s *Store) HasRole(ids ...string) bool {
	return s.State().HasRole(ids...)
}

// HasPermission reports whether the current role grants action on resource.
func (s *Store) HasPermission(resource string, action rbac.Action) bool {
	return s.State().HasPermission(resource, action)
}

// HasAnyPermission reports whether at least one check passes.
func (s *Store) HasAnyPermission(checks ...rbac.PermissionCheck) bool {
	return s.State().HasAnyPermission(checks...)
}

// HasAllPermissions reports whether every check passes.
func (s *Store) HasAllPermissions(checks ...rbac.PermissionCheck) bool {
	return s.State().HasAllPermissions(checks...)
}

// ResourcePermissions returns the actions the current role holds on resource.
func (s *Store) ResourcePermissions(resource string) []rbac.Action {
	return s.State().ResourcePermissions(resource)
}

// CanAccessRoute evaluates a route requirement against the current snapshot.
func (s *Store) CanAccessRoute(req rbac.RouteRequirement) bool {
	return s.State().CanAccessRoute(req)
}

// Subscribe calls fn with the current snapshot and then with every new one.
func (s *Store) Subscribe(fn func(rbac.State)) *broadcast.Subscription {
	return s.subject.Subscribe(fn)
}

// Watch returns a channel subscriber seeded with the current snapshot.
// Slow readers are dropped.
func (s *Store) Watch(ctx context.Context) broadcast.Subscriber[rbac.State] {
	return s.subject.Watch(ctx)
}

// IntegrateClaims is the hook for replacing simulation with real identity
// claims. It is not implemented and always returns rbac.ErrClaimsNotSupported.
func (s *Store) IntegrateClaims(ctx context.Context, claims rbac.Claims) error {
	s.log.InfoContext(ctx, "claims integration requested",
		slog.String("subject", claims.Subject),
		slog.Int("roles", len(claims.Roles)),
	)
	return rbac.ErrClaimsNotSupported
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	return s.subject.Closed()
}

// Close releases every subscriber. The store must not be mutated afterwards.
func (s *Store) Close() {
	s.subject.Close()
}
