package guard

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/metrics"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// DefaultFallback is where denied attempts are sent unless WithFallback is used.
const DefaultFallback = "/"

// ReasonNoRole is the denial reason when no role is selected. Role and
// permission denials are "Required role: a,b" and "Required permission: p".
const (
	ReasonNoRole           = "No role assigned"
	reasonRolePrefix       = "Required role: "
	reasonPermissionPrefix = "Required permission: "
)

// Source provides the current role snapshot.
type Source interface {
	State() rbac.State
}

// Decision is the outcome of one guard evaluation.
type Decision struct {
	Phase  Phase
	Reason string
	// Redirect is set for denied attempts.
	Redirect *Redirect
	// State is the snapshot the decision was made on.
	State rbac.State
}

// Granted reports whether access was allowed.
func (d Decision) Granted() bool {
	return d.Phase == PhaseGranted
}

// Guard decides whether the current role may enter a route.
type Guard struct {
	source    Source
	navigator Navigator
	fallback  string
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Guard.
type Option func(*Guard)

// WithNavigator sets the navigator used by CanActivate and CanLoad on denial.
func WithNavigator(n Navigator) Option {
	return func(g *Guard) {
		if n != nil {
			g.navigator = n
		}
	}
}

// WithFallback sets the path denied attempts are redirected to.
func WithFallback(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.fallback = path
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// WithMetrics records decisions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// New creates a guard reading snapshots from source.
func New(source Source, opts ...Option) *Guard {
	g := &Guard{
		source:    source,
		navigator: nopNavigator{},
		fallback:  DefaultFallback,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(logger.Component("guard"))
	return g
}

// CanActivate evaluates route for url and navigates away on denial.
func (g *Guard) CanActivate(ctx context.Context, route Route, url string) bool {
	d := g.Evaluate(ctx, route, url)
	if !d.Granted() {
		g.navigate(ctx, d)
	}
	return d.Granted()
}

// CanLoad is CanActivate for lazily loaded route trees; the url is the
// segments joined with "/".
func (g *Guard) CanLoad(ctx context.Context, route Route, segments []string) bool {
	return g.CanActivate(ctx, route, strings.Join(segments, "/"))
}

// Evaluate reads one snapshot and decides. It has no navigation side effect.
func (g *Guard) Evaluate(ctx context.Context, route Route, url string) Decision {
	st := g.source.State()
	a := newAttempt()
	if err := a.resolve(denialReason(st, route.Requirement)); err != nil {
		g.log.ErrorContext(ctx, "guard attempt not resolved", logger.URL(url), logger.Error(err))
	}
	d := a.decision(st, g.fallback, url)

	if !d.Granted() {
		g.metrics.GuardDecision(false)
		g.log.WarnContext(ctx, "access denied",
			logger.URL(url),
			logger.Reason(d.Reason),
			logger.RoleID(st.RoleID()),
		)
		return d
	}

	if len(route.Requirement.RequiredPermissions) > 0 && !rbac.PermissionRequirementEnforced {
		g.log.WarnContext(ctx, "route permission requirement skipped",
			logger.URL(url),
			slog.String("required_permissions", strings.Join(route.Requirement.RequiredPermissions, ",")),
			logger.Error(rbac.ErrPermissionNotEnforced),
		)
	}

	g.metrics.GuardDecision(true)
	g.log.DebugContext(ctx, "access granted",
		logger.URL(url),
		logger.Group("role",
			logger.RoleID(st.RoleID()),
			slog.String("display_name", st.CurrentRole.DisplayName),
		),
	)
	return d
}

func denialReason(st rbac.State, req rbac.RouteRequirement) string {
	if st.CurrentRole == nil {
		return ReasonNoRole
	}
	if len(req.RequiredRoles) > 0 && !st.HasRole(req.RequiredRoles...) {
		return reasonRolePrefix + strings.Join(req.RequiredRoles, ",")
	}
	if len(req.RequiredPermissions) > 0 && !st.CanAccessRoute(req) {
		return reasonPermissionPrefix + strings.Join(req.RequiredPermissions, ",")
	}
	return ""
}

func (g *Guard) navigate(ctx context.Context, d Decision) {
	if d.Redirect == nil {
		return
	}
	if err := g.navigator.Navigate(ctx, *d.Redirect); err != nil {
		g.log.ErrorContext(ctx, "redirect failed",
			logger.URL(d.Redirect.URL()),
			logger.Error(errors.Join(ErrNavigationFailed, err)),
		)
	}
}
