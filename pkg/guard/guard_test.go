package guard_test

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolesim/pkg/guard"
	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/metrics"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
	"github.com/dmitrymomot/rolesim/pkg/rolestore"
)

var practicasRoute = guard.Route{
	Path: "/gestion-practicas",
	Requirement: rbac.RouteRequirement{
		RequiredRoles: []string{rbac.RoleAdmin, rbac.RoleReviewer},
	},
}

func newStore(t *testing.T, role string) *rolestore.Store {
	t.Helper()
	s := rolestore.New(context.Background(), rbac.DefaultCatalog())
	t.Cleanup(s.Close)
	if role != "" {
		require.NoError(t, s.SwitchRole(context.Background(), role))
	}
	return s
}

func TestCanActivate_DeniesStudent(t *testing.T) {
	t.Parallel()

	nav := &guard.RecordingNavigator{}
	g := guard.New(newStore(t, rbac.RoleStudent), guard.WithNavigator(nav))

	ok := g.CanActivate(context.Background(), practicasRoute, "/gestion-practicas/empresas")
	assert.False(t, ok)

	to, found := nav.Last()
	require.True(t, found)
	assert.Equal(t, "/", to.Path)
	assert.Equal(t, "true", to.Query.Get(guard.QueryAccessDenied))
	assert.Equal(t, "Required role: admin,reviewer", to.Query.Get(guard.QueryReason))
	assert.Equal(t, "/gestion-practicas/empresas", to.Query.Get(guard.QueryAttemptedURL))
}

func TestCanActivate_GrantsAdmin(t *testing.T) {
	t.Parallel()

	nav := &guard.RecordingNavigator{}
	g := guard.New(newStore(t, rbac.RoleAdmin), guard.WithNavigator(nav))

	assert.True(t, g.CanActivate(context.Background(), practicasRoute, "/gestion-practicas"))
	assert.Empty(t, nav.Redirects())
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		role       string
		route      guard.Route
		wantPhase  guard.Phase
		wantReason string
	}{
		{
			name:       "no role",
			route:      guard.Route{Path: "/home"},
			wantPhase:  guard.PhaseDenied,
			wantReason: guard.ReasonNoRole,
		},
		{
			name:      "any role passes empty requirement",
			role:      rbac.RoleStudent,
			route:     guard.Route{Path: "/home"},
			wantPhase: guard.PhaseGranted,
		},
		{
			name:      "reviewer in role list",
			role:      rbac.RoleReviewer,
			route:     practicasRoute,
			wantPhase: guard.PhaseGranted,
		},
		{
			name: "single role mismatch",
			role: rbac.RoleReviewer,
			route: guard.Route{Path: "/admin", Requirement: rbac.RouteRequirement{
				RequiredRoles: []string{rbac.RoleAdmin},
			}},
			wantPhase:  guard.PhaseDenied,
			wantReason: "Required role: admin",
		},
		{
			name: "permission strings are not enforced",
			role: rbac.RoleStudent,
			route: guard.Route{Path: "/reports", Requirement: rbac.RouteRequirement{
				RequiredPermissions: []string{"reports:export"},
			}},
			wantPhase: guard.PhaseGranted,
		},
		{
			name: "roles checked before permissions",
			role: rbac.RoleStudent,
			route: guard.Route{Path: "/admin", Requirement: rbac.RouteRequirement{
				RequiredRoles:       []string{rbac.RoleAdmin},
				RequiredPermissions: []string{"admin:read"},
			}},
			wantPhase:  guard.PhaseDenied,
			wantReason: "Required role: admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := guard.New(newStore(t, tt.role))
			d := g.Evaluate(context.Background(), tt.route, tt.route.Path)

			assert.Equal(t, tt.wantPhase, d.Phase)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, tt.role, d.State.RoleID())
			if tt.wantPhase == guard.PhaseDenied {
				require.NotNil(t, d.Redirect)
				assert.False(t, d.Granted())
			} else {
				assert.Nil(t, d.Redirect)
				assert.True(t, d.Granted())
			}
		})
	}
}

func TestCanLoad_JoinsSegments(t *testing.T) {
	t.Parallel()

	nav := &guard.RecordingNavigator{}
	g := guard.New(newStore(t, ""), guard.WithNavigator(nav), guard.WithFallback("/login"))

	assert.False(t, g.CanLoad(context.Background(), practicasRoute, []string{"gestion-practicas", "cartas"}))

	to, ok := nav.Last()
	require.True(t, ok)
	assert.Equal(t, "/login", to.Path)
	assert.Equal(t, "gestion-practicas/cartas", to.Query.Get(guard.QueryAttemptedURL))
	assert.Equal(t, guard.ReasonNoRole, to.Query.Get(guard.QueryReason))
}

func TestRedirect_URLEncodesOnce(t *testing.T) {
	t.Parallel()

	to := guard.Redirect{Path: "/", Query: url.Values{
		guard.QueryReason:       {"Required role: admin,reviewer"},
		guard.QueryAttemptedURL: {"/a b?x=1"},
	}}

	u, err := url.Parse(to.URL())
	require.NoError(t, err)
	assert.Equal(t, "Required role: admin,reviewer", u.Query().Get(guard.QueryReason))
	assert.Equal(t, "/a b?x=1", u.Query().Get(guard.QueryAttemptedURL))

	assert.Equal(t, "/home", guard.Redirect{Path: "/home"}.URL())
}

func TestGuard_FollowsStoreChanges(t *testing.T) {
	t.Parallel()

	store := newStore(t, rbac.RoleStudent)
	g := guard.New(store)

	assert.False(t, g.CanActivate(context.Background(), practicasRoute, "/gestion-practicas"))
	require.NoError(t, store.SwitchRole(context.Background(), rbac.RoleReviewer))
	assert.True(t, g.CanActivate(context.Background(), practicasRoute, "/gestion-practicas"))
	store.ClearRole(context.Background())
	assert.False(t, g.CanActivate(context.Background(), practicasRoute, "/gestion-practicas"))
}

func TestGuard_LogsAndMetrics(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	m := metrics.New()
	g := guard.New(newStore(t, rbac.RoleStudent),
		guard.WithLogger(logger.New(logger.WithOutput(buf))),
		guard.WithMetrics(m),
	)

	g.Evaluate(context.Background(), practicasRoute, "/gestion-practicas")
	g.Evaluate(context.Background(), guard.Route{Path: "/home"}, "/home")

	assert.Contains(t, buf.String(), "access denied")
	assert.Contains(t, buf.String(), "Required role: admin,reviewer")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues(metrics.OutcomeDenied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues(metrics.OutcomeGranted)))
}

func TestGuard_NavigatorError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	nav := guard.NavigatorFunc(func(context.Context, guard.Redirect) error {
		return errors.New("router unavailable")
	})
	g := guard.New(newStore(t, ""),
		guard.WithNavigator(nav),
		guard.WithLogger(logger.New(logger.WithOutput(buf))),
	)

	assert.False(t, g.CanActivate(context.Background(), practicasRoute, "/gestion-practicas"))
	assert.Contains(t, buf.String(), "router unavailable")
}

func TestGuard_PermissionStringsAreNotEnforced(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	g := guard.New(newStore(t, rbac.RoleStudent), guard.WithLogger(logger.New(logger.WithOutput(buf))))

	route := guard.Route{
		Path:        "/reportes",
		Requirement: rbac.RouteRequirement{RequiredPermissions: []string{"reportes:export"}},
	}
	d := g.Evaluate(context.Background(), route, "/reportes")

	assert.True(t, d.Granted())
	assert.Contains(t, buf.String(), "route permission requirement skipped")
	assert.Contains(t, buf.String(), rbac.ErrPermissionNotEnforced.Error())
}
