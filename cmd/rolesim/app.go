package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/rolesim/handler"
	"github.com/dmitrymomot/rolesim/pkg/guard"
	"github.com/dmitrymomot/rolesim/pkg/httpserver"
	"github.com/dmitrymomot/rolesim/pkg/interceptor"
	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/metrics"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
	"github.com/dmitrymomot/rolesim/pkg/redis"
	"github.com/dmitrymomot/rolesim/pkg/requestid"
	"github.com/dmitrymomot/rolesim/pkg/rolestore"
)

// app holds the wired components of the demo shell.
type app struct {
	cfg      appConfig
	log      *slog.Logger
	metrics  *metrics.Metrics
	store    *rolestore.Store
	selector *rolestore.Selector
	guard    *guard.Guard
	registry *guard.Registry
	client   *http.Client
	ready    []func(context.Context) error
	closers  []func() error
}

// guardedRoutes are the pages protected in the demo.
func guardedRoutes() []guard.Route {
	return []guard.Route{
		{Path: "/gestion-practicas", Requirement: rbac.RouteRequirement{RequiredRoles: []string{rbac.RoleAdmin, rbac.RoleReviewer}}},
		{Path: "/admin", Requirement: rbac.RouteRequirement{RequiredRoles: []string{rbac.RoleAdmin}}},
		{Path: "/mis-practicas", Requirement: rbac.RouteRequirement{RequiredRoles: []string{rbac.RoleStudent, rbac.RoleAdmin}}},
	}
}

func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}

	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	storage, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = rolestore.New(ctx, catalog,
		rolestore.WithStorage(storage),
		rolestore.WithStorageKey(cfg.StorageKey),
		rolestore.WithLogger(log),
		rolestore.WithMetrics(a.metrics),
	)
	a.selector = rolestore.NewSelector(a.store)

	a.registry = guard.NewRegistry(catalog)
	if err := a.registry.Register(guardedRoutes()...); err != nil {
		a.Close()
		return nil, err
	}
	a.guard = guard.New(a.store,
		guard.WithFallback(cfg.GuardFallback),
		guard.WithLogger(log),
		guard.WithMetrics(a.metrics),
	)

	opts := []interceptor.Option{
		interceptor.WithLogger(log),
		interceptor.WithMetrics(a.metrics),
	}
	if len(cfg.SimulatedEndpoint) > 0 {
		opts = append(opts, interceptor.WithSimulatedEndpoints(cfg.SimulatedEndpoint...))
	}
	a.client = interceptor.Client(a.store, opts...)

	return a, nil
}

func loadCatalog(path string) (*rbac.Catalog, error) {
	if path == "" {
		return rbac.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return rbac.LoadCatalogYAML(f)
}

func (a *app) openStorage(ctx context.Context) (rolestore.Storage, error) {
	switch a.cfg.StorageDriver {
	case driverBadger:
		db, err := rolestore.OpenBadger(a.cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.ready = append(a.ready, badgerHealthcheck(db))
		return rolestore.NewBadgerStorage(db), nil
	case driverRedis:
		client, err := redis.Connect(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.ready = append(a.ready, redis.Healthcheck(client))
		return redis.NewStorageWithConfig(client, a.cfg.Redis), nil
	default:
		return rolestore.NewMemoryStorage(), nil
	}
}

func badgerHealthcheck(db *badger.DB) func(context.Context) error {
	return func(context.Context) error {
		if db.IsClosed() {
			return errors.New("badger: database closed")
		}
		return nil
	}
}

// router builds the HTTP surface of the demo.
func (a *app) router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, a.metrics.Middleware)

	r.Get("/health/live", httpserver.HealthCheckHandler(a.log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(a.log, a.ready...))
	r.Handle("/metrics", a.metrics.Handler())

	r.Get("/", handler.Wrap(a.home))
	a.guard.Mount(r, a.registry, handler.Wrap(a.page))

	a.mountRoleAPI(r)

	if a.cfg.UpstreamURL != "" {
		target, err := url.Parse(a.cfg.UpstreamURL)
		if err != nil {
			return nil, fmt.Errorf("parse upstream url: %w", err)
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.Transport = a.client.Transport
		r.Handle("/api/*", proxy)
	}

	return r, nil
}

// watchChanges logs every role change until ctx ends or the store closes.
func (a *app) watchChanges(ctx context.Context) {
	_ = a.followState(ctx, func(st rbac.State) error {
		if st.Changed() {
			a.log.InfoContext(ctx, "simulated role changed",
				logger.RoleID(st.RoleID()),
				slog.Time("changed_at", st.LastChanged),
				logger.Component("watcher"),
			)
		}
		return nil
	})
	a.log.InfoContext(ctx, "role change watcher stopped", logger.Component("watcher"))
}

// followState calls fn with the current snapshot and every later one until
// ctx ends, the store closes or fn fails. A watcher dropped for falling
// behind is replaced and resumes from the current snapshot.
func (a *app) followState(ctx context.Context, fn func(rbac.State) error) error {
	for {
		if err := a.consumeState(ctx, fn); err != nil {
			return err
		}
		if ctx.Err() != nil || a.store.Closed() {
			return nil
		}
		a.log.WarnContext(ctx, "state watcher fell behind, resubscribing", logger.Component("watcher"))
	}
}

func (a *app) consumeState(ctx context.Context, fn func(rbac.State) error) error {
	sub := a.store.Watch(ctx)
	defer sub.Close()

	for msg := range sub.Receive(ctx) {
		if err := fn(msg.Data); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the selector, the store and the storage backend.
func (a *app) Close() {
	if a.selector != nil {
		a.selector.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	errs := make([]error, 0, len(a.closers))
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	if attr := logger.Errors(errs...); !attr.Equal(slog.Attr{}) {
		a.log.Error("close storage", attr)
	}
}
