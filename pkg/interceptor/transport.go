package interceptor

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/metrics"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Headers stamped on outgoing requests.
const (
	HeaderRole        = "X-Simulated-Role"
	HeaderRoleName    = "X-Simulated-Role-Name"
	HeaderPermissions = "X-Simulated-Permissions"
)

// AdminEndpoint marks simulated endpoints that require the admin role.
const AdminEndpoint = "/api/admin/"

// timestampLayout matches ISO-8601 with milliseconds in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// DefaultSimulatedEndpoints is the default allow-list of path substrings.
var DefaultSimulatedEndpoints = []string{
	AdminEndpoint,
	"/api/roles/",
	"/api/permissions/",
}

// Source provides the current role snapshot.
type Source interface {
	State() rbac.State
}

// Transport stamps the simulated role on requests and answers simulated
// endpoints locally.
type Transport struct {
	source    Source
	base      http.RoundTripper
	endpoints []string
	now       func() time.Time
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the transport requests are forwarded to.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		if rt != nil {
			t.base = rt
		}
	}
}

// WithSimulatedEndpoints replaces the allow-list. An empty list disables
// simulation entirely.
func WithSimulatedEndpoints(endpoints ...string) Option {
	return func(t *Transport) {
		t.endpoints = slices.DeleteFunc(slices.Clone(endpoints), func(e string) bool { return e == "" })
	}
}

// WithClock sets the time source of the status timestamp.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMetrics counts synthetic responses.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// New creates a Transport reading the role from source.
func New(source Source, opts ...Option) *Transport {
	t := &Transport{
		source:    source,
		base:      http.DefaultTransport,
		endpoints: slices.Clone(DefaultSimulatedEndpoints),
		now:       time.Now,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(logger.Component("interceptor"))
	return t
}

// Client returns an http.Client using a Transport built from source and opts.
func Client(source Source, opts ...Option) *http.Client {
	return &http.Client{Transport: New(source, opts...)}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	role := t.source.State().CurrentRole

	if role != nil {
		req = req.Clone(req.Context())
		req.Header.Set(HeaderRole, role.ID)
		req.Header.Set(HeaderRoleName, role.DisplayName)
		req.Header.Set(HeaderPermissions, strings.Join(role.PermissionIDs(), ","))
	}

	if !t.simulated(req.URL.Path) {
		return t.base.RoundTrip(req)
	}

	if req.Body != nil {
		_ = req.Body.Close()
	}
	return t.simulate(req, role)
}

// Simulated reports whether path matches the allow-list.
func (t *Transport) Simulated(path string) bool {
	return t.simulated(path)
}

func (t *Transport) simulated(path string) bool {
	for _, e := range t.endpoints {
		if strings.Contains(path, e) {
			return true
		}
	}
	return false
}

func (t *Transport) simulate(req *http.Request, role *rbac.Role) (*http.Response, error) {
	var (
		code int
		body any
	)

	switch {
	case role == nil:
		code = http.StatusUnauthorized
		body = ErrorBody{Error: "No role assigned", Code: CodeNoRole}
	case strings.Contains(req.URL.Path, AdminEndpoint) && role.ID != rbac.RoleAdmin:
		code = http.StatusForbidden
		body = ErrorBody{Error: "Insufficient permissions", Code: CodeAdminRequired}
	case strings.Contains(req.URL.Path, AdminEndpoint):
		code = http.StatusOK
		body = AdminBody{
			Success:     true,
			Data:        AdminData{Message: "Admin access granted", Role: role.DisplayName},
			Permissions: role.Permissions,
		}
	default:
		code = http.StatusOK
		body = StatusBody{
			Success:     true,
			Message:     "Role simulation active",
			CurrentRole: role.DisplayName,
			Timestamp:   t.now().UTC().Format(timestampLayout),
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode simulated response: %w", err)
	}

	t.metrics.SimulatedResponse(code)
	t.log.DebugContext(req.Context(), "simulated response",
		logger.URL(req.URL.Path),
		slog.Int("status", code),
		logger.RoleID(roleID(role)),
	)

	return &http.Response{
		Status:     strconv.Itoa(code) + " " + http.StatusText(code),
		StatusCode: code,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header: http.Header{
			"Content-Type": {"application/json"},
		},
		Body:          io.NopCloser(bytes.NewReader(payload)),
		ContentLength: int64(len(payload)),
		Request:       req,
	}, nil
}

func roleID(r *rbac.Role) string {
	if r == nil {
		return ""
	}
	return r.ID
}
