package main

import (
	"errors"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/rolesim/handler"
	"github.com/dmitrymomot/rolesim/pkg/guard"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
	"github.com/dmitrymomot/rolesim/pkg/visibility"
)

type stateResponse struct {
	CurrentRole    *rbac.Role  `json:"currentRole"`
	AvailableRoles []rbac.Role `json:"availableRoles"`
	IsSimulated    bool        `json:"isSimulated"`
	LastChanged    *time.Time  `json:"lastChanged,omitempty"`
}

func newStateResponse(st rbac.State) stateResponse {
	resp := stateResponse{
		CurrentRole:    st.CurrentRole,
		AvailableRoles: st.AvailableRoles,
		IsSimulated:    st.IsSimulated,
	}
	if st.Changed() {
		changed := st.LastChanged
		resp.LastChanged = &changed
	}
	return resp
}

type switchRequest struct {
	RoleID string `path:"id"`
}

func (a *app) mountRoleAPI(r chi.Router) {
	onError := handler.NewErrorHandler(a.log)

	r.Get("/role", handler.Wrap(
		func(ctx handler.Context, _ struct{}) handler.Response {
			return handler.JSON(newStateResponse(a.store.State()))
		},
		handler.WithErrorHandler[handler.Context, struct{}](onError),
	))

	r.Post("/role/{id}", handler.Wrap(
		func(ctx handler.Context, req switchRequest) handler.Response {
			if err := a.selector.Select(ctx, req.RoleID); err != nil {
				if errors.Is(err, rbac.ErrRoleNotFound) {
					return handler.JSONError(errors.Join(handler.ErrNotFound, err))
				}
				return handler.JSONError(err)
			}
			return handler.JSON(newStateResponse(a.store.State()))
		},
		handler.WithBinders[handler.Context, switchRequest](handler.Path()),
		handler.WithErrorHandler[handler.Context, switchRequest](onError),
	))

	r.Get("/role/stream", handler.Wrap(a.streamRole,
		handler.WithErrorHandler[handler.Context, struct{}](onError),
	))

	r.Delete("/role", handler.Wrap(
		func(ctx handler.Context, _ struct{}) handler.Response {
			a.selector.Clear(ctx)
			return handler.Empty()
		},
		handler.WithErrorHandler[handler.Context, struct{}](onError),
	))
}

// home renders the landing page, including the access-denied banner set by
// guard redirects and the admin-only link.
func (a *app) home(ctx handler.Context, _ struct{}) handler.Response {
	adminLink := visibility.NewViewContainer(func() string {
		return `<a href="/admin">Administración</a>`
	})
	directive := visibility.HasRole(a.store, adminLink, rbac.RoleAdmin)
	directive.Activate()
	defer directive.Deactivate()

	var notice *deniedNotice
	if q := ctx.Request().URL.Query(); q.Get(guard.QueryAccessDenied) == "true" {
		notice = &deniedNotice{
			Reason:       q.Get(guard.QueryReason),
			AttemptedURL: q.Get(guard.QueryAttemptedURL),
		}
	}

	return handler.Templ(homePage(a.store.State(), notice, adminLink.String()))
}

// page renders a guarded page for the role carried by the request.
func (a *app) page(ctx handler.Context, _ struct{}) handler.Response {
	role, _ := rbac.RoleIDFromContext(ctx)
	return handler.Templ(guardedPage(ctx.Request().URL.Path, role))
}

// streamRole pushes the role panel and role signals to a datastar client on
// every change, starting with the current snapshot.
func (a *app) streamRole(ctx handler.Context, _ struct{}) handler.Response {
	return handler.SSE(func(stream handler.StreamContext) error {
		err := a.followState(stream, func(st rbac.State) error {
			if err := stream.SendComponent(rolePanel(st), handler.WithTarget("#"+rolePanelID)); err != nil {
				return err
			}
			return stream.SendSignals(map[string]any{
				"role":    st.RoleID(),
				"isAdmin": st.HasRole(rbac.RoleAdmin),
			})
		})
		if stream.Err() != nil {
			// Client went away mid-write.
			return nil
		}
		return err
	})
}
