// Package handler provides type-safe HTTP handlers for the rolesim API and pages.
//
// A HandlerFunc receives a Context and a typed request value filled by Bind
// functions, and returns a Response that renders itself:
//
//	type SwitchRequest struct {
//		RoleID string `path:"id"`
//	}
//
//	r.Post("/role/{id}", handler.Wrap(
//		func(ctx handler.Context, req SwitchRequest) handler.Response {
//			if _, err := selector.Select(ctx, req.RoleID); err != nil {
//				return handler.JSONError(errors.Join(handler.ErrNotFound, err))
//			}
//			return handler.JSON(selector.State())
//		},
//		handler.WithBinders[handler.Context, SwitchRequest](handler.Path()),
//	))
//
// JSON bodies share the JSONResponse envelope ({"data", "meta", "error"}).
// HTTPError values carry a status code and a machine-readable key; JSONError
// and NewErrorHandler render them with that status. Empty writes a bare 204.
//
// Templ renders an a-h/templ component as a page, or as a datastar element
// patch when IsDataStar reports a datastar request. SSE keeps the connection
// open and hands the handler a StreamContext for pushing components and
// signals until the client disconnects.
package handler
