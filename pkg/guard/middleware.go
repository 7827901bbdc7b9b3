package guard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Protect returns middleware guarding route. Denied requests are redirected
// with 303 See Other to the fallback; granted requests carry the evaluated
// snapshot in their context (see rbac.StateFromContext).
func (g *Guard) Protect(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(r.Context(), route, r.URL.RequestURI())
			if !d.Granted() {
				http.Redirect(w, r, d.Redirect.URL(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithState(r.Context(), d.State)))
		})
	}
}

// Mount registers handler on r for every route in reg, each behind Protect.
func (g *Guard) Mount(r chi.Router, reg *Registry, handler http.Handler) {
	for _, route := range reg.Routes() {
		r.With(g.Protect(route)).Handle(route.Path, handler)
	}
}
