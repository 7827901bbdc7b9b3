// Package guard decides whether the simulated role may enter a route.
//
// Routes and their rbac.RouteRequirement are declared once in a Registry,
// which rejects malformed paths, duplicates and roles missing from the
// catalog. A Guard evaluates a route against a single snapshot read from its
// Source:
//
//  1. no current role: denied with "No role assigned";
//  2. required roles not matched: denied with "Required role: a,b";
//  3. required permissions not satisfied: denied with "Required permission: p";
//  4. otherwise granted.
//
// Every evaluation is an attempt that starts pending and resolves exactly
// once to granted or denied. A denial carries a Redirect to the fallback path
// with accessDenied, reason and attemptedUrl query parameters.
//
// CanActivate and CanLoad hand that redirect to the Navigator. For HTTP
// servers, Protect wraps a handler and answers denials with 303 See Other:
//
//	g := guard.New(store, guard.WithLogger(log))
//	r := chi.NewRouter()
//	g.Mount(r, registry, pageHandler)
package guard
