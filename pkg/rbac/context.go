package rbac

import "context"

// stateCtxKey is the context key for the role state snapshot.
type stateCtxKey struct{}

// WithState stores a role state snapshot in the context.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, stateCtxKey{}, s)
}

// StateFromContext retrieves the snapshot stored by WithState.
func StateFromContext(ctx context.Context) (State, bool) {
	s, ok := ctx.Value(stateCtxKey{}).(State)
	return s, ok
}

// RoleIDFromContext returns the current role id of the stored snapshot, if any.
func RoleIDFromContext(ctx context.Context) (string, bool) {
	s, ok := StateFromContext(ctx)
	if !ok || s.CurrentRole == nil {
		return "", false
	}
	return s.CurrentRole.ID, true
}
