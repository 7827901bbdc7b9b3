package logger

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// RoleExtractor logs the simulated role carried by ctx, if any.
func RoleExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		st, ok := rbac.StateFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return RoleID(st.RoleID()), true
	}
}
