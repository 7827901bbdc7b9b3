package handler

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
)

// Path binds chi URL parameters into string fields tagged `path:"name"`.
// Requests without a chi route context are left untouched.
//
//	type SwitchRequest struct {
//		RoleID string `path:"id"`
//	}
func Path() Bind {
	return func(r *http.Request, v any) error {
		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return ErrBinderNotApplicable
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("%w: path binder expects a pointer to struct, got %T", ErrBadRequest, v)
		}
		rv = rv.Elem()
		rt := rv.Type()

		for i := range rt.NumField() {
			field := rt.Field(i)
			name := field.Tag.Get("path")
			if name == "" || name == "-" || !field.IsExported() {
				continue
			}
			if field.Type.Kind() != reflect.String {
				return fmt.Errorf("%w: path field %s must be a string", ErrBadRequest, field.Name)
			}
			rv.Field(i).SetString(rctx.URLParam(name))
		}
		return nil
	}
}
