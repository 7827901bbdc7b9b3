package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolesim/handler"
)

func textComponent(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		accept string
		want   bool
	}{
		{"plain request", "/", "text/html", false},
		{"event stream accept", "/", "text/event-stream", true},
		{"datastar query", "/role/stream?datastar=%7B%7D", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, handler.IsDataStar(r))
		})
	}
}

func TestTempl(t *testing.T) {
	t.Parallel()

	t.Run("renders html", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		err := handler.Templ(textComponent(`<p id="role-panel">Administrador</p>`)).Render(rec, req)
		require.NoError(t, err)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `<p id="role-panel">Administrador</p>`, rec.Body.String())
	})

	t.Run("patches element for datastar", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "text/event-stream")

		resp := handler.Templ(textComponent(`<p id="role-panel">Revisor</p>`), handler.WithTarget("#role-panel"))
		require.NoError(t, resp.Render(rec, req))

		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "#role-panel")
		assert.Contains(t, body, "Revisor")
	})

	t.Run("render error", func(t *testing.T) {
		failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return assert.AnError })
		err := handler.Templ(failing).Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, assert.AnError)
	})
}
