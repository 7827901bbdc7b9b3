package main

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

const rolePanelID = "role-panel"

// deniedNotice is the banner data carried by a guard redirect.
type deniedNotice struct {
	Reason       string
	AttemptedURL string
}

// layout wraps body in the page shell. The shell opens the role stream so
// the role panel follows switches made elsewhere.
func layout(title string, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!doctype html><html><head><title>%s</title></head><body data-on-load="@get('/role/stream')">`,
			templ.EscapeString(title),
		); err != nil {
			return err
		}
		for _, c := range body {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// rolePanel shows the simulated role. It is the patch target of /role/stream.
func rolePanel(st rbac.State) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		label := "Sin rol simulado"
		if st.CurrentRole != nil {
			label = "Rol simulado: " + st.CurrentRole.DisplayName
		}
		_, err := fmt.Fprintf(w, `<p id="%s">%s</p>`, rolePanelID, templ.EscapeString(label))
		return err
	})
}

func deniedBanner(n *deniedNotice) templ.Component {
	if n == nil {
		return templ.NopComponent
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p role="alert">Acceso denegado: %s (%s)</p>`,
			templ.EscapeString(n.Reason),
			templ.EscapeString(n.AttemptedURL),
		)
		return err
	})
}

func homePage(st rbac.State, notice *deniedNotice, adminLink string) templ.Component {
	return layout("rolesim",
		deniedBanner(notice),
		rolePanel(st),
		templ.Raw(adminLink),
	)
}

func guardedPage(path, roleID string) templ.Component {
	return layout(path,
		templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := fmt.Fprintf(w, "<p>%s</p>", templ.EscapeString(roleID))
			return err
		}),
	)
}
