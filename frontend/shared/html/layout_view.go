package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Layout renders body inside the application shell with the top navigation.
func Layout(title string, top templ.Component, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html lang=\"es\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>", templ.EscapeString(title)); err != nil {
			return err
		}
		if top != nil {
			if err := top.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<main class="page">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>"+CSRFFormScript()+"</body></html>")
		return err
	})
}
