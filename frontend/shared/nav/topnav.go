package nav

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

type Link struct {
	Label  string
	Href   string
	Active bool
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	Title string
	Links []Link
}

// BuildTopNavData marks the link whose href equals active.
func BuildTopNavData(active string) TopNavData {
	links := []Link{
		{Label: "Plantillas", Href: "/pos/templates"},
		{Label: "Ayuda", Href: "/pos/help"},
		{Label: "Métricas", Href: "/metrics"},
	}
	for i := range links {
		links[i].Active = links[i].Href == active
	}
	return TopNavData{Title: "ODIN POS", Links: links}
}

func TopNav(data TopNavData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<nav class="topnav"><span class="brand">%s</span><ul>`, templ.EscapeString(data.Title)); err != nil {
			return err
		}
		for _, l := range data.Links {
			class := ""
			if l.Active {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, `<li><a href="%s"%s>%s</a></li>`, templ.EscapeString(l.Href), class, templ.EscapeString(l.Label)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul></nav>")
		return err
	})
}
