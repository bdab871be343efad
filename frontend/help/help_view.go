package help

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "odinpos/frontend/shared/html"
	"odinpos/frontend/shared/nav"
)

func HelpPage(data PageData) templ.Component {
	top := nav.TopNav(nav.BuildTopNavData("/pos/help"))
	return sharedhtml.Layout("Ayuda del editor", top, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="help"><h1>Bloques disponibles</h1><table class="table"><thead><tr><th>Bloque</th><th>Reglas</th><th>Opciones</th></tr></thead><tbody>`)
		for _, ref := range data.Blocks {
			var rules []string
			if ref.Mandatory {
				rules = append(rules, "obligatorio")
			}
			if ref.SingleUse {
				rules = append(rules, "uno por plantilla")
			}
			var fields []string
			for _, f := range ref.Fields {
				fields = append(fields, templ.EscapeString(f.Label))
			}
			fmt.Fprintf(&b, `<tr data-kind="%s"><td><span class="icon icon-%s"></span>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(string(ref.Kind)), templ.EscapeString(ref.Icon), templ.EscapeString(ref.Label),
				strings.Join(rules, ", "), strings.Join(fields, ", "))
		}
		b.WriteString(`</tbody></table><h1>Diseños predeterminados</h1>`)
		for _, l := range data.Layouts {
			fmt.Fprintf(&b, `<h2>%s <small>%dmm</small></h2><ol>`, templ.EscapeString(l.Label), l.PaperWidth)
			for _, name := range l.Blocks {
				fmt.Fprintf(&b, `<li>%s</li>`, templ.EscapeString(name))
			}
			b.WriteString(`</ol>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}
