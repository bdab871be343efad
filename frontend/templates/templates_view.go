package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "odinpos/frontend/shared/html"
	"odinpos/frontend/shared/nav"
	"odinpos/infrastructure/editor"
	"odinpos/infrastructure/printtemplate"
)

var esc = templ.EscapeString[string]

func ListPage(data ListPageData) templ.Component {
	top := nav.TopNav(nav.BuildTopNavData("/pos/templates"))
	return sharedhtml.Layout("Plantillas de impresión", top, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="templates"><header class="section-head"><h1>Plantillas de impresión</h1>`)
		b.WriteString(`<form method="POST" action="/pos/api/templates/reset" data-confirm="¿Restaurar las plantillas predeterminadas?" data-json-form><button class="btn btn-ghost" type="submit">Restaurar predeterminadas</button></form></header>`)
		if data.Message != "" {
			fmt.Fprintf(&b, `<div class="alert">%s</div>`, esc(data.Message))
		}

		b.WriteString(`<form class="create-form" method="POST" action="/pos/api/templates" data-json-form><input name="name" placeholder="Nombre" maxlength="120"><select name="kind">`)
		for _, k := range data.Kinds {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, esc(string(k)), esc(k.Label()))
		}
		b.WriteString(`</select><select name="paperWidth">`)
		for _, pw := range printtemplate.AllPaperWidths {
			selected := ""
			if pw == printtemplate.Paper80 {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%d"%s>%dmm</option>`, pw, selected, pw)
		}
		b.WriteString(`</select><button class="btn" type="submit">Nueva plantilla</button></form>`)

		b.WriteString(`<table class="table"><thead><tr><th>Nombre</th><th>Tipo</th><th>Papel</th><th>Bloques</th><th>Versión</th><th>Actualizada</th><th></th></tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="7">No hay plantillas.</td></tr>`)
		}
		for _, row := range data.Rows {
			id := esc(row.ID)
			name := esc(row.Name)
			if row.IsDefault {
				name += ` <span class="badge">Predeterminada</span>`
			}
			fmt.Fprintf(&b, `<tr data-template-id="%s"><td>%s</td><td>%s</td><td>%dmm</td><td>%d</td><td>%d</td><td>%s</td><td class="actions">`,
				id, name, esc(row.Kind), row.PaperWidth, row.Blocks, row.Version, esc(row.UpdatedAt))
			fmt.Fprintf(&b, `<a class="btn btn-sm" href="/pos/templates/%s/edit">Editar</a>`, id)
			fmt.Fprintf(&b, `<a class="btn btn-sm btn-ghost" href="/pos/templates/%s/print" target="_blank">Imprimir</a>`, id)
			fmt.Fprintf(&b, `<a class="btn btn-sm btn-ghost" href="/pos/templates/%s/print.pdf" target="_blank">PDF</a>`, id)
			fmt.Fprintf(&b, `<form method="POST" action="/pos/api/templates/%s/duplicate" data-json-form><button class="btn btn-sm btn-ghost" type="submit">Duplicar</button></form>`, id)
			if !row.IsDefault {
				fmt.Fprintf(&b, `<form method="POST" action="/pos/api/templates/%s/default" data-json-form><button class="btn btn-sm btn-ghost" type="submit">Predeterminar</button></form>`, id)
				fmt.Fprintf(&b, `<form method="DELETE" action="/pos/api/templates/%s" data-json-form data-confirm="¿Eliminar la plantilla?"><button class="btn btn-sm btn-danger" type="submit">Eliminar</button></form>`, id)
			}
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</tbody></table></section><script src="/assets/editor.js" defer></script>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func EditorPage(data EditorPageData) templ.Component {
	top := nav.TopNav(nav.BuildTopNavData("/pos/templates"))
	title := "Editor de plantillas"
	if data.State.Session != nil {
		title = data.State.Session.Template.Name + " · " + title
	}
	return sharedhtml.Layout(title, top, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := data.State.Session
		var b strings.Builder
		fmt.Fprintf(&b, `<section class="editor" data-session-id="%s">`, esc(s.ID))

		fmt.Fprintf(&b, `<header class="editor-head"><input id="template-name" value="%s" maxlength="120"><select id="paper-width">`, esc(s.Template.Name))
		for _, pw := range printtemplate.AllPaperWidths {
			selected := ""
			if pw == s.Template.PaperWidth {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%d"%s>%dmm</option>`, pw, selected, pw)
		}
		b.WriteString(`</select><button id="save-template" class="btn">Guardar</button><a class="btn btn-ghost" href="/pos/templates">Volver</a></header>`)
		b.WriteString(`<div id="notifications" class="toasts" aria-live="polite"></div>`)

		b.WriteString(`<aside class="palette"><h2>Bloques</h2><ul>`)
		for _, k := range data.Palette {
			fmt.Fprintf(&b, `<li><button class="palette-item" data-add-kind="%s"><span class="icon icon-%s"></span>%s</button></li>`,
				esc(string(k)), esc(k.Icon()), esc(k.Label()))
		}
		b.WriteString(`</ul><h2>Estructura</h2><ol id="block-list">`)
		for _, blk := range s.Template.Blocks {
			writeBlockListItem(&b, blk, s.SelectedBlockID)
		}
		b.WriteString(`</ol></aside><div class="canvas" id="canvas">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		b.Reset()

		if data.State.Preview != nil {
			if err := data.State.Preview.Render(ctx, w); err != nil {
				return err
			}
		} else {
			b.WriteString(`<div class="preview-empty">Sin bloques</div>`)
		}

		b.WriteString(`</div><aside class="config" id="config-panel">`)
		writePanel(&b, data.State.Panel)
		b.WriteString(`</aside>`)
		writeIssues(&b, data.State.Validation)

		state, err := json.Marshal(data.State)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, `<script id="editor-state" type="application/json">%s</script><script src="/assets/editor.js" defer></script></section>`, state)
		_, err = io.WriteString(w, b.String())
		return err
	}))
}

func writeBlockListItem(b *strings.Builder, blk printtemplate.Block, selected string) {
	class := "block-item"
	if blk.ID == selected {
		class += " is-selected"
	}
	if !blk.Visible {
		class += " is-hidden"
	}
	fmt.Fprintf(b, `<li class="%s" data-block-id="%s" draggable="true"><span class="label">%s</span>`, class, esc(blk.ID), esc(blk.Kind.Label()))
	fmt.Fprintf(b, `<button class="btn-icon" data-toggle="%s" title="Mostrar u ocultar">◐</button>`, esc(blk.ID))
	if !blk.Required {
		fmt.Fprintf(b, `<button class="btn-icon" data-remove="%s" title="Eliminar">✕</button>`, esc(blk.ID))
	}
	b.WriteString(`</li>`)
}

func writePanel(b *strings.Builder, panel *editor.ConfigPanel) {
	if panel == nil {
		b.WriteString(`<p class="muted">Selecciona un bloque para configurarlo.</p>`)
		return
	}
	fmt.Fprintf(b, `<h2>%s</h2><form id="content-form" data-kind="%s">`, esc(panel.Kind.Label()), esc(string(panel.Kind)))
	for _, f := range panel.Fields {
		switch f.Type {
		case editor.FieldBool:
			fmt.Fprintf(b, `<label><input type="checkbox" name="%s"> %s</label>`, esc(f.Name), esc(f.Label))
		case editor.FieldNumber:
			fmt.Fprintf(b, `<label>%s <input type="number" name="%s" min="%d" max="%d"></label>`, esc(f.Label), esc(f.Name), f.Min, f.Max)
		default:
			fmt.Fprintf(b, `<label>%s <input type="text" name="%s"></label>`, esc(f.Label), esc(f.Name))
		}
	}
	b.WriteString(`</form><form id="style-form"><select name="alignment"><option value="left">Izquierda</option><option value="center">Centro</option><option value="right">Derecha</option></select>`)
	b.WriteString(`<select name="fontSize"><option>xs</option><option>sm</option><option>md</option><option>lg</option><option>xl</option></select>`)
	b.WriteString(`<select name="fontWeight"><option value="normal">Normal</option><option value="bold">Negrita</option></select>`)
	b.WriteString(`<input type="number" name="paddingTop" min="0" max="10"><input type="number" name="paddingBottom" min="0" max="10"></form>`)
}

func writeIssues(b *strings.Builder, res printtemplate.ValidationResult) {
	if len(res.Errors) == 0 && len(res.Warnings) == 0 {
		return
	}
	b.WriteString(`<ul class="issues" id="issues">`)
	for _, is := range res.Errors {
		fmt.Fprintf(b, `<li class="issue-error" data-code="%s">%s</li>`, esc(is.Code), esc(is.Message))
	}
	for _, is := range res.Warnings {
		fmt.Fprintf(b, `<li class="issue-warning" data-code="%s">%s</li>`, esc(is.Code), esc(is.Message))
	}
	b.WriteString(`</ul>`)
}
