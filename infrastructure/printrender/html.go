package printrender

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

var esc = templ.EscapeString[string]

// writeContentHTML emits the markup of one block's content. Preview and
// printable output share it so both show the same text.
func writeContentHTML(b *strings.Builder, c Content) {
	if c.Logo != nil {
		fmt.Fprintf(b, `<div class="logo"><img src="%s" alt="%s" style="max-height:%dmm;max-width:100%%"></div>`,
			esc(c.Logo.URL), esc(c.Logo.Alt), c.Logo.HeightMM)
	}
	for _, l := range c.Lines {
		writeLineHTML(b, l)
	}
	if c.Items != nil {
		writeItemsHTML(b, c.Items)
	}
	if c.Rule {
		b.WriteString(`<hr style="border:none;border-top:1px dashed #000;margin:0">`)
	}
	if c.Image != nil {
		fmt.Fprintf(b, `<img src="%s" alt="%s" style="height:%dmm;max-width:100%%">`,
			esc(c.Image.URL), esc(c.Image.Alt), c.Image.HeightMM)
	}
	if p := c.Placeholder; p != nil {
		width := "100%"
		if p.WidthMM > 0 {
			width = fmt.Sprintf("%dmm", p.WidthMM)
		}
		fmt.Fprintf(b, `<div class="placeholder" data-placeholder="%s" style="display:inline-block;width:%s;height:%dmm;border:1px dashed #000;box-sizing:border-box;font-size:7pt;line-height:%dmm;text-align:center">%s</div>`,
			esc(string(p.Kind)), width, p.HeightMM, p.HeightMM, esc(placeholderCaption(p)))
	}
}

func placeholderCaption(p *Placeholder) string {
	if p.Data == "" {
		return "[" + p.Label + "]"
	}
	return "[" + p.Label + ": " + p.Data + "]"
}

func writeLineHTML(b *strings.Builder, l Line) {
	style := ""
	if l.Emphasis {
		style = "font-weight:bold;font-size:1.2em;"
	}
	if l.Split {
		fmt.Fprintf(b, `<div style="%sdisplay:flex;justify-content:space-between"><span>%s</span><span>%s</span></div>`,
			style, esc(l.Label), esc(l.Value))
		return
	}
	if style != "" {
		fmt.Fprintf(b, `<div style="%s">%s</div>`, style, esc(l.Text()))
		return
	}
	fmt.Fprintf(b, `<div>%s</div>`, esc(l.Text()))
}

func writeItemsHTML(b *strings.Builder, t *ItemTable) {
	cols := 2
	b.WriteString(`<table style="width:100%;border-collapse:collapse"><thead><tr>`)
	b.WriteString(`<th style="text-align:left">Cant.</th><th style="text-align:left">Descripción</th>`)
	if t.ShowPrices {
		b.WriteString(`<th style="text-align:right">P.U.</th>`)
		cols++
	}
	if t.ShowSubtotal {
		b.WriteString(`<th style="text-align:right">Importe</th>`)
		cols++
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, r := range t.Rows {
		fmt.Fprintf(b, `<tr><td>%s</td><td>%s</td>`, esc(r.Quantity), esc(r.Name))
		if t.ShowPrices {
			fmt.Fprintf(b, `<td style="text-align:right">%s</td>`, esc(r.UnitPrice))
		}
		if t.ShowSubtotal {
			fmt.Fprintf(b, `<td style="text-align:right">%s</td>`, esc(r.Subtotal))
		}
		b.WriteString(`</tr>`)
		if r.Notes != "" {
			fmt.Fprintf(b, `<tr><td></td><td colspan="%d" style="font-style:italic">%s</td></tr>`, cols-1, esc(r.Notes))
		}
	}
	b.WriteString(`</tbody></table>`)
}
