package printrender

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printtemplate"
)

// RenderPrintable returns a self-contained HTML document sized to the
// template's paper width with every style inlined.
func RenderPrintable(t printtemplate.Template, data printdata.PrintData) (string, error) {
	doc, err := Printable(t, data)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := doc.Render(context.Background(), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Printable is RenderPrintable as a templ component for streaming into a
// response.
func Printable(t printtemplate.Template, data printdata.PrintData) (templ.Component, error) {
	secs, err := sections(t, data)
	if err != nil {
		return nil, err
	}
	title := t.Name
	if data.Transaction.Number != "" {
		title += " " + data.Transaction.Number
	}

	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html><head><meta charset="utf-8">`)
		fmt.Fprintf(&b, `<title>%s</title>`, esc(title))
		fmt.Fprintf(&b, `<style>@page{size:%dmm auto;margin:0}</style>`, t.PaperWidth)
		b.WriteString(`</head>`)
		fmt.Fprintf(&b, `<body style="width:%dmm;margin:0;padding:2mm;box-sizing:border-box;font-family:'Courier New',monospace;color:#000">`, t.PaperWidth)
		for _, s := range secs {
			fmt.Fprintf(&b, `<div style="%s">`, s.style.CSS())
			writeContentHTML(&b, s.content)
			b.WriteString(`</div>`)
		}
		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	}), nil
}
