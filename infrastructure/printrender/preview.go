package printrender

import (
	"context"
	"fmt"
	"io"
	"strings"

	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printtemplate"
)

// PreviewSection is one visible block as shown on the editor canvas.
type PreviewSection struct {
	BlockID  string                  `json:"blockId"`
	Kind     printtemplate.BlockKind `json:"kind"`
	Label    string                  `json:"label"`
	Required bool                    `json:"required"`
	Style    Style                   `json:"style"`
	Content  Content                 `json:"content"`
}

// Preview is the structured, re-renderable view of a template. It is a
// templ.Component for the editor page and serialises to JSON for the API.
type Preview struct {
	TemplateID string                   `json:"templateId"`
	Name       string                   `json:"name"`
	Kind       printtemplate.Kind       `json:"kind"`
	PaperWidth printtemplate.PaperWidth `json:"paperWidth"`
	Sections   []PreviewSection         `json:"sections"`

	// SelectedBlockID marks a section as selected in the rendered canvas.
	SelectedBlockID string `json:"-"`
}

func RenderPreview(t printtemplate.Template, data printdata.PrintData) (*Preview, error) {
	secs, err := sections(t, data)
	if err != nil {
		return nil, err
	}
	p := &Preview{
		TemplateID: t.ID,
		Name:       t.Name,
		Kind:       t.Kind,
		PaperWidth: t.PaperWidth,
		Sections:   make([]PreviewSection, 0, len(secs)),
	}
	for _, s := range secs {
		p.Sections = append(p.Sections, PreviewSection{
			BlockID:  s.block.ID,
			Kind:     s.block.Kind,
			Label:    s.block.Kind.Label(),
			Required: s.block.Required,
			Style:    s.style,
			Content:  s.content,
		})
	}
	return p, nil
}

// Render writes the canvas markup. Each section carries data attributes the
// editor script uses for selection and drag.
func (p *Preview) Render(_ context.Context, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="preview-paper" data-template-id="%s" style="width:%dmm;font-family:monospace;background:#fff;padding:2mm;box-sizing:border-box">`,
		esc(p.TemplateID), p.PaperWidth)
	for _, s := range p.Sections {
		class := "preview-block"
		if s.BlockID == p.SelectedBlockID {
			class += " is-selected"
		}
		fmt.Fprintf(&b, `<div class="%s" data-block-id="%s" data-block-kind="%s" draggable="true" title="%s" style="%s">`,
			class, esc(s.BlockID), esc(string(s.Kind)), esc(s.Label), s.Style.CSS())
		writeContentHTML(&b, s.Content)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	_, err := io.WriteString(w, b.String())
	return err
}
