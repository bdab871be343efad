package printtemplate

import (
	"time"

	"odinpos/infrastructure/apperr"
)

// Override is a sparse per-deployment patch applied on top of a stored
// template at print time. Nil or empty fields leave the template as is.
type Override struct {
	TemplateID     string      `json:"templateId"`
	Name           *string     `json:"name,omitempty"`
	PaperWidth     *PaperWidth `json:"paperWidth,omitempty"`
	HiddenBlockIDs []string    `json:"hiddenBlockIds,omitempty"`
	CustomFooter   string      `json:"customFooter,omitempty"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (o Override) check() error {
	if o.TemplateID == "" {
		return apperr.New(apperr.CodeInvalidArgument, "override without template id")
	}
	if o.PaperWidth != nil && !o.PaperWidth.Valid() {
		return apperr.Newf(apperr.CodeValidation, "ancho de papel %dmm no soportado", *o.PaperWidth).
			WithDetails([]Issue{{Code: IssueInvalidPaperWidth, Message: "unsupported paper width"}})
	}
	return nil
}

// ApplyOverride returns a copy of t with o applied. Hidden block ids that
// do not exist in t are ignored. A custom footer is appended as a trailing
// custom_text block.
func ApplyOverride(t Template, o Override) Template {
	out := t.Clone()
	if o.Name != nil && *o.Name != "" {
		out.Name = *o.Name
	}
	if o.PaperWidth != nil && o.PaperWidth.Valid() {
		out.PaperWidth = *o.PaperWidth
	}
	if len(o.HiddenBlockIDs) > 0 {
		hidden := make(map[string]struct{}, len(o.HiddenBlockIDs))
		for _, id := range o.HiddenBlockIDs {
			hidden[id] = struct{}{}
		}
		for i := range out.Blocks {
			if _, ok := hidden[out.Blocks[i].ID]; ok {
				out.Blocks[i].Visible = false
			}
		}
	}
	if o.CustomFooter != "" {
		out.Blocks = SortByOrder(out.Blocks)
		Renumber(out.Blocks)
		b := NewBlock(BlockCustomText)
		b.ID = "override-footer-" + t.ID
		b.Order = len(out.Blocks)
		b.Style.FontSize = FontXS
		b.Content.Text = o.CustomFooter
		out.Blocks = append(out.Blocks, b)
	}
	return out
}
