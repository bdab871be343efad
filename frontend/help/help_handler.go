package help

import (
	"net/http"
	"strconv"
	"time"

	"odinpos/infrastructure/editor"
	"odinpos/infrastructure/printtemplate"
)

// HelpPageQueryHandler renders the block reference shown from the editor.
func HelpPageQueryHandler() http.HandlerFunc {
	data := BuildPageData()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HelpPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
			return
		}
	}
}

func BuildPageData() PageData {
	data := PageData{}
	for _, k := range printtemplate.AllBlockKinds {
		data.Blocks = append(data.Blocks, BlockRef{
			Kind:      k,
			Label:     k.Label(),
			Icon:      k.Icon(),
			Mandatory: k.Mandatory(),
			SingleUse: k.SingleUse(),
			Fields:    editor.ConfigPanelFor(k).Fields,
		})
	}

	n := 0
	seq := func() string { n++; return strconv.Itoa(n) }
	for _, kind := range printtemplate.AllKinds {
		t := printtemplate.DefaultTemplate(kind, time.Time{}, seq)
		ref := LayoutRef{Kind: kind, Label: kind.Label(), PaperWidth: t.PaperWidth}
		for _, b := range t.Blocks {
			ref.Blocks = append(ref.Blocks, b.Kind.Label())
		}
		data.Layouts = append(data.Layouts, ref)
	}
	return data
}
