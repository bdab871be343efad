package printrender

import (
	"fmt"

	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printtemplate"
)

var fontPoints = map[printtemplate.FontSize]float64{
	printtemplate.FontXS: 8,
	printtemplate.FontSM: 9,
	printtemplate.FontMD: 10,
	printtemplate.FontLG: 12,
	printtemplate.FontXL: 14,
}

// FontPoints returns the point size for size, falling back to sm.
func FontPoints(size printtemplate.FontSize) float64 {
	if pt, ok := fontPoints[size]; ok {
		return pt
	}
	return fontPoints[printtemplate.FontSM]
}

// Style is a block style resolved to print units.
type Style struct {
	Align           string  `json:"align"`
	FontSizePt      float64 `json:"fontSizePt"`
	Bold            bool    `json:"bold"`
	PaddingTopMM    int     `json:"paddingTopMm"`
	PaddingBottomMM int     `json:"paddingBottomMm"`
}

func ResolveStyle(s printtemplate.BlockStyle) Style {
	align := string(s.Alignment)
	switch s.Alignment {
	case printtemplate.AlignLeft, printtemplate.AlignCenter, printtemplate.AlignRight:
	default:
		align = string(printtemplate.AlignLeft)
	}
	return Style{
		Align:           align,
		FontSizePt:      FontPoints(s.FontSize),
		Bold:            s.FontWeight == printtemplate.WeightBold,
		PaddingTopMM:    s.PaddingTop,
		PaddingBottomMM: s.PaddingBottom,
	}
}

// CSS renders the style as an inline declaration list.
func (s Style) CSS() string {
	weight := "normal"
	if s.Bold {
		weight = "bold"
	}
	return fmt.Sprintf("text-align:%s;font-size:%gpt;font-weight:%s;padding-top:%dmm;padding-bottom:%dmm",
		s.Align, s.FontSizePt, weight, s.PaddingTopMM, s.PaddingBottomMM)
}

// section is one visible block with its resolved style and content.
type section struct {
	block   printtemplate.Block
	style   Style
	content Content
}

// sections walks the visible blocks of t in order. Both renderers use it
// so they skip and order blocks identically.
func sections(t printtemplate.Template, data printdata.PrintData) ([]section, error) {
	if len(t.Blocks) == 0 {
		return nil, ErrNoBlocks
	}
	out := make([]section, 0, len(t.Blocks))
	for _, b := range printtemplate.SortByOrder(t.Blocks) {
		if !b.Visible {
			continue
		}
		c, err := RenderBlockContent(b, data)
		if err != nil {
			return nil, err
		}
		out = append(out, section{block: b, style: ResolveStyle(b.Style), content: c})
	}
	return out, nil
}
