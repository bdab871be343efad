package help

import (
	"odinpos/infrastructure/editor"
	"odinpos/infrastructure/printtemplate"
)

type BlockRef struct {
	Kind      printtemplate.BlockKind
	Label     string
	Icon      string
	Mandatory bool
	SingleUse bool
	Fields    []editor.Field
}

type LayoutRef struct {
	Kind       printtemplate.Kind
	Label      string
	PaperWidth printtemplate.PaperWidth
	Blocks     []string
}

type PageData struct {
	Blocks  []BlockRef
	Layouts []LayoutRef
}
