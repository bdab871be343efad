package templates

import (
	"odinpos/infrastructure/editor"
	"odinpos/infrastructure/printrender"
	"odinpos/infrastructure/printtemplate"
)

type CreateTemplateRequest struct {
	Name       string                `json:"name" validate:"max=120"`
	Kind       string                `json:"kind" validate:"required"`
	PaperWidth int                   `json:"paperWidth" validate:"omitempty,oneof=58 80 110"`
	Blocks     []printtemplate.Block `json:"blocks"`
}

type DuplicateTemplateRequest struct {
	Name string `json:"name" validate:"max=120"`
}

type OverrideRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=120"`
	PaperWidth     *int     `json:"paperWidth" validate:"omitempty,oneof=58 80 110"`
	HiddenBlockIDs []string `json:"hiddenBlockIds"`
	CustomFooter   string   `json:"customFooter" validate:"max=200"`
}

// Editor command actions.
const (
	ActionSelect     = "select"
	ActionDeselect   = "deselect"
	ActionDragStart  = "drag_start"
	ActionDragOver   = "drag_over"
	ActionDrop       = "drop"
	ActionDragCancel = "drag_cancel"
	ActionAdd        = "add"
	ActionRemove     = "remove"
	ActionToggle     = "toggle"
	ActionStyle      = "style"
	ActionContent    = "content"
	ActionRename     = "rename"
	ActionPaperWidth = "paper_width"
)

// EditorCommand is one named transition sent by the editor script.
type EditorCommand struct {
	Action     string                    `json:"action" validate:"required,oneof=select deselect drag_start drag_over drop drag_cancel add remove toggle style content rename paper_width"`
	BlockID    string                    `json:"blockId"`
	TargetID   string                    `json:"targetId"`
	Kind       string                    `json:"kind"`
	Field      string                    `json:"field"`
	Value      string                    `json:"value"`
	Name       string                    `json:"name"`
	PaperWidth int                       `json:"paperWidth"`
	Style      *printtemplate.BlockStyle `json:"style" validate:"omitempty"`
}

// EditorState is returned after every editor call.
type EditorState struct {
	Session      *editor.Session                `json:"session"`
	Panel        *editor.ConfigPanel            `json:"panel,omitempty"`
	Preview      *printrender.Preview           `json:"preview,omitempty"`
	Validation   printtemplate.ValidationResult `json:"validation"`
	Notification *editor.Notification           `json:"notification,omitempty"`
}

// TemplateDetail pairs a stored template with its validation result.
type TemplateDetail struct {
	Template   printtemplate.Template         `json:"template"`
	Validation printtemplate.ValidationResult `json:"validation"`
}

type ListRow struct {
	ID         string
	Name       string
	Kind       string
	PaperWidth int
	Blocks     int
	IsDefault  bool
	Version    int
	UpdatedAt  string
}

type ListPageData struct {
	Message string
	Rows    []ListRow
	Kinds   []printtemplate.Kind
}

type EditorPageData struct {
	State   EditorState
	Palette []printtemplate.BlockKind
}
