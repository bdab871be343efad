// Package editor holds the template editing state machine. It is free of
// any UI framework: the HTTP adapter and the browser script drive it
// through the named transitions below.
package editor

import (
	"context"
	"strings"
	"time"

	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/printtemplate"
)

type DragPhase string

const (
	DragIdle     DragPhase = "idle"
	DragDragging DragPhase = "dragging"
)

// DragState tracks a pointer drag. OverID is transient feedback only; the
// model changes once, on Drop.
type DragState struct {
	Phase    DragPhase `json:"phase"`
	SourceID string    `json:"sourceId,omitempty"`
	OverID   string    `json:"overId,omitempty"`
}

// Saver persists a template draft.
type Saver interface {
	SaveTemplate(ctx context.Context, t printtemplate.Template) (printtemplate.Template, error)
}

// Session is one open editor. It is not safe for concurrent use; callers
// serialise access per session.
type Session struct {
	ID              string                 `json:"id"`
	Template        printtemplate.Template `json:"template"`
	SelectedBlockID string                 `json:"selectedBlockId,omitempty"`
	Drag            DragState              `json:"drag"`
	Dirty           bool                   `json:"dirty"`
	OpenedAt        time.Time              `json:"openedAt"`
}

func NewSession(id string, t printtemplate.Template, now time.Time) *Session {
	draft := t.Clone()
	draft.Blocks = printtemplate.SortByOrder(draft.Blocks)
	printtemplate.Renumber(draft.Blocks)
	return &Session{
		ID:       id,
		Template: draft,
		Drag:     DragState{Phase: DragIdle},
		OpenedAt: now,
	}
}

func (s *Session) blockIndex(id string) (int, error) {
	idx := printtemplate.IndexOf(s.Template.Blocks, id)
	if idx < 0 {
		return -1, apperr.Newf(apperr.CodeNotFound, "bloque %q no encontrado", id)
	}
	return idx, nil
}

// Selected returns the selected block, if any.
func (s *Session) Selected() (printtemplate.Block, bool) {
	if s.SelectedBlockID == "" {
		return printtemplate.Block{}, false
	}
	idx := printtemplate.IndexOf(s.Template.Blocks, s.SelectedBlockID)
	if idx < 0 {
		return printtemplate.Block{}, false
	}
	return s.Template.Blocks[idx], true
}

// Panel returns the configuration panel of the selected block.
func (s *Session) Panel() (ConfigPanel, bool) {
	b, ok := s.Selected()
	if !ok {
		return ConfigPanel{}, false
	}
	return ConfigPanelFor(b.Kind), true
}

// Select makes id the only selected block.
func (s *Session) Select(id string) error {
	if _, err := s.blockIndex(id); err != nil {
		return err
	}
	s.SelectedBlockID = id
	return nil
}

func (s *Session) Deselect() {
	s.SelectedBlockID = ""
}

// StartDrag captures the dragged block.
func (s *Session) StartDrag(id string) error {
	if _, err := s.blockIndex(id); err != nil {
		return err
	}
	s.Drag = DragState{Phase: DragDragging, SourceID: id}
	return nil
}

// DragOver records the hovered block for feedback. It never touches the
// template and is ignored outside a drag.
func (s *Session) DragOver(id string) {
	if s.Drag.Phase != DragDragging {
		return
	}
	s.Drag.OverID = id
}

// Drop ends the drag over targetID and performs the single move. Dropping
// outside any block, on an unknown block or on the source itself leaves the
// template unchanged. It reports whether the blocks moved.
func (s *Session) Drop(targetID string) (bool, error) {
	drag := s.Drag
	s.CancelDrag()
	if drag.Phase != DragDragging || targetID == "" || targetID == drag.SourceID {
		return false, nil
	}
	from := printtemplate.IndexOf(s.Template.Blocks, drag.SourceID)
	to := printtemplate.IndexOf(s.Template.Blocks, targetID)
	if from < 0 || to < 0 {
		return false, nil
	}

	moved, err := printtemplate.MoveBlock(s.Template.Blocks, from, to)
	if err != nil {
		return false, err
	}
	s.Template.Blocks = moved
	s.Dirty = true
	return true, nil
}

func (s *Session) CancelDrag() {
	s.Drag = DragState{Phase: DragIdle}
}

// AddBlock appends a block of kind and selects it.
func (s *Session) AddBlock(kind printtemplate.BlockKind) (printtemplate.Block, error) {
	blocks, err := printtemplate.AddBlock(s.Template.Blocks, kind)
	if err != nil {
		return printtemplate.Block{}, err
	}
	s.Template.Blocks = blocks
	added := blocks[len(blocks)-1]
	s.SelectedBlockID = added.ID
	s.Dirty = true
	return added, nil
}

// RemoveBlock deletes a non-required block.
func (s *Session) RemoveBlock(id string) error {
	idx, err := s.blockIndex(id)
	if err != nil {
		return err
	}
	if b := s.Template.Blocks[idx]; b.Required {
		return apperr.Newf(apperr.CodeInvalidOperation, "el bloque %q es obligatorio y no se puede eliminar", b.Kind.Label())
	}

	blocks, err := printtemplate.RemoveBlock(s.Template.Blocks, id)
	if err != nil {
		return err
	}
	s.Template.Blocks = blocks
	if s.SelectedBlockID == id {
		s.SelectedBlockID = ""
	}
	s.Dirty = true
	return nil
}

func (s *Session) ToggleVisibility(id string) error {
	idx, err := s.blockIndex(id)
	if err != nil {
		return err
	}
	s.Template.Blocks[idx].Visible = !s.Template.Blocks[idx].Visible
	s.Dirty = true
	return nil
}

// UpdateStyle replaces the style of block id. Every kind, known or not,
// accepts style edits.
func (s *Session) UpdateStyle(id string, style printtemplate.BlockStyle) error {
	idx, err := s.blockIndex(id)
	if err != nil {
		return err
	}
	if err := printtemplate.CheckStyle(style); err != nil {
		return err
	}
	s.Template.Blocks[idx].Style = style
	s.Dirty = true
	return nil
}

// UpdateContent sets one content field through the block kind's panel.
func (s *Session) UpdateContent(id, field, value string) error {
	idx, err := s.blockIndex(id)
	if err != nil {
		return err
	}
	b := &s.Template.Blocks[idx]
	f, ok := ConfigPanelFor(b.Kind).field(field)
	if !ok {
		return apperr.Newf(apperr.CodeInvalidArgument, "block kind %s has no field %q", b.Kind, field)
	}
	if err := applyContent(&b.Content, f, value); err != nil {
		return err
	}
	s.Dirty = true
	return nil
}

func (s *Session) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.New(apperr.CodeValidation, "el nombre no puede estar vacío")
	}
	s.Template.Name = name
	s.Dirty = true
	return nil
}

func (s *Session) SetPaperWidth(w printtemplate.PaperWidth) error {
	if !w.Valid() {
		return apperr.Newf(apperr.CodeValidation, "ancho de papel %dmm no soportado", w)
	}
	s.Template.PaperWidth = w
	s.Dirty = true
	return nil
}

// Save persists the draft. On failure the draft stays dirty and untouched.
func (s *Session) Save(ctx context.Context, saver Saver) (printtemplate.Template, error) {
	saved, err := saver.SaveTemplate(ctx, s.Template)
	if err != nil {
		return printtemplate.Template{}, err
	}
	s.Template = saved.Clone()
	s.Dirty = false
	return saved, nil
}
