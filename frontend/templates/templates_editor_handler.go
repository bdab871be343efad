package templates

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "odinpos/frontend/shared/context"
	"odinpos/frontend/shared/respond"
	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/audit"
	"odinpos/infrastructure/editor"
	"odinpos/infrastructure/metrics"
	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printrender"
	"odinpos/infrastructure/printtemplate"
	sessioncookie "odinpos/infrastructure/session"
)

var errNoEditor = apperr.New(apperr.CodeNotFound, "no hay un editor abierto")

// OpenEditorPageHandler starts an editor session on a stored template and
// renders the editor page. Any editor already tied to the cookie is closed.
func OpenEditorPageHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
		d.Metrics.IncStoreOp("get", err)
		if err != nil {
			if apperr.IsUserFacing(err) {
				http.Redirect(w, r, "/pos/templates?status=plantilla+no+encontrada", http.StatusSeeOther)
				return
			}
			http.Error(w, "failed to load template", http.StatusInternalServerError)
			return
		}

		if old, ok := sessioncontext.GetEditorSessionFromContext(r.Context()); ok {
			d.Sessions.DeleteSession(old)
		}
		s := editor.NewSession(d.newID(), t, d.now())
		d.Sessions.AddSession(s)
		d.countSessions()
		http.SetCookie(w, sessioncookie.EditorCookie(s.ID, int(sessioncookie.IdleTimeout.Seconds())))

		data := EditorPageData{State: buildState(s, d.Metrics), Palette: printtemplate.AllBlockKinds}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := EditorPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render editor page", http.StatusInternalServerError)
			return
		}
	}
}

func EditorStateQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withEditor(w, r, d, func(s *editor.Session) (EditorState, error) {
			return buildState(s, d.Metrics), nil
		})
	}
}

// EditorCommandHandler applies one named transition to the open editor.
// User-facing failures come back as a notification with the unchanged
// state; programmer errors fail the request.
func EditorCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd EditorCommand
		if err := respond.Decode(r, &cmd); err != nil {
			respond.Error(w, r, err)
			return
		}
		withEditor(w, r, d, func(s *editor.Session) (EditorState, error) {
			err := apply(s, cmd)
			n, hard := editor.Notify(err)
			if hard != nil {
				return EditorState{}, hard
			}
			state := buildState(s, d.Metrics)
			if err != nil {
				state.Notification = &n
			}
			return state, nil
		})
	}
}

func apply(s *editor.Session, cmd EditorCommand) error {
	switch cmd.Action {
	case ActionSelect:
		return s.Select(cmd.BlockID)
	case ActionDeselect:
		s.Deselect()
	case ActionDragStart:
		return s.StartDrag(cmd.BlockID)
	case ActionDragOver:
		s.DragOver(cmd.TargetID)
	case ActionDrop:
		_, err := s.Drop(cmd.TargetID)
		return err
	case ActionDragCancel:
		s.CancelDrag()
	case ActionAdd:
		_, err := s.AddBlock(printtemplate.BlockKind(cmd.Kind))
		return err
	case ActionRemove:
		return s.RemoveBlock(cmd.BlockID)
	case ActionToggle:
		return s.ToggleVisibility(cmd.BlockID)
	case ActionStyle:
		if cmd.Style == nil {
			return apperr.New(apperr.CodeInvalidArgument, "style command without style")
		}
		return s.UpdateStyle(cmd.BlockID, *cmd.Style)
	case ActionContent:
		return s.UpdateContent(cmd.BlockID, cmd.Field, cmd.Value)
	case ActionRename:
		return s.Rename(cmd.Name)
	case ActionPaperWidth:
		return s.SetPaperWidth(printtemplate.PaperWidth(cmd.PaperWidth))
	default:
		return apperr.Newf(apperr.CodeInvalidArgument, "unknown editor action %q", cmd.Action)
	}
	return nil
}

// SaveEditorCommandHandler persists the open draft through the store.
func SaveEditorCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withEditor(w, r, d, func(s *editor.Session) (EditorState, error) {
			before := d.snapshot(r.Context(), s.Template.ID)
			saved, err := s.Save(r.Context(), d.Store)
			d.Metrics.IncStoreOp("save", err)
			n, hard := editor.Notify(err)
			if hard != nil {
				return EditorState{}, hard
			}
			if err == nil {
				d.record(r.Context(), "template.save", audit.EntityTemplate, saved.ID, before, saved)
				n = editor.Success("Plantilla guardada")
			}
			state := buildState(s, d.Metrics)
			state.Notification = &n
			return state, nil
		})
	}
}

// EditorPreviewFragmentHandler re-renders the canvas of the open editor.
func EditorPreviewFragmentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessioncontext.GetEditorSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, r, errNoEditor)
			return
		}
		var preview *printrender.Preview
		found, err := d.Sessions.WithSession(id, func(s *editor.Session) error {
			preview = buildState(s, d.Metrics).Preview
			return nil
		})
		if err != nil || !found {
			respond.Error(w, r, errNoEditor)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if preview == nil {
			_, _ = w.Write([]byte(`<div class="preview-empty">Sin bloques</div>`))
			return
		}
		if err := preview.Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render preview", http.StatusInternalServerError)
		}
	}
}

func CloseEditorCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := sessioncontext.GetEditorSessionFromContext(r.Context()); ok {
			d.Sessions.DeleteSession(id)
			d.countSessions()
		}
		http.SetCookie(w, sessioncookie.ExpiredCookie())
		w.WriteHeader(http.StatusNoContent)
	}
}

func withEditor(w http.ResponseWriter, r *http.Request, d Deps, fn func(*editor.Session) (EditorState, error)) {
	id, ok := sessioncontext.GetEditorSessionFromContext(r.Context())
	if !ok {
		respond.Error(w, r, errNoEditor)
		return
	}
	var state EditorState
	found, err := d.Sessions.WithSession(id, func(s *editor.Session) error {
		var err error
		state, err = fn(s)
		return err
	})
	if !found {
		http.SetCookie(w, sessioncookie.ExpiredCookie())
		respond.Error(w, r, errNoEditor)
		return
	}
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, state)
}

// buildState snapshots s so it can be encoded after the session lock is
// released.
func buildState(s *editor.Session, m *metrics.Metrics) EditorState {
	snap := *s
	snap.Template = s.Template.Clone()

	state := EditorState{Session: &snap, Validation: printtemplate.Validate(snap.Template)}
	if panel, ok := snap.Panel(); ok {
		state.Panel = &panel
	}
	start := time.Now()
	p, err := printrender.RenderPreview(snap.Template, printdata.SampleFor(snap.Template.Kind))
	m.ObserveRender(metrics.OutputPreview, time.Since(start), err)
	if err == nil {
		p.SelectedBlockID = snap.SelectedBlockID
		state.Preview = p
	}
	return state
}
