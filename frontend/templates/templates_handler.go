package templates

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	sessioncontext "odinpos/frontend/shared/context"
	"odinpos/frontend/shared/respond"
	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/audit"
	"odinpos/infrastructure/cache"
	"odinpos/infrastructure/metrics"
	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printrender"
	"odinpos/infrastructure/printtemplate"
	"odinpos/infrastructure/sqlite"
)

// Deps are the collaborators shared by the template handlers. Audit, DB
// and Metrics may be nil.
type Deps struct {
	Store    *printtemplate.Store
	Sessions *cache.EditorSessionCache
	Audit    *audit.Service
	DB       *sqlite.DB
	Metrics  *metrics.Metrics
	Now      func() time.Time
	NewID    func() string
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Deps) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

func (d Deps) record(ctx context.Context, action, entityType, entityID string, before, after any) {
	if d.Audit == nil || d.DB == nil {
		return
	}
	actor, _ := sessioncontext.GetEditorSessionFromContext(ctx)
	if err := d.Audit.Record(ctx, d.DB, actor, action, entityType, entityID, before, after); err != nil {
		slog.Error("audit record failed", slog.String("action", action), slog.String("entity_id", entityID), slog.Any("err", err))
	}
}

// snapshot loads the stored record of id for an audit "before" image. A
// failed load is logged and yields nil so the row records no prior state.
func (d Deps) snapshot(ctx context.Context, id string) any {
	t, err := d.Store.GetTemplate(ctx, id)
	if err != nil {
		slog.Error("audit snapshot failed", slog.String("entity_id", id), slog.Any("err", err))
		return nil
	}
	return t
}

func (d Deps) countSessions() {
	d.Metrics.SetEditorSessions(d.Sessions.Len())
}

func ListTemplatesPageQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := d.Store.ListTemplates(r.Context())
		d.Metrics.IncStoreOp("list", err)
		if err != nil {
			http.Error(w, "failed to load templates", http.StatusInternalServerError)
			return
		}

		rows := make([]ListRow, 0, len(all))
		for _, t := range all {
			rows = append(rows, ListRow{
				ID:         t.ID,
				Name:       t.Name,
				Kind:       t.Kind.Label(),
				PaperWidth: int(t.PaperWidth),
				Blocks:     len(t.Blocks),
				IsDefault:  t.IsDefault,
				Version:    t.Version,
				UpdatedAt:  t.UpdatedAt.Format("02/01/2006 15:04"),
			})
		}
		data := ListPageData{
			Message: strings.TrimSpace(r.URL.Query().Get("status")),
			Rows:    rows,
			Kinds:   printtemplate.AllKinds,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render templates page", http.StatusInternalServerError)
			return
		}
	}
}

func ListTemplatesQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := d.Store.ListTemplates(r.Context())
		d.Metrics.IncStoreOp("list", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, all)
	}
}

func GetTemplateQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
		d.Metrics.IncStoreOp("get", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, TemplateDetail{Template: t, Validation: printtemplate.Validate(t)})
	}
}

func CreateTemplateCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTemplateRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		created, err := d.Store.CreateTemplate(r.Context(), printtemplate.Draft{
			Name:       strings.TrimSpace(req.Name),
			Kind:       printtemplate.Kind(req.Kind),
			PaperWidth: printtemplate.PaperWidth(req.PaperWidth),
			Blocks:     req.Blocks,
		})
		d.Metrics.IncStoreOp("create", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "template.create", audit.EntityTemplate, created.ID, nil, created)
		respond.JSON(w, http.StatusCreated, created)
	}
}

// SaveTemplateCommandHandler replaces a template with the request body. The
// id in the path wins over the body.
func SaveTemplateCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t printtemplate.Template
		if err := respond.Decode(r, &t); err != nil {
			respond.Error(w, r, err)
			return
		}
		t.ID = chi.URLParam(r, "id")

		before, err := d.Store.GetTemplate(r.Context(), t.ID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		saved, err := d.Store.SaveTemplate(r.Context(), t)
		d.Metrics.IncStoreOp("save", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "template.save", audit.EntityTemplate, saved.ID, before, saved)
		respond.JSON(w, http.StatusOK, saved)
	}
}

func DuplicateTemplateCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DuplicateTemplateRequest
		if r.ContentLength != 0 {
			if err := respond.Decode(r, &req); err != nil {
				respond.Error(w, r, err)
				return
			}
		}
		dup, err := d.Store.DuplicateTemplate(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Name))
		d.Metrics.IncStoreOp("duplicate", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "template.duplicate", audit.EntityTemplate, dup.ID, nil, dup)
		respond.JSON(w, http.StatusCreated, dup)
	}
}

func DeleteTemplateCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		before, err := d.Store.GetTemplate(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		err = d.Store.DeleteTemplate(r.Context(), id)
		d.Metrics.IncStoreOp("delete", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "template.delete", audit.EntityTemplate, id, before, nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

func SetDefaultTemplateCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.SetDefaultTemplate(r.Context(), chi.URLParam(r, "id"))
		d.Metrics.IncStoreOp("set_default", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "template.set_default", audit.EntityTemplate, t.ID, nil, t)
		respond.JSON(w, http.StatusOK, t)
	}
}

func ResetTemplatesCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Store.ResetAll(r.Context())
		d.Metrics.IncStoreOp("reset", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "template.reset", audit.EntityTemplate, "*", nil, nil)
		all, err := d.Store.ListTemplates(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, all)
	}
}

// ValidateTemplateQueryHandler validates a template body without storing it.
func ValidateTemplateQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t printtemplate.Template
		if err := respond.Decode(r, &t); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, printtemplate.Validate(t))
	}
}

func AuditLogQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Audit == nil || d.DB == nil {
			respond.JSON(w, http.StatusOK, []any{})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		logs, err := d.Audit.List(r.Context(), d.DB, audit.EntityTemplate, chi.URLParam(r, "id"), limit)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, logs)
	}
}

func ListOverridesQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := d.Store.ListOverrides(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, all)
	}
}

func GetOverrideQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		o, ok, err := d.Store.GetOverride(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if !ok {
			respond.Error(w, r, apperr.Newf(apperr.CodeNotFound, "la plantilla %q no tiene ajustes", id))
			return
		}
		respond.JSON(w, http.StatusOK, o)
	}
}

func SaveOverrideCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OverrideRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		o := printtemplate.Override{
			TemplateID:     chi.URLParam(r, "id"),
			Name:           req.Name,
			HiddenBlockIDs: req.HiddenBlockIDs,
			CustomFooter:   strings.TrimSpace(req.CustomFooter),
		}
		if req.PaperWidth != nil {
			pw := printtemplate.PaperWidth(*req.PaperWidth)
			o.PaperWidth = &pw
		}
		saved, err := d.Store.SaveOverride(r.Context(), o)
		d.Metrics.IncStoreOp("save_override", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "override.save", audit.EntityOverride, saved.TemplateID, nil, saved)
		respond.JSON(w, http.StatusOK, saved)
	}
}

func RemoveOverrideCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := d.Store.RemoveOverride(r.Context(), id)
		d.Metrics.IncStoreOp("remove_override", err)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		d.record(r.Context(), "override.remove", audit.EntityOverride, id, nil, nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PreviewQueryHandler returns the structured preview of a stored template
// rendered against the sample transaction for its kind.
func PreviewQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.ResolveTemplate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		start := time.Now()
		p, err := printrender.RenderPreview(t, printdata.SampleFor(t.Kind))
		d.Metrics.ObserveRender(metrics.OutputPreview, time.Since(start), err)
		if err != nil {
			respond.Error(w, r, renderError(err))
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

// PrintQueryHandler serves the printable HTML of a template with its
// override applied. The ETag is the blake2b digest of the document.
func PrintQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.ResolveTemplate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		writePrintable(w, r, d, t, printdata.SampleFor(t.Kind))
	}
}

func PrintPDFQueryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.ResolveTemplate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		writePDF(w, r, d, t, printdata.SampleFor(t.Kind))
	}
}

// RenderCommandHandler renders a template against the transaction in the
// request body. format=pdf returns a PDF, anything else printable HTML.
func RenderCommandHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.ResolveTemplate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		var data printdata.PrintData
		if err := respond.Decode(r, &data); err != nil {
			respond.Error(w, r, err)
			return
		}
		if r.URL.Query().Get("format") == "pdf" {
			writePDF(w, r, d, t, data)
			return
		}
		writePrintable(w, r, d, t, data)
	}
}

func writePrintable(w http.ResponseWriter, r *http.Request, d Deps, t printtemplate.Template, data printdata.PrintData) {
	start := time.Now()
	doc, err := printrender.RenderPrintable(t, data)
	d.Metrics.ObserveRender(metrics.OutputPrintable, time.Since(start), err)
	if err != nil {
		respond.Error(w, r, renderError(err))
		return
	}

	etag := documentETag(doc)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func writePDF(w http.ResponseWriter, r *http.Request, d Deps, t printtemplate.Template, data printdata.PrintData) {
	start := time.Now()
	pdf, err := printrender.RenderPDF(t, data)
	d.Metrics.ObserveRender(metrics.OutputPDF, time.Since(start), err)
	if err != nil {
		respond.Error(w, r, renderError(err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+t.ID+`.pdf"`)
	_, _ = w.Write(pdf)
}

func documentETag(doc string) string {
	sum := blake2b.Sum256([]byte(doc))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func renderError(err error) error {
	switch {
	case errors.Is(err, printrender.ErrNoBlocks):
		return apperr.Wrap(apperr.CodeValidation, err, "la plantilla no tiene bloques")
	case errors.Is(err, printrender.ErrUnknownBlockKind):
		return apperr.Wrap(apperr.CodeInvalidArgument, err, "tipo de bloque desconocido")
	}
	return apperr.Wrap(apperr.CodeInternal, err, "render failed")
}
