package http

import (
	"github.com/go-chi/chi/v5"

	"odinpos/frontend/help"
	"odinpos/frontend/templates"
)

// RegisterTemplateRoutes registers the template pages, the store API and
// the rendered outputs under /pos.
func (s *Server) RegisterTemplateRoutes(r chi.Router) chi.Router {
	d := s.Deps

	r.Get("/templates", templates.ListTemplatesPageQueryHandler(d))
	r.Get("/templates/{id}/print", templates.PrintQueryHandler(d))
	r.Get("/templates/{id}/print.pdf", templates.PrintPDFQueryHandler(d))

	r.Get("/api/templates", templates.ListTemplatesQueryHandler(d))
	r.Post("/api/templates", templates.CreateTemplateCommandHandler(d))
	r.Post("/api/templates/reset", templates.ResetTemplatesCommandHandler(d))
	r.Post("/api/templates/validate", templates.ValidateTemplateQueryHandler())

	r.Get("/api/templates/{id}", templates.GetTemplateQueryHandler(d))
	r.Put("/api/templates/{id}", templates.SaveTemplateCommandHandler(d))
	r.Delete("/api/templates/{id}", templates.DeleteTemplateCommandHandler(d))
	r.Post("/api/templates/{id}/duplicate", templates.DuplicateTemplateCommandHandler(d))
	r.Post("/api/templates/{id}/default", templates.SetDefaultTemplateCommandHandler(d))
	r.Get("/api/templates/{id}/preview", templates.PreviewQueryHandler(d))
	r.Post("/api/templates/{id}/render", templates.RenderCommandHandler(d))
	r.Get("/api/templates/{id}/audit", templates.AuditLogQueryHandler(d))

	r.Get("/api/overrides", templates.ListOverridesQueryHandler(d))
	r.Get("/api/templates/{id}/override", templates.GetOverrideQueryHandler(d))
	r.Put("/api/templates/{id}/override", templates.SaveOverrideCommandHandler(d))
	r.Delete("/api/templates/{id}/override", templates.RemoveOverrideCommandHandler(d))
	return r
}

// RegisterEditorRoutes registers the editor page and its transitions. The
// open editor is found through the editor session cookie.
func (s *Server) RegisterEditorRoutes(r chi.Router) chi.Router {
	d := s.Deps

	r.Get("/templates/{id}/edit", templates.OpenEditorPageHandler(d))
	r.Get("/help", help.HelpPageQueryHandler())
	r.Get("/editor/preview", templates.EditorPreviewFragmentHandler(d))

	r.Get("/api/editor", templates.EditorStateQueryHandler(d))
	r.Post("/api/editor/commands", templates.EditorCommandHandler(d))
	r.Post("/api/editor/save", templates.SaveEditorCommandHandler(d))
	r.Delete("/api/editor", templates.CloseEditorCommandHandler(d))
	return r
}
