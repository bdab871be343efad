package templates

import (
	stdcontext "context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	sessioncontext "odinpos/frontend/shared/context"
	"odinpos/frontend/shared/respond"
	"odinpos/infrastructure/cache"
	"odinpos/infrastructure/editor"
	"odinpos/infrastructure/kv"
	"odinpos/infrastructure/printtemplate"
	sessioncookie "odinpos/infrastructure/session"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	n := 0
	return Deps{
		Store:    printtemplate.NewStore(kv.NewMemoryStore()),
		Sessions: cache.NewEditorSessionCache(),
		NewID: func() string {
			n++
			return "sess-" + string(rune('a'+n-1))
		},
	}
}

func newTestRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if id, ok := sessioncookie.FromRequest(req); ok {
				req = req.WithContext(sessioncontext.NewContextWithEditorSession(req.Context(), id))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/templates", ListTemplatesPageQueryHandler(d))
	r.Get("/templates/{id}/edit", OpenEditorPageHandler(d))
	r.Get("/templates/{id}/print", PrintQueryHandler(d))
	r.Get("/api/templates/{id}", GetTemplateQueryHandler(d))
	r.Post("/api/templates", CreateTemplateCommandHandler(d))
	r.Post("/api/templates/{id}/duplicate", DuplicateTemplateCommandHandler(d))
	r.Post("/api/editor/commands", EditorCommandHandler(d))
	r.Post("/api/editor/save", SaveEditorCommandHandler(d))
	return r
}

func serve(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestListPageRendersDefaults(t *testing.T) {
	h := newTestRouter(newTestDeps(t))

	rr := serve(h, http.MethodGet, "/templates?status=guardado", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Comanda de cocina") || !strings.Contains(body, "Predeterminada") {
		t.Fatalf("list page missing seeded templates")
	}
	if !strings.Contains(body, `<div class="alert">guardado</div>`) {
		t.Fatalf("list page missing status message")
	}
}

func TestCreateTemplateRejectsUnknownFields(t *testing.T) {
	h := newTestRouter(newTestDeps(t))

	rr := serve(h, http.MethodPost, "/api/templates", `{"kind":"ticket","color":"red"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body respond.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Error.Code != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
}

func TestDuplicateWithName(t *testing.T) {
	h := newTestRouter(newTestDeps(t))

	rr := serve(h, http.MethodPost, "/api/templates/default-bar_order/duplicate", `{"name":"Barra terraza"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var dup printtemplate.Template
	if err := json.Unmarshal(rr.Body.Bytes(), &dup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dup.Name != "Barra terraza" || dup.Kind != printtemplate.KindBarOrder {
		t.Fatalf("unexpected duplicate %+v", dup)
	}

	rr = serve(h, http.MethodPost, "/api/templates/ghost/duplicate", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetTemplateIncludesValidation(t *testing.T) {
	h := newTestRouter(newTestDeps(t))

	rr := serve(h, http.MethodGet, "/api/templates/default-invoice", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var detail TemplateDetail
	if err := json.Unmarshal(rr.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !detail.Validation.IsValid || detail.Template.PaperWidth != printtemplate.Paper110 {
		t.Fatalf("unexpected detail %+v", detail.Validation)
	}
}

func TestPrintETagIsStable(t *testing.T) {
	h := newTestRouter(newTestDeps(t))

	first := serve(h, http.MethodGet, "/templates/default-kitchen_order/print", "")
	second := serve(h, http.MethodGet, "/templates/default-kitchen_order/print", "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if first.Header().Get("ETag") == "" || first.Header().Get("ETag") != second.Header().Get("ETag") {
		t.Fatalf("expected a stable ETag")
	}
	if documentETag("a") == documentETag("b") {
		t.Fatalf("different documents must not share an ETag")
	}
}

func openEditor(t *testing.T, h http.Handler, id string) *http.Cookie {
	t.Helper()
	rr := serve(h, http.MethodGet, "/templates/"+id+"/edit", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("open editor: expected 200, got %d", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.CookieName {
			return c
		}
	}
	t.Fatalf("editor cookie not set")
	return nil
}

func editorCommand(t *testing.T, h http.Handler, cookie *http.Cookie, cmd EditorCommand) EditorState {
	t.Helper()
	raw, _ := json.Marshal(cmd)
	rr := serve(h, http.MethodPost, "/api/editor/commands", string(raw), cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("command %s: expected 200, got %d: %s", cmd.Action, rr.Code, rr.Body.String())
	}
	var state EditorState
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func TestEditorCommandsDriveTheSession(t *testing.T) {
	d := newTestDeps(t)
	h := newTestRouter(d)
	cookie := openEditor(t, h, "default-ticket")

	state := editorCommand(t, h, cookie, EditorCommand{Action: ActionAdd, Kind: string(printtemplate.BlockQRCode)})
	if state.Panel == nil || state.Panel.Kind != printtemplate.BlockQRCode {
		t.Fatalf("expected qr panel after add")
	}
	qr := state.Session.SelectedBlockID

	state = editorCommand(t, h, cookie, EditorCommand{Action: ActionContent, BlockID: qr, Field: "size", Value: "500"})
	if state.Notification == nil || state.Notification.Level != editor.LevelError {
		t.Fatalf("expected error notification for out-of-range size, got %+v", state.Notification)
	}

	state = editorCommand(t, h, cookie, EditorCommand{Action: ActionContent, BlockID: qr, Field: "data", Value: "https://odinpos.app/f/482"})
	if state.Notification != nil {
		t.Fatalf("unexpected notification %+v", state.Notification)
	}

	style := printtemplate.BlockStyle{Alignment: printtemplate.AlignLeft, FontSize: printtemplate.FontXS, FontWeight: printtemplate.WeightBold}
	state = editorCommand(t, h, cookie, EditorCommand{Action: ActionStyle, BlockID: qr, Style: &style})
	found := false
	for _, s := range state.Preview.Sections {
		if s.BlockID == qr {
			found = true
			if s.Style.Align != "left" || !s.Style.Bold {
				t.Fatalf("style not reflected in preview: %+v", s.Style)
			}
		}
	}
	if !found {
		t.Fatalf("added block missing from preview")
	}

	raw := `{"action":"content","blockId":"` + qr + `","field":"size","value":"big"}`
	rr := serve(h, http.MethodPost, "/api/editor/commands", raw, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected programmer error to fail with 400, got %d", rr.Code)
	}

	rr = serve(h, http.MethodPost, "/api/editor/save", "", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", rr.Code)
	}
	stored, err := d.Store.GetTemplate(stdcontext.Background(), "default-ticket")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if printtemplate.IndexOf(stored.Blocks, qr) < 0 {
		t.Fatalf("saved template missing the added block")
	}
}

func TestEditorCommandWithStaleCookie(t *testing.T) {
	h := newTestRouter(newTestDeps(t))

	rr := serve(h, http.MethodPost, "/api/editor/commands", `{"action":"deselect"}`, sessioncookie.EditorCookie("gone", 60))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected stale editor cookie to be cleared")
	}
}

func TestSnapshotForAudit(t *testing.T) {
	d := newTestDeps(t)
	ctx := stdcontext.Background()

	got, ok := d.snapshot(ctx, printtemplate.DefaultTemplateID(printtemplate.KindTicket)).(printtemplate.Template)
	if !ok || got.ID != printtemplate.DefaultTemplateID(printtemplate.KindTicket) {
		t.Fatalf("expected stored ticket, got %#v", got)
	}

	if before := d.snapshot(ctx, "ghost"); before != nil {
		t.Fatalf("expected nil snapshot for unknown template, got %#v", before)
	}
}
