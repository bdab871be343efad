package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/pos/templates", nil)
	if _, ok := FromRequest(r); ok {
		t.Fatalf("expected no session without cookie")
	}

	r.AddCookie(EditorCookie("abc", int(IdleTimeout.Seconds())))
	id, ok := FromRequest(r)
	if !ok || id != "abc" {
		t.Fatalf("expected abc, got %q (%v)", id, ok)
	}

	empty := httptest.NewRequest(http.MethodGet, "/pos/templates", nil)
	empty.AddCookie(EditorCookie("", 0))
	if _, ok := FromRequest(empty); ok {
		t.Fatalf("blank cookie must not count as a session")
	}
}

func TestExpiredCookie(t *testing.T) {
	c := ExpiredCookie()
	if c.MaxAge >= 0 || c.Value != "" || !c.HttpOnly {
		t.Fatalf("unexpected expired cookie %+v", c)
	}
}
