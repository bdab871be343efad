// Package session names the cookie that ties a browser tab to its open
// template editor.
package session

import (
	"net/http"
	"strings"
	"time"
)

const CookieName = "X-Editor-Session"

// IdleTimeout is how long an untouched editor session is kept.
const IdleTimeout = 2 * time.Hour

func EditorCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/pos",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// ExpiredCookie clears the editor cookie.
func ExpiredCookie() *http.Cookie {
	return EditorCookie("", -1)
}

// FromRequest returns the editor session id carried by r, if any.
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	return v, v != ""
}
