// Package handler contains the HTTP request handlers for the collection.
//
// Handlers are the glue between HTTP and the services: they parse and trim
// form input, call a service, and turn the outcome into a rendered page or a
// redirect plus a notice. Business rules never live here.
package handler

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Notice categories. A notice is a one-shot user-visible message shown on
// the next rendered page.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// Notice is a transient message surfaced to the user after a redirect.
type Notice struct {
	Category string
	Message  string
}

// noticeCookie carries the pending notice across one redirect. Cookie values
// cannot hold arbitrary text, so the payload is base64-encoded.
const noticeCookie = "notice"

// SetNotice queues a notice for the next rendered page.
func SetNotice(w http.ResponseWriter, category, message string) {
	payload := base64.URLEncoding.EncodeToString([]byte(category + "\x00" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    payload,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopNotice returns the pending notice, if any, and clears it so it shows
// exactly once. A malformed cookie is treated as no notice.
func PopNotice(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	cookie, err := r.Cookie(noticeCookie)
	if err != nil {
		return Notice{}, false
	}

	// Clear regardless of whether the payload decodes.
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Notice{}, false
	}
	category, message, found := strings.Cut(string(raw), "\x00")
	if !found || message == "" {
		return Notice{}, false
	}
	return Notice{Category: category, Message: message}, true
}

// redirectWithNotice queues a notice and redirects in one step — the shape
// nearly every failure path in this package takes.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, target, category, message string) {
	SetNotice(w, category, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeNext returns next if it is a local path ("/..."), else the fallback.
// Login uses this so a crafted ?next= cannot redirect users off-site.
func safeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}
