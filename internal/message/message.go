// internal/message/message.go
//
// User-facing notices and the flash cookie that carries them across a
// redirect.
//
// Context
//   Admin writes answer with a redirect (POST → 303 → GET).  The notice the
//   write produced rides along in a short-lived cookie and is popped by the
//   next page render, the server-side counterpart of a toast.
//
// Notes
//   • One notice per redirect.  A second Flash before the pop overwrites.
//   • The cookie is HttpOnly and SameSite=Lax; the text is base64url JSON.
//
//------------------------------------------------------------------------------

package message

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Kind tells the template how to style a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is one transient message.
type Notice struct {
	Kind Kind   `json:"k"`
	Text string `json:"t"`
}

func Success(text string) Notice { return Notice{Kind: KindSuccess, Text: text} }
func Error(text string) Notice   { return Notice{Kind: KindError, Text: text} }

// IsZero reports whether n carries nothing.
func (n Notice) IsZero() bool { return n.Text == "" }

// IsError is a template helper.
func (n Notice) IsError() bool { return n.Kind == KindError }

const (
	cookieName = "viya_flash"
	flashTTL   = 60 // seconds
)

// Flash stores n for the next request from this browser.
func Flash(w http.ResponseWriter, n Notice) {
	if n.IsZero() {
		return
	}
	b, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   flashTTL,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears it.
func Pop(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Notice{}, false
	}
	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil || n.IsZero() {
		return Notice{}, false
	}
	return n, true
}
