// internal/auth/context.go
//
// Per-request session resolution and context helpers.
//
// Usage
// -----
//     res := auth.NewResolver(sessions)
//     r = r.WithContext(auth.WithSession(r.Context(), res.Resolve(r)))
//
//     // Downstream code retrieves it.
//     s := auth.FromContext(ctx)   // nil for anonymous visitors
//
// Notes
// -----
// • The resolver is stateless; every request re-reads the cookie, so a
//   logout or role change is seen on the next request.
// • Token(ctx) feeds the API client's bearer header.

package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/session"
)

// Session is the signed-in user plus the raw token that proves it.
type Session struct {
	User  session.Identity
	Token string
}

// IsAdmin reports whether s may use the back office.  nil-safe.
func (s *Session) IsAdmin() bool { return s != nil && s.User.IsAdmin() }

// sessionKey is unexported to avoid context-key collisions.
type sessionKey struct{}

// WithSession returns a new context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session, or nil when none is set.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Resolved reports whether a resolver has run for ctx, whatever its
// outcome.
func Resolved(ctx context.Context) bool {
	return ctx.Value(sessionKey{}) != nil
}

// Token returns the bearer token of the session in ctx, or "".
func Token(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}

// Resolver turns a request into a *Session.
type Resolver struct {
	sessions *session.Manager
}

func NewResolver(m *session.Manager) *Resolver { return &Resolver{sessions: m} }

// Resolve returns nil for anonymous requests or unusable tokens.
func (res *Resolver) Resolve(r *http.Request) *Session {
	id, tok, err := res.sessions.FromRequest(r)
	if err != nil {
		if r.Header.Get("Authorization") != "" {
			zap.L().Debug("session rejected", zap.Error(err))
		}
		return nil
	}
	return &Session{User: id, Token: tok}
}

// Middleware resolves the session once and stores it in the context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), res.Resolve(r))))
	})
}
