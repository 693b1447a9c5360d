// internal/acl/middleware.go
//
// Admin access gate.
//
// Context
// -------
// Every /admin route sits behind Gate.  The gate reads the session that
// auth.Resolver put in the request context, classifies it, and either
// renders one of the three refusal screens or hands the request on.
//
//   Loading          no resolver ran for this request → skeleton only
//   Unauthenticated  no usable session                → sign-in prompt
//   NonAdmin         signed in, role user             → access denied
//   Admin            signed in, role admin            → page
//
// Nothing is cached between requests; a demoted or logged-out user is
// refused on their very next request.

package acl

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/auth"
)

// State is the gate's verdict for one request.
type State int

const (
	Loading State = iota
	Unauthenticated
	NonAdmin
	Admin
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case NonAdmin:
		return "non-admin"
	case Admin:
		return "admin"
	default:
		return "loading"
	}
}

// Status is the HTTP status a refusal screen is served with.
func (s State) Status() int {
	switch s {
	case Unauthenticated:
		return http.StatusUnauthorized
	case NonAdmin:
		return http.StatusForbidden
	default:
		return http.StatusOK
	}
}

// Resolve classifies a session.  loading wins over everything else.
func Resolve(s *auth.Session, loading bool) State {
	switch {
	case loading:
		return Loading
	case s == nil:
		return Unauthenticated
	case !s.IsAdmin():
		return NonAdmin
	default:
		return Admin
	}
}

// Screen renders a refusal screen for a non-Admin state.
type Screen func(w http.ResponseWriter, r *http.Request, st State)

// Gate lets Admin requests through and answers every other state with
// screen.
func Gate(screen Screen) func(http.Handler) http.Handler {
	if screen == nil {
		panic("acl.Gate: screen must not be nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			st := Resolve(auth.FromContext(ctx), !auth.Resolved(ctx))
			if st == Admin {
				next.ServeHTTP(w, r)
				return
			}
			if st == NonAdmin {
				zap.L().Info("admin access denied",
					zap.String("email", auth.FromContext(ctx).User.Email),
					zap.String("path", r.URL.Path))
			}
			screen(w, r, st)
		})
	}
}
