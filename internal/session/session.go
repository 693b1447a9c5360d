// internal/session/session.go
//
// Signed session tokens.
//
// Context
//   A session is an HS256 JWT carrying the user's name, email, and role.
//   cmd/web keeps it in the “viya_session” cookie and forwards the raw token
//   to cmd/api as a bearer credential; cmd/api verifies it with the same
//   secret.  There is no server-side session table.
//
// Notes
//   • Parse rejects every signing method except HS256.
//   • Expiry is enforced by the jwt library; Manager.now lets tests pin it.
//   • Cookies are HttpOnly, SameSite=Lax, and Secure when the request
//     arrived over TLS.
//
//------------------------------------------------------------------------------

package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "viya_session"

	RoleAdmin = "admin"
	RoleUser  = "user"

	issuer = "viyakaptan"
)

// ErrNoSession means the request carried no usable token.
var ErrNoSession = errors.New("session: no valid token")

// Identity is what a token asserts about its bearer.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the identity may use the back office.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

type claims struct {
	Identity
	jwt.RegisteredClaims
}

// Manager issues and verifies tokens with one shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns a Manager.  ttl ≤ 0 means 14 days.
func New(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for id.
func (m *Manager) Issue(id Identity) (string, error) {
	now := m.now()
	c := claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Parse verifies token and returns its identity.
func (m *Manager) Parse(token string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, err
	}
	return c.Identity, nil
}

//
// Cookie helpers
//

// Login issues a token for id and stores it in the session cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, id Identity) error {
	tok, err := m.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  m.now().Add(m.ttl),
	})
	return nil
}

// Logout clears the session cookie.
func Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// FromRequest reads the token from the session cookie or, failing that,
// an "Authorization: Bearer" header.  It returns the identity and the raw
// token.
func (m *Manager) FromRequest(r *http.Request) (Identity, string, error) {
	tok := ""
	if c, err := r.Cookie(CookieName); err == nil {
		tok = c.Value
	}
	if tok == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tok = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}
	if tok == "" {
		return Identity{}, "", ErrNoSession
	}
	id, err := m.Parse(tok)
	if err != nil {
		return Identity{}, "", errors.Join(ErrNoSession, err)
	}
	return id, tok, nil
}
