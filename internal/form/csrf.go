// internal/form/csrf.go
//
// Stateless CSRF tokens and the in-flight submit guard for admin forms.
//
// Context
//   Every admin form embeds a hidden `csrf_token` input generated at render
//   time.  The token is:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   •  nonce      16 random bytes.
//   •  unixMicro  8 bytes, big-endian.
//   •  HMAC       keyed with csrf.key from config.
//
//   Validation checks the signature and that the timestamp is within MaxAge.
//   No server-side state is needed for verification.
//
//   The same token doubles as the identity of one rendered form, so Guard
//   can refuse a second POST of that form while the first is still being
//   written to the API.  This is the Submitting state of the editor carried
//   across requests.
//
// Workflow
//   •  NewCSRF(key)            → *CSRF
//   •  c.Token()               → token string for the renderer
//   •  c.Verify(tok)           → constant-time verify; false on any failure
//   •  g.Acquire(tok) / release → refuse duplicates while in flight
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig
	MaxAge     = 2 * time.Hour
	FieldName  = "csrf_token"
)

// ErrInvalidToken is returned by Check for a missing, forged, or expired
// token.
var ErrInvalidToken = errors.New("form: invalid csrf token")

// CSRF issues and verifies tokens under one key.
type CSRF struct {
	key []byte
	now func() time.Time
}

// NewCSRF builds a CSRF from a base64url key of at least 32 bytes.  An
// empty or short key yields a random, process-local key and a warning;
// tokens then stop verifying after a restart.
func NewCSRF(key string) *CSRF {
	c := &CSRF{now: time.Now}
	if b, err := base64.RawURLEncoding.DecodeString(key); err == nil && len(b) >= 32 {
		c.key = b
		return c
	}
	c.key = make([]byte, 32)
	_, _ = rand.Read(c.key)
	zap.L().Warn("csrf.key not set or too short; using an ephemeral key")
	return c
}

// Token creates a new CSRF token.  Call once per form render.
func (c *CSRF) Token() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok passes the HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}
	nonce, ts, sig := raw[:16], raw[16:24], raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(ts)))
	now := c.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		return false
	}
	return hmac.Equal(sig, c.sign(nonce, ts))
}

// Check pulls the token from a parsed form and verifies it.
func (c *CSRF) Check(r *http.Request) (string, error) {
	tok := r.PostFormValue(FieldName)
	if !c.Verify(tok) {
		return "", ErrInvalidToken
	}
	return tok, nil
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}

/*──────────────────────────── in-flight guard ──────────────────────────────*/

// Guard tracks form tokens whose submission is being processed.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGuard() *Guard { return &Guard{inflight: make(map[string]struct{})} }

// Acquire marks tok as in flight.  ok is false when it already is; the
// caller must then refuse the request.  release is idempotent.
func (g *Guard) Acquire(tok string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[tok]; busy {
		return func() {}, false
	}
	g.inflight[tok] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, tok)
			g.mu.Unlock()
		})
	}, true
}

// InFlight reports how many submissions are running.
func (g *Guard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
