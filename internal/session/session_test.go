package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "0123456789abcdef-test"

func TestIssueParse(t *testing.T) {
	m := New(secret, time.Hour)
	tok, err := m.Issue(Identity{Name: "Kaptan", Email: "kaptan@viyakaptan.com", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !id.IsAdmin() || id.Email != "kaptan@viyakaptan.com" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := New(secret, time.Minute)
	start := time.Now()
	m.now = func() time.Time { return start }
	tok, _ := m.Issue(Identity{Email: "a@b.c", Role: RoleUser})

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := m.Parse(tok); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("want expired, got %v", err)
	}
}

func TestParseRejectsOtherSecretAndAlg(t *testing.T) {
	tok, _ := New("another-secret-of-len", time.Hour).Issue(Identity{Role: RoleAdmin})
	if _, err := New(secret, time.Hour).Parse(tok); err == nil {
		t.Fatal("foreign secret accepted")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin", "iss": issuer})
	s, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := New(secret, time.Hour).Parse(s); err == nil {
		t.Fatal("alg=none accepted")
	}
}

func TestLoginCookieAndFromRequest(t *testing.T) {
	m := New(secret, time.Hour)
	rec := httptest.NewRecorder()
	if err := m.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), Identity{Email: "x@y.z", Role: RoleUser}); err != nil {
		t.Fatal(err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(cookies[0])
	id, tok, err := m.FromRequest(r)
	if err != nil || id.Email != "x@y.z" || tok != cookies[0].Value {
		t.Fatalf("FromRequest = %+v %q %v", id, tok, err)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	r.Header.Set("Authorization", "Bearer "+cookies[0].Value)
	if _, _, err := m.FromRequest(r); err != nil {
		t.Fatalf("bearer: %v", err)
	}

	if _, _, err := m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); !errors.Is(err, ErrNoSession) {
		t.Fatalf("anonymous err = %v", err)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	Logout(rec, nil)
	c := rec.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 {
		t.Fatalf("cookie = %+v", c)
	}
}
