package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
})

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(true)(ok)

	req := httptest.NewRequest(http.MethodGet, "http://viyakaptan.com/blog?category=x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("code = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://viyakaptan.com/blog?category=x" {
		t.Fatalf("location = %q", loc)
	}

	req = httptest.NewRequest(http.MethodGet, "http://viyakaptan.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("proxied https redirected: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("localhost redirected: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "http://viyakaptan.com/", nil)
	rec = httptest.NewRecorder()
	ForceHTTPS(false)(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("disabled still redirected: %d", rec.Code)
	}
}

func TestSecurityHeadersSurviveBodyWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Security(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("X-Frame-Options missing")
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "img-src 'self' data: https:") {
		t.Fatalf("csp = %q", csp)
	}
}

func TestRecover(t *testing.T) {
	rec := httptest.NewRecorder()
	Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestAccessLogPassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	AccessLog(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
