package web

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yanizio/viyakaptan/internal/apiclient"
	"github.com/yanizio/viyakaptan/internal/config"
	"github.com/yanizio/viyakaptan/internal/fallback"
	"github.com/yanizio/viyakaptan/internal/form"
	"github.com/yanizio/viyakaptan/internal/query"
	"github.com/yanizio/viyakaptan/internal/session"
)

var testCSRFKey = base64.RawURLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

const testSecret = "test-secret-0123456789"

// fakeAPI answers the handful of endpoints the pages touch.  When hold is
// non-nil, category creates block on it after signalling started.
// listDown fails the category list with 503; conflict fails creates.
type fakeAPI struct {
	creates  atomic.Int32
	updates  atomic.Int32
	started  chan struct{}
	hold     chan struct{}
	listDown bool
	conflict string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	json := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
	fail := func(w http.ResponseWriter, status int, code, msg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + msg + `"}}`))
	}
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, _ *http.Request) {
		if f.listDown {
			fail(w, http.StatusServiceUnavailable, "UNREACHABLE", "veritabanı kapalı")
			return
		}
		json(w, `[{"id":1,"name":"Denizcilik","slug":"denizcilik","isActive":true}]`)
	})
	mux.HandleFunc("PUT /api/categories/{id}", func(w http.ResponseWriter, _ *http.Request) {
		f.updates.Add(1)
		json(w, `{"id":1,"name":"Yeni Ad","slug":"denizcilik","isActive":true}`)
	})
	mux.HandleFunc("GET /api/settings", func(w http.ResponseWriter, _ *http.Request) {
		json(w, `[{"key":"site_title","value":"Viya Test"}]`)
	})
	mux.HandleFunc("GET /api/posts/by-slug/{slug}", func(w http.ResponseWriter, _ *http.Request) { json(w, "null") })
	mux.HandleFunc("GET /api/dashboard/stats", func(w http.ResponseWriter, _ *http.Request) {
		json(w, `{"posts":3,"routes":2,"categories":1,"pages":4}`)
	})
	mux.HandleFunc("POST /api/categories", func(w http.ResponseWriter, _ *http.Request) {
		f.creates.Add(1)
		if f.conflict != "" {
			fail(w, http.StatusConflict, "CONFLICT", f.conflict)
			return
		}
		if f.hold != nil {
			f.started <- struct{}{}
			<-f.hold
		}
		w.WriteHeader(http.StatusCreated)
		json(w, `{"id":1,"name":"Denizcilik","slug":"denizcilik","isActive":true}`)
	})
	return mux
}

func newSite(t *testing.T, apiURL string) (http.Handler, *session.Manager) {
	t.Helper()
	sessions := session.New(testSecret, time.Hour)
	q := query.New(apiclient.New(apiURL, nil), query.NewMemory(64, time.Minute))
	h := New(q, sessions, Options{
		Auth:    config.Auth{JWTSecret: testSecret, AdminEmails: []string{"admin@example.com"}},
		CSRFKey: testCSRFKey,
	})
	return h, sessions
}

func withSession(t *testing.T, req *http.Request, m *session.Manager, role string) {
	t.Helper()
	tok, err := m.Issue(session.Identity{Name: "Test", Email: "admin@example.com", Role: role})
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
}

func csrfToken(t *testing.T) string {
	t.Helper()
	tok, err := form.NewCSRF(testCSRFKey).Token()
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func postForm(target string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

/*──────────────────────────── public ───────────────────────────────────────*/

func TestHomeFallsBackWhenAPIUnreachable(t *testing.T) {
	site, _ := newSite(t, "http://127.0.0.1:1")
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), fallback.Banner) {
		t.Fatal("fallback banner missing")
	}
}

func TestSamplePostServedInFallback(t *testing.T) {
	site, _ := newSite(t, "http://127.0.0.1:1")
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/tekne-bakimi-ilkbahar-hazirligi", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUnknownPostIs404(t *testing.T) {
	api := httptest.NewServer((&fakeAPI{}).handler())
	defer api.Close()
	site, _ := newSite(t, api.URL)

	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/yok-boyle-bir-yazi", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Yazı Bulunamadı") {
		t.Fatal("not-found copy missing")
	}
	if strings.Contains(body, fallback.Banner) {
		t.Fatal("live 404 must not show the fallback banner")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	site, _ := newSite(t, "http://127.0.0.1:1")
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nereye", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

/*──────────────────────────── admin gate ───────────────────────────────────*/

func TestAdminGateScreens(t *testing.T) {
	site, sessions := newSite(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Giriş Yap") {
		t.Fatalf("anonymous: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	withSession(t, req, sessions, session.RoleUser)
	rec = httptest.NewRecorder()
	site.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), "Erişim Engellendi") {
		t.Fatalf("non-admin: %d", rec.Code)
	}
}

func TestDashboardShowsStats(t *testing.T) {
	api := httptest.NewServer((&fakeAPI{}).handler())
	defer api.Close()
	site, sessions := newSite(t, api.URL)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sürüm "+Version) {
		t.Fatal("version footer missing")
	}
}

/*──────────────────────────── admin writes ─────────────────────────────────*/

func TestCreateRejectsMissingCSRF(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	site, sessions := newSite(t, srv.URL)

	req := postForm("/admin/categories", url.Values{"name": {"Denizcilik"}})
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if api.creates.Load() != 0 {
		t.Fatal("API called without a valid token")
	}
}

func TestCreateRedirectsWithFlash(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	site, sessions := newSite(t, srv.URL)

	req := postForm("/admin/categories", url.Values{
		form.FieldName: {csrfToken(t)},
		"name":         {"Denizcilik"},
		"sortOrder":    {"0"},
		"isActive":     {"true"},
	})
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/categories" {
		t.Fatalf("status = %d location = %q body = %s", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
	flashed := false
	for _, c := range rec.Result().Cookies() {
		flashed = flashed || (c.Name == "viya_flash" && c.Value != "")
	}
	if !flashed {
		t.Fatal("flash cookie missing")
	}
	if api.creates.Load() != 1 {
		t.Fatalf("creates = %d", api.creates.Load())
	}
}

func TestDuplicateSubmitRefused(t *testing.T) {
	api := &fakeAPI{started: make(chan struct{}), hold: make(chan struct{})}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	site, sessions := newSite(t, srv.URL)

	v := url.Values{
		form.FieldName: {csrfToken(t)},
		"name":         {"Denizcilik"},
		"sortOrder":    {"0"},
	}

	first := make(chan int, 1)
	req := postForm("/admin/categories", v)
	withSession(t, req, sessions, session.RoleAdmin)
	go func() {
		rec := httptest.NewRecorder()
		site.ServeHTTP(rec, req)
		first <- rec.Code
	}()
	<-api.started

	req = postForm("/admin/categories", v)
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d", rec.Code)
	}

	close(api.hold)
	if code := <-first; code != http.StatusSeeOther {
		t.Fatalf("first submit status = %d", code)
	}
	if api.creates.Load() != 1 {
		t.Fatalf("creates = %d", api.creates.Load())
	}
}

func TestFailedCreateReopensFormWithDraft(t *testing.T) {
	api := &fakeAPI{conflict: "Bu kategori zaten mevcut: denizcilik"}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	site, sessions := newSite(t, srv.URL)

	req := postForm("/admin/categories", url.Values{
		form.FieldName: {csrfToken(t)},
		"name":         {"Denizcilik"},
		"description":  {"Tekne bakımı yazıları"},
		"sortOrder":    {"0"},
	})
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`role="dialog"`,
		`value="Denizcilik"`,
		"Tekne bakımı yazıları",
		"Bu kategori zaten mevcut: denizcilik",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestEditKeepsDraftWhenListFails(t *testing.T) {
	api := &fakeAPI{listDown: true}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	site, sessions := newSite(t, srv.URL)

	req := postForm("/admin/categories/1", url.Values{
		form.FieldName: {csrfToken(t)},
		"name":         {"Yeni Ad"},
		"slug":         {"denizcilik"},
		"sortOrder":    {"0"},
	})
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if api.updates.Load() != 0 {
		t.Fatalf("updates = %d, want 0", api.updates.Load())
	}
	body := rec.Body.String()
	for _, want := range []string{`value="Yeni Ad"`, `action="/admin/categories/1"`, "veritabanı kapalı"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "Kayıt bulunamadı") {
		t.Error("load failure reported as a missing row")
	}
}

func TestEditUpdatesLoadedRow(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	site, sessions := newSite(t, srv.URL)

	req := postForm("/admin/categories/1", url.Values{
		form.FieldName: {csrfToken(t)},
		"name":         {"Yeni Ad"},
		"slug":         {"denizcilik"},
		"sortOrder":    {"0"},
	})
	withSession(t, req, sessions, session.RoleAdmin)
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if api.updates.Load() != 1 || api.creates.Load() != 0 {
		t.Fatalf("updates = %d creates = %d", api.updates.Load(), api.creates.Load())
	}
}

func TestLocalPath(t *testing.T) {
	cases := map[string]string{
		"/admin":           "/admin",
		"":                 "/",
		"//evil.example":   "/",
		"https://evil.com": "/",
		"/\\evil":          "/",
	}
	for in, want := range cases {
		if got := localPath(in, "/"); got != want {
			t.Errorf("localPath(%q) = %q, want %q", in, got, want)
		}
	}
}
