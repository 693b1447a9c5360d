// internal/api/api_test.go
//
// Handler tests: sqlmock behind the real store, disk storage in a temp dir.
//
// Run: go test ./internal/api -v

package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/viyakaptan/internal/session"
	"github.com/yanizio/viyakaptan/internal/storage"
	"github.com/yanizio/viyakaptan/internal/store"
)

const testSecret = "0123456789abcdef-api"

type fixture struct {
	h     http.Handler
	mock  sqlmock.Sqlmock
	dir   string
	admin string
	user  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	blobs, err := storage.NewDisk(dir, "/media")
	if err != nil {
		t.Fatal(err)
	}
	m := session.New(testSecret, time.Hour)
	admin, _ := m.Issue(session.Identity{Email: "k@viyakaptan.com", Role: session.RoleAdmin})
	user, _ := m.Issue(session.Identity{Email: "u@example.com", Role: session.RoleUser})

	h := New(store.New(sqlx.NewDb(db, "mysql")), blobs, m, Options{MediaDir: dir})
	return &fixture{h: h, mock: mock, dir: dir, admin: admin, user: user}
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, path, rd)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, r)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) wireError {
	t.Helper()
	var b errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("error body %q: %v", rec.Body, err)
	}
	return b.Error
}

func (f *fixture) verify(t *testing.T) {
	t.Helper()
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestListPassesFilter(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM posts WHERE is_published = TRUE ORDER BY published_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).AddRow(1, "Karavanla Kapadokya", "karavanla-kapadokya"))

	rec := f.do(http.MethodGet, "/api/posts?publishedOnly=true", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var rows []map[string]any
	json.Unmarshal(rec.Body.Bytes(), &rows)
	if len(rows) != 1 || rows[0]["slug"] != "karavanla-kapadokya" {
		t.Fatalf("rows = %v", rows)
	}
	f.verify(t)
}

func TestBySlugMissingReturnsNull(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = ?")).
		WithArgs("yok").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := f.do(http.MethodGet, "/api/categories/by-slug/yok", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("got %d %q", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestMutationsNeedAdmin(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"name": "Rotalar", "slug": "rotalar"}

	if rec := f.do(http.MethodPost, "/api/categories", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/api/categories", f.user, body); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin = %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/media/1", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", rec.Code)
	}
	f.verify(t)
}

func TestCreateConflict(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	rec := f.do(http.MethodPost, "/api/categories", f.admin, map[string]any{"name": "Rotalar", "slug": "rotalar"})
	if rec.Code != http.StatusConflict || decodeErr(t, rec).Code != "CONFLICT" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestCreateValidationNamesField(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/posts", f.admin, map[string]any{"slug": "x"})
	e := decodeErr(t, rec)
	if rec.Code != http.StatusBadRequest || e.Code != "VALIDATION" || e.Field != "title" {
		t.Fatalf("got %d %+v", rec.Code, e)
	}
}

func TestDeleteMissingIs404(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM hero_sections WHERE id = ?")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := f.do(http.MethodDelete, "/api/hero/42", f.admin, nil)
	if rec.Code != http.StatusNotFound || decodeErr(t, rec).Code != "NOT_FOUND" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestDeleteOK(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feature_cards WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if rec := f.do(http.MethodDelete, "/api/features/2", f.admin, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestSettingsUnknownKeyRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPut, "/api/settings", f.admin, []map[string]string{{"key": "site_title", "value": "V"}, {"key": "evil", "value": "x"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestUploadStoresBlobAndRow(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "rota.png", "image/png", 5, "", "").
		WillReturnResult(sqlmock.NewResult(9, 1))
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM media WHERE id = ?")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "original_name"}).AddRow(9, "rota.png"))

	rec := f.do(http.MethodPost, "/api/media", f.admin, map[string]string{
		"filename": "rota.png",
		"mimeType": "image/png",
		"base64":   base64.StdEncoding.EncodeToString([]byte("hello")),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	var files int
	filepath.Walk(f.dir, func(_ string, info os.FileInfo, _ error) error {
		if info != nil && !info.IsDir() {
			files++
		}
		return nil
	})
	if files != 1 {
		t.Fatalf("stored %d blobs", files)
	}
	f.verify(t)
}

func TestUploadTooLarge(t *testing.T) {
	f := newFixture(t)
	big := base64.StdEncoding.EncodeToString(make([]byte, MaxUploadBytes+1))
	rec := f.do(http.MethodPost, "/api/media", f.admin, map[string]string{
		"filename": "big.bin", "mimeType": "application/octet-stream", "base64": big,
	})
	if rec.Code != http.StatusRequestEntityTooLarge || decodeErr(t, rec).Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestUploadRowFailureRemovesBlob(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media")).
		WillReturnError(context.DeadlineExceeded)

	rec := f.do(http.MethodPost, "/api/media", f.admin, map[string]string{
		"filename": "a.txt", "mimeType": "text/plain", "base64": base64.StdEncoding.EncodeToString([]byte("x")),
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rec.Code)
	}
	filepath.Walk(f.dir, func(p string, info os.FileInfo, _ error) error {
		if info != nil && !info.IsDir() {
			t.Errorf("blob left behind: %s", p)
		}
		return nil
	})
	f.verify(t)
}

func TestRecordViewAndStats(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET view_count = view_count + 1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts")).
		WillReturnRows(sqlmock.NewRows([]string{"posts", "routes", "categories", "pages"}).AddRow(1, 2, 3, 4))

	if rec := f.do(http.MethodPost, "/api/posts/3/view", "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("view = %d", rec.Code)
	}
	rec := f.do(http.MethodGet, "/api/dashboard/stats", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"pages":4`) {
		t.Fatalf("stats = %d %s", rec.Code, rec.Body)
	}
	f.verify(t)
}

func TestBadIDIsValidation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPut, "/api/team/abc", f.admin, map[string]string{"name": "x"})
	if rec.Code != http.StatusBadRequest || decodeErr(t, rec).Field != "id" {
		t.Fatalf("got %d %s", rec.Code, rec.Body)
	}
}
