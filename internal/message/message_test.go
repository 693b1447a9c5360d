package message

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlashSurvivesRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	Flash(rec, Success("Kategori başarıyla oluşturuldu"))

	req := httptest.NewRequest(http.MethodGet, "/admin/categories", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	rec2 := httptest.NewRecorder()
	n, ok := Pop(rec2, req)
	if !ok || n.Text != "Kategori başarıyla oluşturuldu" || n.IsError() {
		t.Fatalf("Pop = %#v, %v", n, ok)
	}
	cleared := rec2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("flash cookie not cleared: %#v", cleared)
	}
}

func TestPopWithoutCookie(t *testing.T) {
	if _, ok := Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("unexpected notice")
	}
}

func TestFlashIgnoresEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	Flash(rec, Notice{})
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("empty notice set a cookie")
	}
}
