package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yanizio/viyakaptan/internal/auth"
	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
)

func TestListSendsFilterAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" || r.URL.Query().Get("publishedOnly") != "true" {
			t.Errorf("request %s", r.URL)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("auth header %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode([]content.Post{{ID: 1, Slug: "a"}})
	}))
	defer srv.Close()

	ctx := auth.WithSession(context.Background(), &auth.Session{Token: "tok-1"})
	got, err := New(srv.URL, nil).Posts.List(ctx, content.Filter{PublishedOnly: true})
	if err != nil || len(got) != 1 || got[0].Slug != "a" {
		t.Fatalf("List = %#v, %v", got, err)
	}
}

func TestErrorBodyBecomesTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"CONFLICT","message":"Bu kategori zaten mevcut"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Categories.Create(context.Background(), content.CategoryInput{Name: "A", Slug: "a"})
	if !errors.Is(err, errs.ErrConflict) || errs.Message(err) != "Bu kategori zaten mevcut" {
		t.Fatalf("err = %v", err)
	}
}

func TestValidationFieldSurvives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"VALIDATION","message":"title alanı zorunludur","field":"title"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Posts.Update(context.Background(), 1, content.PostInput{})
	var e *errs.Error
	if !errors.As(err, &e) || e.Field != "title" || !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %#v", err)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Hero.List(context.Background(), content.Filter{})
	if !errors.Is(err, errs.ErrUnreachable) {
		t.Fatalf("err = %v", err)
	}
}

func TestBadGatewayWithoutBodyIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, nil).Homepage.Get(context.Background()); !errors.Is(err, errs.ErrUnreachable) {
		t.Fatalf("err = %v", err)
	}
}

func TestCancelledContextIsNotUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, nil).Team.List(ctx, content.Filter{})
	if !errors.Is(err, context.Canceled) || errors.Is(err, errs.ErrUnreachable) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetBySlugNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/routes/by-slug/kapadokya-cevresi" {
			t.Errorf("path %s", r.URL.Path)
		}
		w.Write([]byte("null\n"))
	}))
	defer srv.Close()

	got, err := New(srv.URL, nil).Routes.GetBySlug(context.Background(), "kapadokya-cevresi")
	if err != nil || got != nil {
		t.Fatalf("GetBySlug = %#v, %v", got, err)
	}
}

func TestUploadTooLargeNeverCallsAPI(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Media.Upload(context.Background(), Upload{Filename: "x.bin", Data: make([]byte, MaxUploadBytes+1)})
	if !errors.Is(err, errs.ErrPayloadTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("API was contacted")
	}
}

func TestDeleteAndRecordView(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	if err := c.Features.Delete(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	if err := c.Posts.RecordView(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "DELETE /api/features/4" || paths[1] != "POST /api/posts/9/view" {
		t.Fatalf("paths = %v", paths)
	}
}
