package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/metrics"
)

// repo is the shape every entity repository in internal/store shares.
type repo[T, In any] interface {
	List(ctx context.Context, f content.Filter) ([]T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, in In) (T, error)
	Delete(ctx context.Context, id int64) error
}

type slugRepo[T any] interface {
	GetBySlug(ctx context.Context, slug string) (*T, error)
}

// mountCRUD registers the five standard routes for one entity.  bySlug may
// be nil for entities without slugs.
func mountCRUD[T, In any](r chi.Router, s *Server, entity string, rp repo[T, In], bySlug slugRepo[T]) {
	r.Route("/"+entity, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rows, err := rp.List(r.Context(), parseFilter(r))
			if err != nil {
				writeErr(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, rows)
		})

		if bySlug != nil {
			r.Get("/by-slug/{slug}", func(w http.ResponseWriter, r *http.Request) {
				row, err := bySlug.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
				if err != nil {
					writeErr(w, r, err)
					return
				}
				// null body when missing; the client maps it to (nil, nil).
				writeJSON(w, http.StatusOK, row)
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				var in In
				if err := decodeBody(w, r, &in); err != nil {
					writeErr(w, r, err)
					return
				}
				row, err := rp.Create(r.Context(), in)
				countMutation(entity, "create", err)
				if err != nil {
					writeErr(w, r, err)
					return
				}
				writeJSON(w, http.StatusCreated, row)
			})

			r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
				id, err := pathID(r)
				if err != nil {
					writeErr(w, r, err)
					return
				}
				var in In
				if err := decodeBody(w, r, &in); err != nil {
					writeErr(w, r, err)
					return
				}
				row, err := rp.Update(r.Context(), id, in)
				countMutation(entity, "update", err)
				if err != nil {
					writeErr(w, r, err)
					return
				}
				writeJSON(w, http.StatusOK, row)
			})

			r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
				id, err := pathID(r)
				if err != nil {
					writeErr(w, r, err)
					return
				}
				err = rp.Delete(r.Context(), id)
				countMutation(entity, "delete", err)
				if err != nil {
					writeErr(w, r, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})
}

func parseFilter(r *http.Request) content.Filter {
	q := r.URL.Query()
	return content.Filter{
		ActiveOnly:    q.Get("activeOnly") == "true",
		PublishedOnly: q.Get("publishedOnly") == "true",
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("id", "geçersiz id")
	}
	return id, nil
}

func countMutation(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = errs.Code(err)
	}
	metrics.Mutations.WithLabelValues(entity, op, result).Inc()
	if err == nil {
		zap.S().Infow("mutation", "entity", entity, "op", op)
	}
}
