// internal/web/crud.go
//
// Generic admin CRUD page.
//
// Context
// -------
// One entityPage per entity binds an editor schema to its cached
// collection plus the list columns.  Each request builds a fresh
// editor.Editor and walks it through the same transitions a dialog would:
//
//   GET  /admin/x              Idle (list)
//   GET  /admin/x?new=1        Open
//   GET  /admin/x?edit=ID      Edit(row)
//   POST /admin/x              Open → Apply → Submit
//   POST /admin/x/{id}         Edit(row) → Apply → Submit
//   GET  /admin/x/{id}/delete  confirmation prompt
//   POST /admin/x/{id}/delete  Delete(id, confirmed)
//
// The edit target comes from the cached list.  When that read fails the
// row is unknown rather than missing: a posted edit is re-rendered with
// the load error (editor.Reopen) and nothing is sent.
//
// A successful write flashes the editor's notice and redirects to the
// list.  A failed write re-renders the open form with the posted draft and
// the server's message; nothing is lost.
//
// Notes
// -----
// • The CSRF token names one rendered form.  form.Guard refuses a second
//   POST of the same token while the first is still in flight.

package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/editor"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/message"
	"github.com/yanizio/viyakaptan/internal/query"
	"github.com/yanizio/viyakaptan/internal/view"
)

// busyMessage answers a duplicate submit of an in-flight form.
const busyMessage = "İşlem devam ediyor, lütfen bekleyin"

const adminPrefix = "/admin"

// notFoundMessage answers an edit or delete of a row that is gone.
const notFoundMessage = "Kayıt bulunamadı"

// entityPage is one admin CRUD screen.
type entityPage[T, In any] struct {
	h       *Handler
	base    string
	schema  *editor.Schema[T, In]
	coll    *query.Collection[T, In]
	columns []string
	cells   func(T) []string
	label   func(T) string
	// options, when set, supplies per-request Select choices.
	options func(ctx context.Context) map[string][]editor.Option
}

type rowView struct {
	ID    int64
	Cells []string
}

type fieldView struct {
	Field   editor.Field
	Value   string
	Options []editor.Option
	Checked bool
}

type formView struct {
	Title       string
	Action      string
	Editing     bool
	SlugTouched bool
	Fields      []fieldView
}

type entityData struct {
	Copy      editor.Copy
	Base      string
	Columns   []string
	Rows      []rowView
	LoadError string
	Form      *formView
}

type confirmData struct {
	Prompt  string
	Subject string
	Action  string
	Back    string
}

// mount registers the page on the /admin sub-router.
func (p *entityPage[T, In]) mount(r chi.Router) {
	rel := strings.TrimPrefix(p.base, adminPrefix)
	r.Get(rel, p.list)
	r.Post(rel, p.submit)
	r.Post(rel+"/{id}", p.submit)
	r.Get(rel+"/{id}/delete", p.confirm)
	r.Post(rel+"/{id}/delete", p.remove)
}

//
// handlers
//

func (p *entityPage[T, In]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows, loadErr := p.coll.List(ctx, content.Filter{})
	ed := p.newEditor(ctx)

	q := r.URL.Query()
	switch {
	case q.Get("new") != "":
		_ = ed.Open()
	case q.Get("edit") != "":
		row, ok := p.find(rows, q.Get("edit"))
		switch {
		case ok:
			_ = ed.Edit(row)
		case loadErr != nil:
			// Listed below as a load error; no form without the row.
		default:
			message.Flash(w, message.Error(notFoundMessage))
			http.Redirect(w, r, p.base, http.StatusSeeOther)
			return
		}
	}
	p.render(w, r, http.StatusOK, ed, rows, loadErr, false)
}

func (p *entityPage[T, In]) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	release, ok := p.h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	rows, loadErr := p.coll.List(ctx, content.Filter{})
	ed := p.newEditor(ctx)
	slugTouched := r.PostForm.Get(editor.SlugTouchedField) != ""

	if idText := chi.URLParam(r, "id"); idText != "" {
		row, found := p.find(rows, idText)
		switch {
		case found:
			_ = ed.Edit(row)
		case loadErr != nil:
			id, err := strconv.ParseInt(idText, 10, 64)
			if err != nil {
				p.h.notFound(w, r)
				return
			}
			_ = ed.Reopen(id, r.PostForm, loadErr)
			p.render(w, r, errs.Status(loadErr), ed, rows, loadErr, slugTouched)
			return
		default:
			message.Flash(w, message.Error(notFoundMessage))
			http.Redirect(w, r, p.base, http.StatusSeeOther)
			return
		}
	} else {
		_ = ed.Open()
	}
	ed.Apply(r.PostForm)

	if _, err := ed.Submit(ctx); err != nil {
		status := errs.Status(err)
		if errors.Is(err, editor.ErrBusy) {
			status = http.StatusConflict
		}
		p.render(w, r, status, ed, rows, loadErr, slugTouched)
		return
	}
	message.Flash(w, ed.Notice())
	http.Redirect(w, r, p.base, http.StatusSeeOther)
}

func (p *entityPage[T, In]) confirm(w http.ResponseWriter, r *http.Request) {
	idText := chi.URLParam(r, "id")
	if _, err := strconv.ParseInt(idText, 10, 64); err != nil {
		p.h.notFound(w, r)
		return
	}
	rows, loadErr := p.coll.List(r.Context(), content.Filter{})
	subject := "#" + idText
	row, ok := p.find(rows, idText)
	switch {
	case ok:
		subject = p.label(row)
	case loadErr != nil:
		// Delete only needs the id; ask with the bare id.
	default:
		message.Flash(w, message.Error(notFoundMessage))
		http.Redirect(w, r, p.base, http.StatusSeeOther)
		return
	}
	f := p.h.adminFrame(w, r, p.schema.Copy.Heading)
	f.Data = confirmData{
		Prompt:  p.schema.Copy.Confirm,
		Subject: subject,
		Action:  p.base + "/" + idText + "/delete",
		Back:    p.base,
	}
	p.h.views.Render(w, http.StatusOK, view.Admin, "confirm", f)
}

func (p *entityPage[T, In]) remove(w http.ResponseWriter, r *http.Request) {
	release, ok := p.h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		p.h.notFound(w, r)
		return
	}
	ed := editor.New(p.schema, p.coll)
	err = ed.Delete(r.Context(), id, func(string) bool { return r.PostForm.Get("confirm") == "yes" })
	if errors.Is(err, editor.ErrNotConfirmed) {
		http.Redirect(w, r, p.base, http.StatusSeeOther)
		return
	}
	message.Flash(w, ed.Notice())
	http.Redirect(w, r, p.base, http.StatusSeeOther)
}

//
// helpers
//

func (p *entityPage[T, In]) newEditor(ctx context.Context) *editor.Editor[T, In] {
	ed := editor.New(p.schema, p.coll)
	if p.options != nil {
		for field, opts := range p.options(ctx) {
			ed.SetOptions(field, opts)
		}
	}
	return ed
}

func (p *entityPage[T, In]) find(rows []T, idText string) (T, bool) {
	var zero T
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return zero, false
	}
	for _, row := range rows {
		if p.schema.ID(row) == id {
			return row, true
		}
	}
	return zero, false
}

func (p *entityPage[T, In]) render(w http.ResponseWriter, r *http.Request, status int, ed *editor.Editor[T, In], rows []T, loadErr error, slugTouched bool) {
	f := p.h.adminFrame(w, r, p.schema.Copy.Heading)
	if n := ed.Notice(); !n.IsZero() {
		f.Notice = n
	}

	data := entityData{
		Copy:    p.schema.Copy,
		Base:    p.base,
		Columns: p.columns,
	}
	if loadErr != nil {
		data.LoadError = errs.Message(loadErr)
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, rowView{ID: p.schema.ID(row), Cells: p.cells(row)})
	}

	if ed.IsOpen() {
		fv := &formView{Title: ed.Title(), Action: p.base, SlugTouched: slugTouched}
		if id, editing := ed.EditingID(); editing {
			fv.Editing = true
			fv.Action = p.base + "/" + strconv.FormatInt(id, 10)
		}
		d := ed.Draft()
		for _, fld := range p.schema.Fields {
			fv.Fields = append(fv.Fields, fieldView{
				Field:   fld,
				Value:   d[fld.Name],
				Options: ed.Options(fld.Name),
				Checked: d.Bool(fld.Name),
			})
		}
		data.Form = fv
	}
	f.Data = data
	p.h.views.Render(w, status, view.Admin, "entity", f)
}

// acquire parses the form (a multipart form must be parsed before the
// call), checks the CSRF token, and claims it in the in-flight guard.  On
// failure the response is already written.
func (h *Handler) acquire(w http.ResponseWriter, r *http.Request) (func(), bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "geçersiz form", http.StatusBadRequest)
		return nil, false
	}
	tok, err := h.csrf.Check(r)
	if err != nil {
		zap.L().Info("csrf rejected", zap.String("path", r.URL.Path))
		http.Error(w, "Oturum süresi doldu, sayfayı yenileyip tekrar deneyin", http.StatusForbidden)
		return nil, false
	}
	release, ok := h.guard.Acquire(tok)
	if !ok {
		http.Error(w, busyMessage, http.StatusConflict)
		return nil, false
	}
	return release, true
}
