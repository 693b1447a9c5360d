// internal/editor/editor.go
//
// Generic admin entity editor: the list/dialog/submit/delete state machine
// shared by every CRUD page, with no rendering surface of its own.
//
// States
// ------
//
//	Idle ──Open──────▶ Creating ─┐
//	Idle ──Edit(row)─▶ Editing  ─┼─Submit─▶ Submitting ─ok──▶ Idle
//	                             │                      └err─▶ back (draft kept)
//	Idle ──Delete(id, confirm)─▶ Deleting ─▶ Idle
//	Idle ──Reopen(id, form)─▶ Editing (held until the row can be read)
//
// Notes
// -----
// • Submit from Creating always creates; from Editing always updates the
//   row being edited.  Never both.
// • A second Submit or Delete while one is in flight returns ErrBusy and
//   issues nothing.
// • Cache invalidation is the Store's job (query.Collection does it on
//   success only).  The editor only resets its own draft.
// • Errors are reported as a notice carrying the server's message verbatim.

package editor

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/message"
	"github.com/yanizio/viyakaptan/internal/routing"
)

// State of one editor.
type State int

const (
	Idle State = iota
	Creating
	Editing
	Submitting
	Deleting
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Deleting:
		return "deleting"
	default:
		return "idle"
	}
}

var (
	// ErrBusy rejects an action while a write is in flight.
	ErrBusy = errors.New("editor: a request is already in progress")
	// ErrNotOpen rejects Submit without an open form, or Open/Edit with one.
	ErrNotOpen = errors.New("editor: invalid state for this action")
	// ErrNotConfirmed is returned when the delete prompt was declined.
	ErrNotConfirmed = errors.New("editor: delete not confirmed")
)

// Store is the write side an editor drives.
type Store[T, In any] interface {
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, in In) (T, error)
	Delete(ctx context.Context, id int64) error
}

// SlugTouchedField is the form key the page sets once the user has typed
// into the slug field.
const SlugTouchedField = "slugTouched"

// Editor is safe for concurrent use.
type Editor[T, In any] struct {
	schema *Schema[T, In]
	store  Store[T, In]
	now    func() time.Time

	mu          sync.Mutex
	state       State
	back        State // state restored when a submit fails
	editID      int64
	editing     bool
	orig        *T
	held        error // set by Reopen; Submit refuses while present
	draft       Draft
	slugTouched bool
	deleting    int64
	notice      message.Notice
	options     map[string][]Option
}

// New returns an Idle editor.
func New[T, In any](schema *Schema[T, In], store Store[T, In]) *Editor[T, In] {
	return &Editor[T, In]{schema: schema, store: store, now: time.Now}
}

// Schema exposes the bound schema to templates.
func (e *Editor[T, In]) Schema() *Schema[T, In] { return e.schema }

// State reports the current state.
func (e *Editor[T, In]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsOpen reports whether the form dialog is shown.
func (e *Editor[T, In]) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == Creating || e.state == Editing ||
		(e.state == Submitting && (e.back == Creating || e.back == Editing))
}

// EditingID returns the edit target, if any.
func (e *Editor[T, In]) EditingID() (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editID, e.editing
}

// Title is the dialog title for the current mode.
func (e *Editor[T, In]) Title() string {
	if _, editing := e.EditingID(); editing {
		return e.schema.Copy.EditTitle
	}
	return e.schema.Copy.NewTitle
}

// Draft returns a copy of the current draft.
func (e *Editor[T, In]) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Notice returns the last outcome message.
func (e *Editor[T, In]) Notice() message.Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notice
}

// SetOptions replaces the choices of a Select field for this editor.
func (e *Editor[T, In]) SetOptions(field string, opts []Option) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.options == nil {
		e.options = map[string][]Option{}
	}
	e.options[field] = opts
}

// Options returns the choices of a Select field.
func (e *Editor[T, In]) Options(field string) []Option {
	e.mu.Lock()
	defer e.mu.Unlock()
	if opts, ok := e.options[field]; ok {
		return opts
	}
	f, _ := e.schema.Field(field)
	return f.Options
}

//
// transitions
//

// Open starts a create form with schema defaults.
func (e *Editor[T, In]) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle {
		return e.stateErr()
	}
	e.state = Creating
	e.editID, e.editing, e.orig = 0, false, nil
	e.draft = e.schema.Defaults()
	e.slugTouched = false
	return nil
}

// Edit starts an edit form populated from row.
func (e *Editor[T, In]) Edit(row T) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle {
		return e.stateErr()
	}
	d := e.schema.Defaults()
	for k, v := range e.schema.Draft(row) {
		d[k] = v
	}
	e.state = Editing
	e.editID, e.editing, e.orig = e.schema.ID(row), true, &row
	e.draft = d
	return nil
}

// Reopen shows the edit form for id with a posted draft when the row
// itself could not be read.  cause becomes the notice, and Submit returns
// it without calling the store: an update needs the original row.
func (e *Editor[T, In]) Reopen(id int64, form url.Values, cause error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle {
		return e.stateErr()
	}
	e.state = Editing
	e.editID, e.editing, e.orig = id, true, nil
	e.draft = e.schema.Defaults()
	e.apply(form)
	e.held = cause
	e.notice = message.Error(errs.Message(cause))
	return nil
}

// Close abandons the form.
func (e *Editor[T, In]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Creating || e.state == Editing {
		e.reset()
	}
}

// Set changes one draft field the way typing into it would.  Typing into
// the slug source while creating re-derives the slug until the slug itself
// has been typed into.
func (e *Editor[T, In]) Set(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Creating && e.state != Editing {
		return
	}
	e.set(name, value)
}

func (e *Editor[T, In]) set(name, value string) {
	e.draft[name] = value
	switch {
	case name == "slug":
		e.slugTouched = true
	case name == e.schema.SlugFrom && e.state == Creating && !e.slugTouched:
		e.draft["slug"] = routing.MakeSlug(value)
	}
}

// Apply loads a submitted form into the draft.  Unchecked checkboxes are
// absent from a form post and read as false.
func (e *Editor[T, In]) Apply(form url.Values) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Creating && e.state != Editing {
		return
	}
	e.apply(form)
}

func (e *Editor[T, In]) apply(form url.Values) {
	for _, f := range e.schema.Fields {
		if f.Name == "slug" {
			continue
		}
		if f.Kind == Checkbox {
			e.draft[f.Name] = boolText(form.Get(f.Name) != "")
			continue
		}
		if vs, ok := form[f.Name]; ok && len(vs) > 0 {
			e.set(f.Name, vs[0])
		}
	}

	if _, hasSlug := e.schema.Field("slug"); !hasSlug {
		return
	}
	typed := strings.TrimSpace(form.Get("slug"))
	derived := routing.MakeSlug(e.draft[e.schema.SlugFrom])
	if form.Get(SlugTouchedField) != "" || (typed != "" && typed != derived) {
		e.set("slug", typed)
		return
	}
	if e.state == Creating {
		e.draft["slug"] = derived
	} else {
		e.draft["slug"] = typed
	}
}

// Submit sends the draft.  On success the editor returns to Idle with a
// success notice; on failure it returns to the open form, draft intact,
// with an error notice.
func (e *Editor[T, In]) Submit(ctx context.Context) (T, error) {
	var zero T

	e.mu.Lock()
	if e.state == Submitting || e.state == Deleting {
		e.mu.Unlock()
		return zero, ErrBusy
	}
	if e.state != Creating && e.state != Editing {
		e.mu.Unlock()
		return zero, ErrNotOpen
	}
	if e.held != nil {
		err := e.held
		e.mu.Unlock()
		return zero, err
	}
	in, err := e.schema.Input(e.draft.Clone(), e.orig, e.now())
	if err != nil {
		e.notice = message.Error(errs.Message(err))
		e.mu.Unlock()
		return zero, err
	}
	e.back, e.state = e.state, Submitting
	id, editing := e.editID, e.editing
	e.mu.Unlock()

	var row T
	if editing {
		row, err = e.store.Update(ctx, id, in)
	} else {
		row, err = e.store.Create(ctx, in)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = e.back
		e.notice = message.Error(errs.Message(err))
		zap.L().Info("editor submit failed",
			zap.String("entity", e.schema.Entity), zap.Bool("update", editing), zap.Error(err))
		return zero, err
	}
	e.reset()
	if editing {
		e.notice = message.Success(e.schema.Copy.updated())
	} else {
		e.notice = message.Success(e.schema.Copy.created())
	}
	return row, nil
}

// Delete asks confirm with the page's prompt and, only when it returns
// true, deletes id.  The editor must be Idle.
func (e *Editor[T, In]) Delete(ctx context.Context, id int64, confirm func(prompt string) bool) error {
	e.mu.Lock()
	if e.state == Submitting || e.state == Deleting {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.state != Idle {
		e.mu.Unlock()
		return ErrNotOpen
	}
	prompt := e.schema.Copy.Confirm
	e.mu.Unlock()

	if confirm == nil || !confirm(prompt) {
		return ErrNotConfirmed
	}

	e.mu.Lock()
	if e.state != Idle {
		e.mu.Unlock()
		return ErrBusy
	}
	e.state, e.deleting = Deleting, id
	e.mu.Unlock()

	err := e.store.Delete(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, e.deleting = Idle, 0
	if err != nil {
		e.notice = message.Error(errs.Message(err))
		return err
	}
	e.notice = message.Success(e.schema.Copy.deleted())
	return nil
}

// reset returns to Idle with no draft.  Caller holds mu.
func (e *Editor[T, In]) reset() {
	e.state = Idle
	e.editID, e.editing, e.orig = 0, false, nil
	e.draft = nil
	e.slugTouched = false
	e.held = nil
}

func (e *Editor[T, In]) stateErr() error {
	if e.state == Submitting || e.state == Deleting {
		return ErrBusy
	}
	return ErrNotOpen
}
