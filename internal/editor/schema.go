// internal/editor/schema.go
//
// Field schemas that parameterize the generic entity editor.
//
// Context
// -------
// Every admin CRUD page is the same state machine over a different set of
// fields.  A Schema names those fields (for rendering and draft defaults),
// the copy the page shows, and the two conversions the editor needs:
//
//   Draft(row)               row → flat string draft (edit)
//   Input(draft, orig, now)  draft → typed write payload (submit)
//
// Drafts are map[string]string.  Every field is always present, so a
// template never sees a missing key; booleans are "true"/"false" and list
// fields hold their joined text.

package editor

import (
	"strconv"
	"strings"
	"time"

	"github.com/yanizio/viyakaptan/internal/errs"
)

// Kind selects the input control for a field.
type Kind int

const (
	Text Kind = iota
	TextArea
	Number
	Checkbox
	Select
	List
	Email
	URL
)

// Option is one choice of a Select field.
type Option struct {
	Value string
	Label string
}

// Field describes one form control.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Default     string
	Placeholder string
	Options     []Option // Select; the page may replace them per request
	Sep         string   // List: content.SepComma or content.SepNewline
	Required    bool
	Wide        bool // spans both grid columns
}

// Draft is the editable, unsaved copy of an entity's fields.
type Draft map[string]string

// Clone returns an independent copy.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Bool reads a checkbox value.
func (d Draft) Bool(name string) bool { return d[name] == "true" }

// Int reads a number value; blank reads as 0.
func (d Draft) Int(name string) (int, error) {
	s := strings.TrimSpace(d[name])
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Validation(name, name+" bir sayı olmalıdır")
	}
	return n, nil
}

// Copy is the Turkish wording of one admin page.
type Copy struct {
	Heading    string // "Kategoriler"
	Subheading string // "Blog yazıları için kategorileri yönetin"
	Noun       string // "Kategori", used in notices
	NewTitle   string // "Yeni Kategori"
	EditTitle  string // "Kategori Düzenle"
	Empty      string // "Henüz kategori eklenmemiş"
	Confirm    string // "Bu kategoriyi silmek istediğinize emin misiniz?"
}

func (c Copy) created() string { return c.Noun + " başarıyla oluşturuldu" }
func (c Copy) updated() string { return c.Noun + " başarıyla güncellendi" }
func (c Copy) deleted() string { return c.Noun + " başarıyla silindi" }

// Schema binds fields and conversions for one entity.
type Schema[T, In any] struct {
	Entity   string
	Copy     Copy
	Fields   []Field
	SlugFrom string // source field for slug derivation; "" = no slug

	ID    func(T) int64
	Draft func(T) Draft
	Input func(d Draft, orig *T, now time.Time) (In, error)
}

// Defaults is a fresh draft for a create form.
func (s *Schema[T, In]) Defaults() Draft {
	d := make(Draft, len(s.Fields))
	for _, f := range s.Fields {
		d[f.Name] = f.Default
	}
	return d
}

// Field looks a field up by name.
func (s *Schema[T, In]) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func boolText(b bool) string { return strconv.FormatBool(b) }
func intText(n int) string   { return strconv.Itoa(n) }
