// Package errs is the error taxonomy shared by the data API, the API client,
// and the admin pages.
//
// Every failure the site reports falls into one of five kinds.  Each kind is
// a sentinel usable with errors.Is, maps to one HTTP status, and has a wire
// code so the client can rebuild the same typed error from a JSON body.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrUnreachable     = errors.New("api unreachable")
)

// Error carries a user-facing message on top of a sentinel kind.
type Error struct {
	Kind    error
	Message string
	Field   string // set for validation failures when known
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// Validation reports a missing or malformed field.
func Validation(field, msg string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: msg}
}

// Conflict reports a duplicate unique key (slug, settings key, object key).
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// NotFound reports a stale id or slug.
func NotFound(entity string, id any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s bulunamadı (id: %v)", entity, id)}
}

// PayloadTooLarge reports an upload over the size ceiling.
func PayloadTooLarge(msg string) error {
	return &Error{Kind: ErrPayloadTooLarge, Message: msg}
}

// Unreachable wraps a transport failure.
func Unreachable(cause error) error {
	return &Error{Kind: ErrUnreachable, Message: "API'ye ulaşılamıyor: " + cause.Error()}
}

//
// Wire mapping
//

var codes = []struct {
	kind   error
	code   string
	status int
}{
	{ErrValidation, "VALIDATION", http.StatusBadRequest},
	{ErrConflict, "CONFLICT", http.StatusConflict},
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{ErrPayloadTooLarge, "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
	{ErrUnreachable, "UNREACHABLE", http.StatusServiceUnavailable},
}

// Code returns the wire code for err, or "INTERNAL".
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.kind) {
			return c.code
		}
	}
	return "INTERNAL"
}

// Status returns the HTTP status for err, or 500.
func Status(err error) int {
	for _, c := range codes {
		if errors.Is(err, c.kind) {
			return c.status
		}
	}
	return http.StatusInternalServerError
}

// FromWire rebuilds a typed error from a decoded API error body.  Unknown
// codes fall back to the HTTP status.
func FromWire(status int, code, msg string) error {
	for _, c := range codes {
		if c.code == code {
			return &Error{Kind: c.kind, Message: msg}
		}
	}
	for _, c := range codes {
		if c.status == status {
			return &Error{Kind: c.kind, Message: msg}
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("api error %d: %s", status, msg)
}

// Message is the text shown to a user for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
