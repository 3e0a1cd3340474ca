// Package apperr holds the error taxonomy shared by the store, the pages and
// the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindStore
	KindUpload
	KindRender
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	case KindUpload:
		return "upload"
	case KindRender:
		return "render"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Status maps the kind to the HTTP status the API answers with.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindStore, KindUpload, KindRender:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged failure carrying a message meant for the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Store(msg string, err error) *Error { return &Error{Kind: KindStore, Message: msg, Err: err} }

func Upload(msg string, err error) *Error { return &Error{Kind: KindUpload, Message: msg, Err: err} }

func Render(msg string, err error) *Error { return &Error{Kind: KindRender, Message: msg, Err: err} }

// InternalMessage is shown for failures outside the taxonomy.
const InternalMessage = "Erro inesperado no servidor"

// PublicMessage is the text a client may see: the Message of an *Error,
// never its wrapped cause.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return InternalMessage
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
