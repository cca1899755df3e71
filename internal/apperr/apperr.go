// Package apperr classifies domain failures so the HTTP boundary can
// map them to stable status codes without inspecting error text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err. Unclassified errors count as
// internal so they never leak detail past the boundary.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

func IsNotFound(err error) bool  { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool  { return IsKind(err, KindConflict) }
func IsAuth(err error) bool      { return IsKind(err, KindAuth) }
func IsForbidden(err error) bool { return IsKind(err, KindForbidden) }
