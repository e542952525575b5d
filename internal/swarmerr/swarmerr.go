// Package swarmerr defines the typed error kinds of spec.md §7. No
// exception ever leaves the engine boundary: every operation returns a
// typed error or nil.
package swarmerr

import "errors"

// Kind distinguishes the error categories spec.md §7 names.
type Kind string

const (
	BadInput         Kind = "bad_input"
	LexiconMissing   Kind = "lexicon_missing"
	QualityGate      Kind = "quality_gate"
	SerializerError  Kind = "serializer_error"
	PersistenceError Kind = "persistence_error"
	ModeInvalid      Kind = "mode_invalid"
)

// Error wraps an underlying cause with its Kind, so callers can branch
// on category without string-matching.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error of the given kind wrapping cause (which may be
// nil for a bare sentinel).
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Is reports whether err (or anything it wraps) is a swarmerr.Error of
// the given kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// ErrEmptyParticipants and ErrNaNBeauty are the two BadInput sentinels
// spec.md §7 names explicitly.
var (
	ErrEmptyParticipants = errors.New("consensus result has zero participants")
	ErrNaNBeauty         = errors.New("consensus result beauty is NaN")
)
