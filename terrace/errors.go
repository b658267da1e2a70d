// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace

import "fmt"

// Kind is the kind of an error
// returned by the terrace functions.
type Kind int

// Valid error kinds.
const (
	// An invalid input:
	// missing data,
	// a taxon not in the matrix,
	// or inconsistent trees.
	KindConfig Kind = iota + 1

	// A read or write failure.
	KindIO

	// An edge that was not mapped
	// after linking a tree.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "i/o error"
	case KindMapping:
		return "mapping error"
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error is an error with a kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinel errors for each kind,
// to be used with errors.Is.
var (
	ErrConfig  = &Error{Kind: KindConfig}
	ErrIO      = &Error{Kind: KindIO}
	ErrMapping = &Error{Kind: KindMapping}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is returns true if the target is a sentinel error
// of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

func configErr(err error, format string, a ...any) *Error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, a...), Err: err}
}
