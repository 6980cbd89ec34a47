package plan

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures.
type Kind string

const (
	// KindTransport means the completion call itself failed (network, auth, timeout).
	KindTransport Kind = "transport"
	// KindParse means text came back but no JSON could be recovered from it.
	KindParse Kind = "parse"
	// KindValidation means JSON was recovered but breaks the plan contract.
	KindValidation Kind = "validation"
	// KindConfiguration means required configuration (credentials, templates) is missing.
	KindConfiguration Kind = "configuration"
)

// Error is the tagged error value every pipeline stage returns.
type Error struct {
	Kind    Kind
	Op      string // stage that failed, e.g. "assemble.core"
	Message string
	Raw     string // raw model output, when available
	Parsed  any    // recovered JSON, when available
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates an Error with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with a kind and stage, keeping the inner message.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost tagged error in the chain, or "".
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err is tagged with kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// RawOf returns the first raw model output attached anywhere in the chain.
func RawOf(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if pe, ok := e.(*Error); ok && pe.Raw != "" {
			return pe.Raw
		}
	}
	return ""
}

// ParsedOf returns the first recovered JSON attached anywhere in the chain.
func ParsedOf(err error) any {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if pe, ok := e.(*Error); ok && pe.Parsed != nil {
			return pe.Parsed
		}
	}
	return nil
}
