package store

import (
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/pkg/errors"
)

// Kind classifies store failures.
type Kind int

const (
	// KindIO is a generic read, write or encoding failure.
	KindIO Kind = iota
	// KindValidation is a missing or placeholder credential.
	KindValidation
	// KindNotFound is an expected file that does not exist.
	KindNotFound
	// KindPermission is a write the filesystem refused.
	KindPermission
	// KindParse is a file whose content could not be decoded.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission"
	case KindParse:
		return "parse"
	default:
		return "io"
	}
}

// Error is returned by every Store operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Kind == KindPermission {
		return fmt.Sprintf("%s: permission denied, re-run with elevated privileges", msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying cause for github.com/pkg/errors.
func (e *Error) Cause() error {
	return e.Err
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// writeError classifies a failed filesystem write.
func writeError(op, path string, err error) *Error {
	if stderrors.Is(err, fs.ErrPermission) {
		return newError(KindPermission, op, path, err)
	}
	return newError(KindIO, op, path, errors.WithStack(err))
}

// KindOf returns the kind of a store error, and false for any other error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return KindIO, false
}

func isKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsValidation reports whether err is a credential validation failure.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err is a missing expected file.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsPermission reports whether err is a refused filesystem write.
func IsPermission(err error) bool { return isKind(err, KindPermission) }

// IsParse reports whether err is an undecodable file.
func IsParse(err error) bool { return isKind(err, KindParse) }
