package store

import (
	"errors"
	"fmt"
)

// Kind categorizes store errors so callers can pick a message without
// inspecting driver errors.
type Kind string

const (
	// KindStore indicates the storage engine failed.
	KindStore Kind = "STORE_ERROR"

	// KindFileNotFound indicates an input file does not exist.
	KindFileNotFound Kind = "FILE_NOT_FOUND"

	// KindNotFound indicates no record matched a lookup.
	KindNotFound Kind = "NOT_FOUND"

	// KindNoTable indicates the members table has not been created.
	KindNoTable Kind = "NO_TABLE"

	// KindMalformedLine indicates an import line has fewer than three fields.
	KindMalformedLine Kind = "MALFORMED_LINE"
)

// Error is returned by every Store operation.
type Error struct {
	Kind Kind
	Op   string

	// Path is the file involved, for KindFileNotFound and KindMalformedLine.
	Path string

	// Key is the lookup value, for KindNotFound.
	Key string

	// Line is the 1-based line number, for KindMalformedLine.
	Line int

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	switch {
	case e.Line > 0:
		msg = fmt.Sprintf("%s (%s:%d)", msg, e.Path, e.Line)
	case e.Path != "":
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	case e.Key != "":
		msg = fmt.Sprintf("%s (%q)", msg, e.Key)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a store error, or "" if err is not one.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsNotFound reports whether err is a KindNotFound store error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func storeError(op string, err error) *Error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}
