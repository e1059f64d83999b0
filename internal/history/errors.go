package history

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure kind. Every *Error matches exactly one of them
// through errors.Is.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrIDOverflow      = errors.New("instance id out of range [0,255]")
	ErrMalformedJSON   = errors.New("malformed annotation json")
)

// ErrorKind classifies history failures.
type ErrorKind int

const (
	// KindIndex reports an index outside the current items.
	KindIndex ErrorKind = iota
	// KindRange reports instance id exhaustion for a label.
	KindRange
	// KindFormat reports JSON input that does not match the expected schema.
	KindFormat
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindRange:
		return "range"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindIndex:
		return ErrIndexOutOfRange
	case KindRange:
		return ErrIDOverflow
	default:
		return ErrMalformedJSON
	}
}

// Error is returned by every failing History operation.
type Error struct {
	Kind  ErrorKind
	Op    string // operation that failed, e.g. "remove"
	Index int    // offending index for KindIndex
	Len   int    // number of items at the time of a KindIndex failure
	Label string // label for KindRange
	Err   error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch e.Kind {
	case KindIndex:
		fmt.Fprintf(&b, "%v: %d not in [0,%d)", ErrIndexOutOfRange, e.Index, e.Len)
	case KindRange:
		fmt.Fprintf(&b, "%v for label %q", ErrIDOverflow, e.Label)
	default:
		b.WriteString(ErrMalformedJSON.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func indexError(op string, idx, n int) error {
	return &Error{Kind: KindIndex, Op: op, Index: idx, Len: n}
}

func formatError(op string, format string, args ...any) error {
	return &Error{Kind: KindFormat, Op: op, Err: fmt.Errorf(format, args...)}
}
