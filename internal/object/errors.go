// Package object implements technetium's runtime value model: the universal tagged
// ObjectRef, the built-in type variants, and the error taxonomy operations report.
package object

import "fmt"

// ErrorKind is the observable error taxonomy from the spec's error handling design.
type ErrorKind int

const (
	TypeError ErrorKind = iota
	AttributeError
	KeyError
	IndexOutOfBounds
	IntegerTooBig
	VariableUndefined
	MutateImmutable
	BorrowConflict
	ChildProcessError
	IOError
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case AttributeError:
		return "AttributeError"
	case KeyError:
		return "KeyError"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	case IntegerTooBig:
		return "IntegerTooBig"
	case VariableUndefined:
		return "VariableUndefined"
	case MutateImmutable:
		return "MutateImmutable"
	case BorrowConflict:
		return "BorrowConflict"
	case ChildProcessError:
		return "ChildProcessError"
	case IOError:
		return "IOError"
	case InternalError:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Span is a half-open byte range in a source file, attached to errors for diagnostics.
// Rendering a Span into a line/column message is a reporter's job, out of scope here.
type Span struct {
	File  string
	Start int
	End   int
}

// RuntimeError is the error type every operation in the object model and VM returns.
// It accumulates a span per frame as it unwinds, building a stack trace (spec §7).
type RuntimeError struct {
	Kind  ErrorKind
	Help  string
	Spans []Span
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Help)
}

// AttachSpan records a source location on the error, innermost-first.
func (e *RuntimeError) AttachSpan(s Span) *RuntimeError {
	e.Spans = append(e.Spans, s)
	return e
}

func newErr(kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Help: fmt.Sprintf(format, args...)}
}

func NewTypeError(format string, args ...interface{}) *RuntimeError {
	return newErr(TypeError, format, args...)
}

func NewAttributeError(format string, args ...interface{}) *RuntimeError {
	return newErr(AttributeError, format, args...)
}

func NewKeyError(format string, args ...interface{}) *RuntimeError {
	return newErr(KeyError, format, args...)
}

func NewIndexOutOfBounds(format string, args ...interface{}) *RuntimeError {
	return newErr(IndexOutOfBounds, format, args...)
}

func NewIntegerTooBig(format string, args ...interface{}) *RuntimeError {
	return newErr(IntegerTooBig, format, args...)
}

func NewVariableUndefined(format string, args ...interface{}) *RuntimeError {
	return newErr(VariableUndefined, format, args...)
}

func NewMutateImmutable(format string, args ...interface{}) *RuntimeError {
	return newErr(MutateImmutable, format, args...)
}

func NewBorrowConflict(format string, args ...interface{}) *RuntimeError {
	return newErr(BorrowConflict, format, args...)
}

func NewChildProcessError(format string, args ...interface{}) *RuntimeError {
	return newErr(ChildProcessError, format, args...)
}

func NewIOError(format string, args ...interface{}) *RuntimeError {
	return newErr(IOError, format, args...)
}

func NewInternalError(format string, args ...interface{}) *RuntimeError {
	return newErr(InternalError, format, args...)
}
