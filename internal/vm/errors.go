package vm

import "fmt"

// CompileErrorKind distinguishes the ways lowering an AST to bytecode can fail,
// mirroring original_source/src/error.rs's CompileErrorType.
type CompileErrorKind int

const (
	UndefinedVariable CompileErrorKind = iota
	InvalidAssignmentTarget
	DuplicateParameter
	BreakOutsideLoop
	ContinueOutsideLoop
	InvalidLiteral
)

func (k CompileErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case InvalidAssignmentTarget:
		return "InvalidAssignmentTarget"
	case DuplicateParameter:
		return "DuplicateParameter"
	case BreakOutsideLoop:
		return "BreakOutsideLoop"
	case ContinueOutsideLoop:
		return "ContinueOutsideLoop"
	case InvalidLiteral:
		return "InvalidLiteral"
	default:
		return "UnknownCompileError"
	}
}

// CompileError is a static error raised during lowering, before any bytecode runs.
type CompileError struct {
	Kind CompileErrorKind
	Help string
	File string
	Line int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Kind, e.Help)
}

func newCompileError(kind CompileErrorKind, file string, line int, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, File: file, Line: line, Help: fmt.Sprintf(format, args...)}
}
