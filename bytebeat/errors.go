// errors.go - error taxonomy for the bytebeat compiler and engine

package bytebeat

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax    = errors.New("syntax error")
	ErrUndefined = errors.New("undefined name")
	ErrEval      = errors.New("evaluation fault")
	ErrHostStart = errors.New("audio host failed to start")
	ErrConfig    = errors.New("invalid configuration")
)

// ErrorKind classifies a CompileError.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota
	KindUndefined
	KindEval
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindUndefined:
		return "reference error"
	case KindEval:
		return "evaluation error"
	}
	return "error"
}

// CompileError carries a human-readable diagnostic for a rejected expression.
// Pos is the zero-based byte offset into the trimmed source, or -1 when the
// fault has no source location (probe failures).
type CompileError struct {
	Kind ErrorKind
	Pos  int
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at column %d: %s", e.Kind, e.Pos+1, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *CompileError) Unwrap() error {
	switch e.Kind {
	case KindUndefined:
		return ErrUndefined
	case KindEval:
		return ErrEval
	}
	return ErrSyntax
}

func syntaxErr(pos int, format string, args ...any) *CompileError {
	return &CompileError{Kind: KindSyntax, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func undefinedErr(pos int, name string) *CompileError {
	return &CompileError{Kind: KindUndefined, Pos: pos, Msg: fmt.Sprintf("%s is not defined", name)}
}

func evalErr(format string, args ...any) *CompileError {
	return &CompileError{Kind: KindEval, Pos: -1, Msg: fmt.Sprintf(format, args...)}
}
