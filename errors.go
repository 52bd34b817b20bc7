package fourth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcorbin/gofourth/internal/mem"
)

// Kind classifies the conditions that abort a Run. Kind implements error so
// that errors.Is(err, StackOverflow) matches any *Error of that kind.
type Kind int

// Abort kinds.
const (
	StackOverflow Kind = iota + 1
	StackUnderflow
	InvalidAddress
	UnrecognizedWord
	UnterminatedDefinition
	NestedDefinitionError
	CompilationFailure
	CompileOnlyWordMisuse
	UnterminatedComment
	TypeMismatch
)

var kindNames = [...]string{
	StackOverflow:          "stack overflow",
	StackUnderflow:         "stack underflow",
	InvalidAddress:         "invalid address",
	UnrecognizedWord:       "unrecognized word",
	UnterminatedDefinition: "unterminated definition",
	NestedDefinitionError:  "nested definition",
	CompilationFailure:     "compilation failure",
	CompileOnlyWordMisuse:  "compile-only word",
	UnterminatedComment:    "unterminated comment",
	TypeMismatch:           "type mismatch",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string { return k.String() }

// Error is the error returned by Run for any abort condition.
type Error struct {
	Kind Kind
	Word string   // the offending token, if any
	Loc  Location // where the offending token was read
	Mess string   // additional detail
	Err  error    // underlying cause, if any
}

func (err *Error) Error() string {
	var sb strings.Builder
	if err.Loc.Line > 0 {
		sb.WriteString(err.Loc.String())
		sb.WriteString(": ")
	}
	if err.Kind != 0 {
		sb.WriteString(err.Kind.String())
	} else {
		sb.WriteString("error")
	}
	if err.Word != "" {
		fmt.Fprintf(&sb, " %q", err.Word)
	}
	if err.Mess != "" {
		sb.WriteString(": ")
		sb.WriteString(err.Mess)
	}
	if err.Err != nil && err.Mess == "" {
		if mess := err.Err.Error(); mess != err.Kind.String() {
			sb.WriteString(": ")
			sb.WriteString(mess)
		}
	}
	return sb.String()
}

// Is matches a Kind target against the error's own kind.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.Kind
}

func (err *Error) Unwrap() error { return err.Err }

// kindOf maps memory model failures to abort kinds.
func kindOf(err error) Kind {
	var ae mem.AddrError
	switch {
	case errors.Is(err, mem.ErrOverflow):
		return StackOverflow
	case errors.Is(err, mem.ErrUnderflow):
		return StackUnderflow
	case errors.As(err, &ae):
		return InvalidAddress
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// abortError carries an abort up through the Go stack to Run.
type abortError struct{ err error }

func (ab abortError) Error() string {
	if ab.err != nil {
		return fmt.Sprintf("aborted: %v", ab.err)
	}
	return "aborted"
}

func (ab abortError) Unwrap() error { return ab.err }
