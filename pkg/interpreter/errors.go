package interpreter

import (
	"errors"
	"fmt"

	"trapjs/pkg/lexer"
	"trapjs/pkg/value"
)

type ErrorKind int

const (
	SyntaxError ErrorKind = iota + 1
	ScopeError
	TypeCoercionError
	TypeMismatchError
	OperatorUnsupportedError
	ArityError
	ProgressError
	IndexError
	DepthError
)

var errorKindNames = map[ErrorKind]string{
	SyntaxError:              "syntax error",
	ScopeError:               "scope error",
	TypeCoercionError:        "type coercion error",
	TypeMismatchError:        "type mismatch",
	OperatorUnsupportedError: "unsupported operation",
	ArityError:               "arity error",
	ProgressError:            "no progress",
	IndexError:               "index error",
	DepthError:               "call depth exceeded",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("error(%d)", int(k))
}

// Error aborts a run. It is the only error type returned by Run and Eval.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
	Block   string // name of the function body being executed, empty at top level
}

// Error returns a formatted version of the error, including the line number.
func (e *Error) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("%s at line %d in %s: %s", e.Kind, e.Line, e.Block, e.Message)
	}

	return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Message)
}

// Is matches the kind sentinels below
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

var (
	ErrSyntax              = &Error{Kind: SyntaxError}
	ErrScope               = &Error{Kind: ScopeError}
	ErrTypeCoercion        = &Error{Kind: TypeCoercionError}
	ErrTypeMismatch        = &Error{Kind: TypeMismatchError}
	ErrOperatorUnsupported = &Error{Kind: OperatorUnsupportedError}
	ErrArity               = &Error{Kind: ArityError}
	ErrProgress            = &Error{Kind: ProgressError}
	ErrIndex               = &Error{Kind: IndexError}
	ErrDepth               = &Error{Kind: DepthError}
)

// KindOf returns the kind of an interpreter error, or 0 for any other error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// fail aborts the run with an error at the cursor
func (i *Interpreter) fail(kind ErrorKind, format string, args ...any) {
	pos := i.lx.Position()
	panic(&Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
		Block:   i.name,
	})
}

// syntax aborts the run with a scanning error
func (i *Interpreter) syntax(err error) {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		panic(&Error{
			Kind:    SyntaxError,
			Message: lexErr.Message,
			Line:    lexErr.Pos.Line,
			Column:  lexErr.Pos.Column,
			Block:   i.name,
		})
	}

	i.fail(SyntaxError, "%v", err)
}

// check aborts the run when a value operation failed
func (i *Interpreter) check(err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, value.ErrTypeMismatch):
		i.fail(TypeMismatchError, "%v", err)
	case errors.Is(err, value.ErrCoercion):
		i.fail(TypeCoercionError, "%v", err)
	default:
		i.fail(OperatorUnsupportedError, "%v", err)
	}
}

// checkScan aborts the run when the lexer hit an unrecoverable error
func (i *Interpreter) checkScan() {
	if err := i.lx.Err(); err != nil {
		i.syntax(err)
	}
}

// recoverError converts an aborted run into a returned error
func recoverError(err *error) {
	r := recover()
	if r == nil {
		return
	}

	e, ok := r.(*Error)
	if !ok {
		panic(r)
	}
	*err = e
}
