package interpreter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trapjs/pkg/interpreter"
	"trapjs/pkg/value"
)

func TestRunErrors(t *testing.T) {
	tests := []struct {
		description string
		src         string
		kind        interpreter.ErrorKind
		message     string
		line        int
	}{
		{"index out of range", `var c = "abc"[5];`, interpreter.IndexError, "index out of range: 5 (length 3)", 1},
		{"not a number index", `var c = "abc"[0/0];`, interpreter.IndexError, "index out of range: NaN (length 3)", 1},
		{"infinite index", `var c = "abc"[1/0];`, interpreter.IndexError, "index out of range: Infinity (length 3)", 1},
		{"huge index", `var c = "abc"[99999999999999999999];`, interpreter.IndexError, "index out of range: 100000000000000000000 (length 3)", 1},
		{"index past the end", `var c = "abc"[3];`, interpreter.IndexError, "index out of range: 3 (length 3)", 1},
		{"negative index", `var c = "abc"[-1];`, interpreter.IndexError, "index out of range: -1 (length 3)", 1},
		{"index with a string", `var c = "abc"["a"];`, interpreter.TypeCoercionError, "index must be a number, got string", 1},
		{"index a number", `var n = 5; var c = n[0];`, interpreter.OperatorUnsupportedError, "cannot index number", 1},
		{"undefined variable", "var a = 1;\nvar b = c;", interpreter.ScopeError, "c is undefined", 2},
		{"missing property", `window.foo = 1;`, interpreter.ScopeError, "window has no property called foo", 1},
		{"property of a primitive", `var n = 1; var x = n.length;`, interpreter.ScopeError, "n has no property called length", 1},
		{"assign through a primitive", `var s = "x"; s.toString = 1;`, interpreter.ScopeError, "cannot assign property toString of string s", 1},
		{"type mismatch", `var x = 1 == "1";`, interpreter.TypeMismatchError, "cannot use == on different types: number and string", 1},
		{"unsupported operation", `var x = "a" - 1;`, interpreter.OperatorUnsupportedError, "unknown operation", 1},
		{"object in a condition", `if (window) { }`, interpreter.TypeCoercionError, "cannot convert object to boolean", 1},
		{"negate a string", `var x = -"a";`, interpreter.TypeCoercionError, `invalid operand for unary -: String("a")`, 1},
		{"while loop", "var a = 1;\nwhile (a) { }", interpreter.SyntaxError, "while loops are not supported", 2},
		{"unterminated string", `var s = "abc;`, interpreter.SyntaxError, `expected " to close the string`, 1},
		{"unterminated comment", "var a = 1;\n/* never closed", interpreter.SyntaxError, "expected */ to close the comment", 2},
		{"unterminated block", "{ var a = 1;", interpreter.SyntaxError, "expected } to close the block", 1},
		{"dangling operator", "var a = 1;\nvar b = a +;", interpreter.SyntaxError, "unexpected end of expression after +", 2},
		{"empty parentheses", `var a = ();`, interpreter.SyntaxError, "empty parentheses", 1},
		{"unclosed call", `alert("x";`, interpreter.SyntaxError, "expected ) while evaluating arguments", 1},
		{"if without parentheses", `if true { }`, interpreter.SyntaxError, "expected ( after if", 1},
		{"var without a name", `var 1 = 2;`, interpreter.SyntaxError, "expected variable name after var", 1},
		{"no progress", "var a = 1;\n) a = 2;", interpreter.ProgressError, `cannot parse statement starting at ") a = 2;"`, 2},
	}

	for _, test := range tests {
		_, _, err := run(t, test.src)
		require.Error(t, err, test.description)

		var e *interpreter.Error
		require.True(t, errors.As(err, &e), test.description)
		assert.Equal(t, test.kind, e.Kind, test.description)
		assert.Contains(t, e.Message, test.message, test.description)
		assert.Equal(t, test.line, e.Line, test.description)
		assert.Empty(t, e.Block, test.description)
	}
}

func TestErrorInsideFunctionReportsScriptLine(t *testing.T) {
	src := "var a = 1;\n\nfunction broken() {\n  var x = 1;\n  return missing;\n}\n\nbroken();\n"

	_, _, err := run(t, src)

	var e *interpreter.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, interpreter.ScopeError, e.Kind)
	assert.Equal(t, 5, e.Line)
	assert.Equal(t, "broken", e.Block)
	assert.Equal(t, "scope error at line 5 in broken: missing is undefined", e.Error())
}

func TestErrorOnFunctionFirstLineReportsScriptColumn(t *testing.T) {
	src := "var a = 1;\nfunction f() { return missing; }\nf();"

	_, _, err := run(t, src)

	var e *interpreter.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, interpreter.ScopeError, e.Kind)
	assert.Equal(t, 2, e.Line)
	// just past "missing" on the declaration line
	assert.Equal(t, 30, e.Column)
	assert.Equal(t, "f", e.Block)
}

func TestFirstErrorAbortsRun(t *testing.T) {
	it, out, err := run(t, `alert("one"); var a = 1; b; a = 2; alert("two");`)

	assert.ErrorIs(t, err, interpreter.ErrScope)
	assert.Equal(t, "one\n", out)
	assert.Equal(t, value.Number(1), lookup(t, it, "a"))
}

func TestErrorKinds(t *testing.T) {
	err := error(&interpreter.Error{Kind: interpreter.IndexError, Message: "index out of range", Line: 3})

	assert.ErrorIs(t, err, interpreter.ErrIndex)
	assert.NotErrorIs(t, err, interpreter.ErrScope)
	assert.Equal(t, interpreter.IndexError, interpreter.KindOf(err))
	assert.Equal(t, interpreter.ErrorKind(0), interpreter.KindOf(errors.New("other")))
	assert.Equal(t, "index error at line 3: index out of range", err.Error())
	assert.Equal(t, "call depth exceeded", interpreter.DepthError.String())
}
