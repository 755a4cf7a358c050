package interpreter

import (
	"trapjs/pkg/lexer"
	"trapjs/pkg/value"
)

// statement executes one statement and reports whether a return ran.
//
// Alternatives are tried in order: return, var, function declaration,
// block, if, and finally a bare expression with an optional ';'.
func (i *Interpreter) statement() bool {
	mark := i.lx.Offset()

	switch {
	case i.lx.Word(lexer.RETURN):
		return i.returnStatement()

	case i.lx.Word(lexer.VAR):
		i.varStatement()
		return false

	case i.lx.Word(lexer.IF):
		return i.ifStatement()

	case i.lx.Word(lexer.WHILE):
		i.fail(SyntaxError, "while loops are not supported")

	case i.lx.ExpectToken(lexer.LBRACE):
		return i.block()
	}

	i.lx.Reset(mark)
	if fn, ok := i.functionLiteral(); ok {
		i.globals.Set(fn.Fn.Name, fn)
		return false
	}

	i.lx.Reset(mark)
	if v, ok := i.expression(); ok {
		i.last = v
	}
	i.lx.ExpectToken(lexer.SEMICOLON)

	return false
}

// return expr? ;
func (i *Interpreter) returnStatement() bool {
	v, ok := i.expression()
	if !ok {
		v = value.None()
	}

	i.locals.Set(ReturnSlot, v)
	i.lx.ExpectToken(lexer.SEMICOLON)
	i.returned = true

	return true
}

// var name (= expr)?, ... ;
func (i *Interpreter) varStatement() {
	for {
		name, ok := i.lx.Ident()
		if !ok {
			i.fail(SyntaxError, "expected variable name after var")
		}

		i.locals.Set(name, value.None())
		if i.assignOperator() {
			i.locals.Set(name, i.mustExpression())
		}

		if !i.lx.ExpectToken(lexer.COMMA) {
			break
		}
	}

	i.lx.ExpectToken(lexer.SEMICOLON)
}

// { statement* }
func (i *Interpreter) block() bool {
	last := -1
	for !i.lx.ExpectToken(lexer.RBRACE) {
		i.checkScan()

		if i.lx.AtEnd() {
			i.fail(SyntaxError, "expected } to close the block")
		}
		if i.lx.Offset() == last {
			i.fail(ProgressError, "cannot parse statement starting at %q", i.upcoming())
		}
		last = i.lx.Offset()

		if i.statement() {
			return true
		}
	}

	return false
}

// if ( expr ) consequent [else alternative]
//
// Exactly one branch runs; the other one is skipped as raw text.
func (i *Interpreter) ifStatement() bool {
	if !i.lx.ExpectToken(lexer.LPAREN) {
		i.fail(SyntaxError, "expected ( after if")
	}
	cond := i.mustExpression()
	if !i.lx.ExpectToken(lexer.RPAREN) {
		i.fail(SyntaxError, "expected ) after the if condition")
	}

	if i.truth(cond) {
		if i.statement() {
			return true
		}
		if i.lx.Word(lexer.ELSE) {
			i.skip()
		}
		return false
	}

	i.skip()
	if i.lx.Word(lexer.ELSE) {
		return i.statement()
	}

	return false
}

// skip consumes one statement without executing it. An if statement is
// skipped together with its else branch, and a function declaration
// together with its body.
func (i *Interpreter) skip() {
	switch {
	case i.lx.Word(lexer.IF):
		i.scan(i.lx.SkipGroup('(', ')'))
		i.skip()
		if i.lx.Word(lexer.ELSE) {
			i.skip()
		}

	case i.lx.Word(lexer.FUNCTION):
		i.lx.Ident()
		i.scan(i.lx.SkipGroup('(', ')'))
		i.skip()

	default:
		i.scan(i.lx.SkipStatement())
	}
}

// scan aborts the run when raw skipping failed
func (i *Interpreter) scan(err error) {
	if err != nil {
		i.syntax(err)
	}
}

// functionLiteral parses `function name? (params) statement`.
// The body is kept as raw text.
func (i *Interpreter) functionLiteral() (value.Value, bool) {
	if !i.lx.Word(lexer.FUNCTION) {
		return value.Value{}, false
	}

	name, _ := i.lx.Ident()
	if !i.lx.ExpectToken(lexer.LPAREN) {
		i.fail(SyntaxError, "expected ( after function %s", name)
	}

	params := []string{}
	if !i.lx.ExpectToken(lexer.RPAREN) {
		for {
			param, ok := i.lx.Ident()
			if !ok {
				i.fail(SyntaxError, "expected parameter name in function %s", name)
			}
			params = append(params, param)

			if !i.lx.ExpectToken(lexer.COMMA) {
				break
			}
		}

		if !i.lx.ExpectToken(lexer.RPAREN) {
			i.fail(SyntaxError, "expected ) after the parameters of function %s", name)
		}
	}

	i.lx.SkipBlank()
	start, pos := i.lx.Offset(), i.lx.Position()
	i.skip()

	fn := value.NewFunction(name, params, i.lx.Slice(start, i.lx.Offset()), pos.Line)
	fn.Fn.Column = pos.Column

	return fn, true
}
