package interpreter

import (
	"math"
	"strings"

	"trapjs/pkg/lexer"
	"trapjs/pkg/value"
)

// Grammar, each level built from the one below and reduced immediately:
//
//	expression     := variable '=' expression
//	                | variable ('+='|'-='|'*='|'/=') expression
//	                | bool_expression (('&&'|'||') bool_expression)*
//	bool_expression:= bool_factor (('=='|'!='|'<>'|'<='|'>='|'<'|'>') bool_factor)*
//	bool_factor    := number_factor (('+'|'-') number_factor)*
//	number_factor  := element_suffix (('*'|'/') element_suffix)*
//	element_suffix := element ('(' args ')' | '[' expression ']')?
//	element        := '(' expression ')' | variable | string | number
//	                | '-' element | '!' element
//	variable       := identifier ('.' identifier)* | function-literal
//
// A rule that does not match restores the cursor and reports false. Once an
// operator has been consumed the right operand must parse.

var (
	logicalOperators    = []lexer.TokenType{lexer.AND, lexer.OR}
	comparisonOperators = []lexer.TokenType{lexer.EQ, lexer.NE, lexer.NE_ALT, lexer.LE, lexer.GE, lexer.LT, lexer.GT}
	additiveOperators   = []lexer.TokenType{lexer.PLUS, lexer.MINUS}
	productOperators    = []lexer.TokenType{lexer.MULT, lexer.DIV}
	compoundOperators   = []lexer.TokenType{lexer.PLUS_EQ, lexer.MINUS_EQ, lexer.MULT_EQ, lexer.DIV_EQ}
)

// reference is a parsed variable: a dotted chain or a function literal
type reference struct {
	path    []string      // chain segments, the last one names the variable
	parents []value.Value // resolved container of every segment but the last
	val     value.Value   // resolved value of a chain with parents
	fn      *value.Value  // function literal
}

func (r *reference) name() string {
	return r.path[len(r.path)-1]
}

func (i *Interpreter) expression() (value.Value, bool) {
	mark := i.lx.Offset()

	if ref, ok := i.variable(); ok && ref.fn == nil {
		if i.assignOperator() {
			v := i.mustExpression()
			i.assign(ref, v)
			return v, true
		}

		if op, ok := i.lx.Operator(compoundOperators...); ok {
			current := i.read(ref)
			arith, _ := op.Compound()
			v := i.apply(arith, current, i.mustExpression())
			i.assign(ref, v)
			return v, true
		}
	}

	i.lx.Reset(mark)
	return i.binary(i.boolExpression, logicalOperators)
}

// mustExpression parses an expression at a point where one is required
func (i *Interpreter) mustExpression() value.Value {
	v, ok := i.expression()
	if !ok {
		i.fail(SyntaxError, "unexpected end of expression")
	}

	return v
}

// assignOperator consumes a single '=' that is not the start of '=='
func (i *Interpreter) assignOperator() bool {
	mark := i.lx.Offset()
	if i.lx.ExpectToken(lexer.ASSIGN) && i.lx.Peek(0) != '=' {
		return true
	}

	i.lx.Reset(mark)
	return false
}

func (i *Interpreter) boolExpression() (value.Value, bool) {
	return i.binary(i.boolFactor, comparisonOperators)
}

func (i *Interpreter) boolFactor() (value.Value, bool) {
	return i.binary(i.numberFactor, additiveOperators)
}

func (i *Interpreter) numberFactor() (value.Value, bool) {
	return i.binary(i.elementSuffix, productOperators)
}

// binary parses operand (op operand)* and reduces left to right
func (i *Interpreter) binary(operand func() (value.Value, bool), operators []lexer.TokenType) (value.Value, bool) {
	left, ok := operand()
	if !ok {
		return value.Value{}, false
	}

	for {
		op, ok := i.lx.Operator(operators...)
		if !ok {
			return left, true
		}

		right, ok := operand()
		if !ok {
			i.fail(SyntaxError, "unexpected end of expression after %s", op)
		}

		left = i.apply(op, left, right)
	}
}

func (i *Interpreter) elementSuffix() (value.Value, bool) {
	v, ok := i.element()
	if !ok {
		return value.Value{}, false
	}

	if args, ok := i.arguments(); ok {
		return i.callValue(v, args), true
	}

	if i.lx.ExpectToken(lexer.LSBRACE) {
		idx := i.mustExpression()
		if !i.lx.ExpectToken(lexer.RSBRACE) {
			i.fail(SyntaxError, "expected ] to close the index")
		}
		return i.index(v, idx), true
	}

	return v, true
}

func (i *Interpreter) element() (value.Value, bool) {
	mark := i.lx.Offset()

	if args, ok := i.arguments(); ok {
		if len(args) == 0 {
			i.fail(SyntaxError, "empty parentheses")
		}
		return args[len(args)-1], true
	}

	if ref, ok := i.variable(); ok {
		return i.read(ref), true
	}

	text, ok, err := i.lx.Quoted()
	if err != nil {
		i.syntax(err)
	}
	if ok {
		return value.String(text), true
	}

	if n, ok := i.lx.Number(); ok {
		return value.Number(n), true
	}

	if i.lx.ExpectToken(lexer.MINUS) {
		v := i.mustElement()
		if v.Kind != value.KindNumber {
			i.fail(TypeCoercionError, "invalid operand for unary -: %s", v.Inspect())
		}
		return value.Number(-v.Num), true
	}

	if i.lx.ExpectToken(lexer.NOT) {
		return value.Boolean(!i.truth(i.mustElement())), true
	}

	i.lx.Reset(mark)
	return value.Value{}, false
}

func (i *Interpreter) mustElement() value.Value {
	v, ok := i.element()
	if !ok {
		i.fail(SyntaxError, "unexpected end of expression")
	}

	return v
}

// arguments parses ( expression, ... )
func (i *Interpreter) arguments() ([]value.Value, bool) {
	if !i.lx.ExpectToken(lexer.LPAREN) {
		return nil, false
	}

	args := []value.Value{}
	if i.lx.ExpectToken(lexer.RPAREN) {
		return args, true
	}

	for {
		args = append(args, i.mustExpression())
		if !i.lx.ExpectToken(lexer.COMMA) {
			break
		}
	}

	if !i.lx.ExpectToken(lexer.RPAREN) {
		i.fail(SyntaxError, "expected ) while evaluating arguments")
	}

	return args, true
}

// variable parses a dotted chain, resolving every segment but the last,
// or a function literal.
func (i *Interpreter) variable() (*reference, bool) {
	mark := i.lx.Offset()

	if name, ok := i.lx.Ident(); ok {
		ref := &reference{path: []string{name}}

		for i.lx.ExpectToken(lexer.DOT) {
			parent := i.read(ref)

			field, ok := i.lx.Ident()
			if !ok {
				i.fail(SyntaxError, "expected property name after %s.", strings.Join(ref.path, "."))
			}

			ref.val = i.property(parent, ref.path, field)
			ref.parents = append(ref.parents, parent)
			ref.path = append(ref.path, field)
		}

		return ref, true
	}

	i.lx.Reset(mark)
	if fn, ok := i.functionLiteral(); ok {
		return &reference{fn: &fn}, true
	}

	i.lx.Reset(mark)
	return nil, false
}

// read returns the value a reference designates
func (i *Interpreter) read(ref *reference) value.Value {
	switch {
	case ref.fn != nil:
		return *ref.fn
	case len(ref.parents) > 0:
		return ref.val
	}

	v, ok := i.Lookup(ref.name())
	if !ok {
		i.fail(ScopeError, "%s is undefined", ref.name())
	}

	return v
}

// property reads field out of parent. Primitive values expose toString.
func (i *Interpreter) property(parent value.Value, path []string, field string) value.Value {
	switch parent.Kind {
	case value.KindObject:
		if v, ok := parent.Obj.Get(field); ok {
			return v.WithReceiver(parent)
		}

	case value.KindString, value.KindNumber, value.KindBoolean:
		if field == "toString" {
			if fn, ok := i.Lookup("toString"); ok {
				return fn.WithReceiver(parent)
			}
		}
	}

	i.fail(ScopeError, "%s has no property called %s", strings.Join(path, "."), field)
	return value.Value{}
}

// assign writes v into the variable a reference designates. A chain is
// navigated again from its root, through the local frame first.
func (i *Interpreter) assign(ref *reference, v value.Value) {
	if len(ref.path) == 1 {
		i.locals.Set(ref.name(), v)
		return
	}

	containerPath := ref.path[:len(ref.path)-1]

	container, ok := i.locals.navigate(containerPath)
	if !ok {
		container, ok = i.globals.navigate(containerPath)
	}
	if !ok {
		i.fail(ScopeError, "object location %s does not exist", strings.Join(containerPath, "->"))
	}
	if container.Kind != value.KindObject {
		i.fail(ScopeError, "cannot assign property %s of %s %s", ref.name(), container.Kind, strings.Join(containerPath, "."))
	}

	container.Obj.Set(ref.name(), v)
}

// index returns the single character of a string at a numeric index
func (i *Interpreter) index(target, idx value.Value) value.Value {
	n, err := idx.AsFloat64()
	if err != nil {
		i.fail(TypeCoercionError, "index must be a number, got %s", idx.Kind)
	}

	if target.Kind != value.KindString {
		i.fail(OperatorUnsupportedError, "cannot index %s", target.Kind)
	}

	chars := []rune(target.Str)
	if math.IsNaN(n) || n < 0 || n >= float64(len(chars)) {
		i.fail(IndexError, "index out of range: %s (length %d)", idx, len(chars))
	}

	return value.String(string(chars[int(n)]))
}

// apply reduces a binary operation
func (i *Interpreter) apply(op lexer.TokenType, a, b value.Value) value.Value {
	v, err := value.Binary(op, a, b)
	i.check(err)

	return v
}

// truth coerces v to a Go bool
func (i *Interpreter) truth(v value.Value) bool {
	b, err := v.AsBool()
	i.check(err)

	return b
}
