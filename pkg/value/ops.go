package value

import (
	"errors"
	"fmt"
	"strings"

	"trapjs/pkg/lexer"
)

var (
	ErrCoercion         = errors.New("type coercion error")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrUnknownOperation = errors.New("unknown operation")
)

// rule reduces a binary operation when its guard matches.
// ok is false when the guard does not apply to the operands.
type rule func(op lexer.TokenType, a, b Value) (res Value, ok bool, err error)

// rules are tried in order; the first one whose guard matches wins.
var rules = []rule{
	concatRule,
	arithmeticRule,
	logicalRule,
	comparisonRule,
}

// Apply reduces a binary operation. op must be an Operator value.
func Apply(op Value, a, b Value) (Value, error) {
	if op.Kind != KindOperator {
		return Value{}, fmt.Errorf("%w: %s is not an operator", ErrUnknownOperation, op.Inspect())
	}

	for _, r := range rules {
		res, ok, err := r(op.Op, a, b)
		if err != nil {
			return Value{}, err
		}
		if ok {
			return res, nil
		}
	}

	return Value{}, fmt.Errorf("%w %s on %s, %s", ErrUnknownOperation, op.Op, a.Inspect(), b.Inspect())
}

// Binary is Apply for a bare token type.
func Binary(t lexer.TokenType, a, b Value) (Value, error) {
	return Apply(Operator(t), a, b)
}

// concatRule: '+' with at least one String operand concatenates the raw values
func concatRule(op lexer.TokenType, a, b Value) (Value, bool, error) {
	if op != lexer.PLUS || (a.Kind != KindString && b.Kind != KindString) {
		return Value{}, false, nil
	}

	return String(a.String() + b.String()), true, nil
}

// arithmeticRule: IEEE double arithmetic on two Numbers
func arithmeticRule(op lexer.TokenType, a, b Value) (Value, bool, error) {
	if a.Kind != KindNumber || b.Kind != KindNumber {
		return Value{}, false, nil
	}

	switch op {
	case lexer.PLUS:
		return Number(a.Num + b.Num), true, nil
	case lexer.MINUS:
		return Number(a.Num - b.Num), true, nil
	case lexer.MULT:
		return Number(a.Num * b.Num), true, nil
	case lexer.DIV:
		return Number(a.Num / b.Num), true, nil
	default:
		return Value{}, false, nil
	}
}

// logicalRule: both operands are coerced to Boolean; there is no short-circuit
func logicalRule(op lexer.TokenType, a, b Value) (Value, bool, error) {
	if op != lexer.AND && op != lexer.OR {
		return Value{}, false, nil
	}

	ab, err := a.AsBool()
	if err != nil {
		return Value{}, false, err
	}
	bb, err := b.AsBool()
	if err != nil {
		return Value{}, false, err
	}

	if op == lexer.AND {
		return Boolean(ab && bb), true, nil
	}
	return Boolean(ab || bb), true, nil
}

// comparisonRule: equality and ordering between operands of the same tag
func comparisonRule(op lexer.TokenType, a, b Value) (Value, bool, error) {
	switch op {
	case lexer.EQ, lexer.NE, lexer.NE_ALT, lexer.LE, lexer.GE, lexer.LT, lexer.GT:
	default:
		return Value{}, false, nil
	}

	if a.Kind != b.Kind {
		return Value{}, false, fmt.Errorf("%w: cannot use %s on different types: %s and %s", ErrTypeMismatch, op, a.Kind, b.Kind)
	}

	switch op {
	case lexer.EQ:
		return Boolean(Equal(a, b)), true, nil
	case lexer.NE, lexer.NE_ALT:
		return Boolean(!Equal(a, b)), true, nil
	}

	switch a.Kind {
	case KindNumber:
		return Boolean(orderNumbers(op, a.Num, b.Num)), true, nil
	case KindString:
		return Boolean(order(op, strings.Compare(a.Str, b.Str))), true, nil
	case KindBoolean:
		return Boolean(order(op, compareBools(a.Bool, b.Bool))), true, nil
	case KindNone:
		return Boolean(order(op, 0)), true, nil
	default:
		return Value{}, false, nil
	}
}

func orderNumbers(op lexer.TokenType, x, y float64) bool {
	switch op {
	case lexer.LE:
		return x <= y
	case lexer.GE:
		return x >= y
	case lexer.LT:
		return x < y
	default:
		return x > y
	}
}

// order applies an ordering operator to the result of a three-way comparison
func order(op lexer.TokenType, c int) bool {
	switch op {
	case lexer.LE:
		return c <= 0
	case lexer.GE:
		return c >= 0
	case lexer.LT:
		return c < 0
	default:
		return c > 0
	}
}

func compareBools(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	default:
		return 1
	}
}
