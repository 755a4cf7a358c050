package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"trapjs/pkg/lexer"
)

type Kind int

const (
	KindNone Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindFunction
	KindObject
	KindOperator
)

var kindNames = map[Kind]string{
	KindNone:     "none",
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindFunction: "function",
	KindObject:   "object",
	KindOperator: "operator",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Value represents a dynamically-typed value in the interpreter.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Fn   *Function
	Obj  *Object
	Op   lexer.TokenType

	// receiver is the container the value was fetched from by a property
	// lookup. It never takes part in equality.
	receiver *Value
}

// Function is a script function. The body is kept as source text and
// scanned again on every call.
type Function struct {
	Name   string
	Params []string
	Body   string
	Line   int       // line of the first body byte in the defining script
	Column int       // column of the first body byte in the defining script
	Caller *Function // function that was active when this one was last called
}

// Object is a mutable mapping shared by reference between every alias.
type Object struct {
	Label  string
	Fields map[string]Value
}

// NewObject creates an empty object
func NewObject(label string) *Object {
	return &Object{Label: label, Fields: make(map[string]Value)}
}

// Get returns the field called name
func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.Fields[name]
	return v, ok
}

// Set writes the field called name
func (o *Object) Set(name string, v Value) {
	o.Fields[name] = v
}

// Keys returns the field names in sorted order
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// String creates a new string Value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number creates a new number Value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// Boolean creates a new boolean Value.
func Boolean(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

// None creates the undefined Value.
func None() Value {
	return Value{Kind: KindNone}
}

// FromFunction wraps a function.
func FromFunction(fn *Function) Value {
	return Value{Kind: KindFunction, Fn: fn}
}

// FromObject wraps an object.
func FromObject(o *Object) Value {
	return Value{Kind: KindObject, Obj: o}
}

// Operator creates the transient token of a binary operator.
func Operator(t lexer.TokenType) Value {
	return Value{Kind: KindOperator, Op: t}
}

// NewFunction creates a function value from its declaration parts.
func NewFunction(name string, params []string, body string, line int) Value {
	return FromFunction(&Function{Name: name, Params: params, Body: body, Line: line})
}

// IsNone reports whether v is the undefined value
func (v Value) IsNone() bool {
	return v.Kind == KindNone
}

// WithReceiver returns a copy of v annotated with the container it was fetched from
func (v Value) WithReceiver(r Value) Value {
	r.receiver = nil
	v.receiver = &r
	return v
}

// Receiver returns the container v was fetched from, if any
func (v Value) Receiver() (Value, bool) {
	if v.receiver == nil {
		return Value{}, false
	}

	return *v.receiver, true
}

// String renders the raw value as a string.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return formatNumber(v.Num)
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindFunction:
		return v.Fn.Name
	case KindObject:
		return v.Obj.Label
	case KindOperator:
		return v.Op.Symbol()
	default:
		return "undefined"
	}
}

// Inspect renders the value with its tag, for diagnostics.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindString:
		return fmt.Sprintf("String(%q)", v.Str)
	case KindNumber:
		return fmt.Sprintf("Number(%s)", formatNumber(v.Num))
	case KindBoolean:
		return fmt.Sprintf("Boolean(%t)", v.Bool)
	case KindFunction:
		return fmt.Sprintf("Function(%s(%s))", v.Fn.Name, strings.Join(v.Fn.Params, ", "))
	case KindObject:
		return fmt.Sprintf("Object(%s){%s}", v.Obj.Label, strings.Join(v.Obj.Keys(), ", "))
	case KindOperator:
		return fmt.Sprintf("Operator(%s)", v.Op.Symbol())
	default:
		return "None"
	}
}

// AsBool converts the value to bool using the truthiness rule.
func (v Value) AsBool() (bool, error) {
	switch v.Kind {
	case KindString:
		return true, nil
	case KindNumber:
		return v.Num != 0, nil
	case KindBoolean:
		return v.Bool, nil
	case KindNone:
		return false, nil
	default:
		return false, fmt.Errorf("%w: cannot convert %s to boolean", ErrCoercion, v.Kind)
	}
}

// AsFloat64 returns the number held by a Number value.
func (v Value) AsFloat64() (float64, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("%w: expected number, got %s", ErrCoercion, v.Kind)
	}

	return v.Num, nil
}

// ToBoolean returns the Boolean value of v.
func ToBoolean(v Value) (Value, error) {
	b, err := v.AsBool()
	if err != nil {
		return Value{}, err
	}

	return Boolean(b), nil
}

// ToString returns the String value of v.
func ToString(v Value) Value {
	return String(v.String())
}

// Equal reports whether a and b hold the same tag and raw value.
// Functions and objects compare by identity; receivers are ignored.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindNumber:
		return a.Num == b.Num
	case KindBoolean:
		return a.Bool == b.Bool
	case KindFunction:
		return a.Fn == b.Fn
	case KindObject:
		return a.Obj == b.Obj
	case KindOperator:
		return a.Op == b.Op
	default:
		return true
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}
