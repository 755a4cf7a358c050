package interpreter

import (
	"fmt"
	"strings"

	"trapjs/pkg/lexer"
	"trapjs/pkg/value"
)

// Names of the functions whose invocation never runs a body
const (
	AlertIntrinsic    = "alert"
	ToStringIntrinsic = "toString"
)

// callValue invokes callee with the receiver it was fetched from
func (i *Interpreter) callValue(callee value.Value, args []value.Value) value.Value {
	if callee.Kind != value.KindFunction {
		i.fail(ScopeError, "%s is not a function", callee.Inspect())
	}

	receiver, ok := callee.Receiver()
	if !ok {
		receiver = value.None()
	}

	return i.call(callee.Fn, receiver, args)
}

// call runs fn with args.
//
// The callee starts from a copy of the caller's locals, not of the frame the
// function was defined in, with the parameters bound on top and the return
// slot reset. The global frame is shared.
func (i *Interpreter) call(fn *value.Function, receiver value.Value, args []value.Value) value.Value {
	if len(args) > len(fn.Params) {
		i.fail(ArityError, "too many arguments for function %s: got %d, want at most %d", fn.Name, len(args), len(fn.Params))
	}

	switch fn.Name {
	case AlertIntrinsic:
		return i.alert(args)
	case ToStringIntrinsic:
		return value.ToString(receiver)
	}

	if i.depth+1 > i.maxDepth {
		i.fail(DepthError, "call to %s exceeds the maximum depth of %d", fn.Name, i.maxDepth)
	}

	locals := i.locals.Clone()
	for idx, arg := range args {
		locals.Set(fn.Params[idx], arg)
	}
	locals.Set(ReturnSlot, value.None())

	fn.Caller = i.current

	child := &Interpreter{
		lx:       lexer.NewLexerAt(fn.Body, fn.Line, max(fn.Column, 1)),
		name:     blockName(fn),
		locals:   locals,
		globals:  i.globals,
		current:  fn,
		depth:    i.depth + 1,
		maxDepth: i.maxDepth,
		out:      i.out,
		logger:   i.logger,
		last:     value.None(),
	}
	child.run()

	result := locals[ReturnSlot]
	if !result.IsNone() {
		i.logger.Debug("call", "function", blockName(fn), "args", formatArgs(args), "return", result.String())
	}

	return result
}

// alert prints its arguments: nothing, the single raw value, or the whole list
func (i *Interpreter) alert(args []value.Value) value.Value {
	switch len(args) {
	case 0:
		fmt.Fprintln(i.out)
	case 1:
		fmt.Fprintln(i.out, args[0].String())
	default:
		fmt.Fprintln(i.out, formatArgs(args))
	}

	return value.None()
}

func formatArgs(args []value.Value) string {
	raw := make([]string, 0, len(args))
	for _, arg := range args {
		raw = append(raw, arg.String())
	}

	return "[" + strings.Join(raw, ", ") + "]"
}

func blockName(fn *value.Function) string {
	if fn.Name == "" {
		return "anonymous function"
	}

	return fn.Name
}
