package interpreter

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"trapjs/pkg/lexer"
	"trapjs/pkg/value"
)

// DefaultMaxDepth bounds the nesting of function calls
const DefaultMaxDepth = 256

// Interpreter scans, parses and evaluates script text in a single pass.
// Every function call runs in a child Interpreter over the function body.
type Interpreter struct {
	lx      *lexer.Lexer    // cursor over the text being executed
	name    string          // block name for diagnostics
	locals  Frame           // local frame of this block
	globals Frame           // global frame shared by the whole run
	current *value.Function // function whose body is executing, nil at top level

	depth    int // call nesting of this block
	maxDepth int // maximum call nesting

	out    io.Writer   // output writer for alert
	logger *log.Logger // call tracing

	returned bool        // a return statement ran in this block
	last     value.Value // value of the last expression statement
}

type Option func(*Interpreter)

// WithWriter sets the output writer for alert
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithLogger sets the logger used to trace function calls
func WithLogger(l *log.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithMaxDepth sets the maximum nesting of function calls
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithName sets the block name reported in errors
func WithName(name string) Option {
	return func(i *Interpreter) { i.name = name }
}

// WithLocals seeds the top-level local frame
func WithLocals(f Frame) Option {
	return func(i *Interpreter) { i.locals = f }
}

// NewInterpreter creates an interpreter for src. The global frame is used by
// reference: the script's writes to it stay visible to the caller.
func NewInterpreter(src string, globals Frame, opts ...Option) *Interpreter {
	if globals == nil {
		globals = NewFrame()
	}

	it := &Interpreter{
		lx:       lexer.NewLexer(src),
		locals:   NewFrame(),
		globals:  globals,
		maxDepth: DefaultMaxDepth,
		last:     value.None(),
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}

	if it.logger == nil {
		it.logger = log.Default()
	}

	return it
}

// Run executes the whole script. The first error aborts the run.
func (i *Interpreter) Run() (err error) {
	defer recoverError(&err)

	i.run()
	return nil
}

// Eval executes more source against the same frames and returns the value
// of its last expression statement.
func (i *Interpreter) Eval(src string) (v value.Value, err error) {
	defer recoverError(&err)

	i.lx = lexer.NewLexer(src)
	i.returned = false
	i.last = value.None()

	i.run()
	return i.last, nil
}

// Locals returns the top-level local frame
func (i *Interpreter) Locals() Frame {
	return i.locals
}

// Globals returns the shared global frame
func (i *Interpreter) Globals() Frame {
	return i.globals
}

// Lookup resolves a name the way the script does: locals first, then globals
func (i *Interpreter) Lookup(name string) (value.Value, bool) {
	if v, ok := i.locals.Get(name); ok {
		return v, true
	}

	return i.globals.Get(name)
}

// run executes statements until the end of the text or a return
func (i *Interpreter) run() {
	last := -1
	for !i.lx.AtEnd() && !i.returned {
		i.checkScan()

		if i.lx.Offset() == last {
			i.fail(ProgressError, "cannot parse statement starting at %q", i.upcoming())
		}
		last = i.lx.Offset()

		i.statement()
	}

	i.checkScan()
}

// upcoming returns a short excerpt of the text at the cursor
func (i *Interpreter) upcoming() string {
	const width = 16

	from := i.lx.Offset()
	to := from
	for to-from < width && i.lx.Peek(to-from) != lexer.EOF && i.lx.Peek(to-from) != '\n' {
		to++
	}

	return i.lx.Slice(from, to)
}
