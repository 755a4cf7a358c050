package lexer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EOF is returned by Peek past the end of the input
const EOF byte = 0

// Error is a scanning error at a known position
type Error struct {
	Pos     Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// Lexer is a cursor over script text. Every attempt method either consumes
// what it recognises or leaves the cursor where it was.
type Lexer struct {
	input    string // input string to be scanned
	length   int    // length of the input string
	position int    // current byte offset in the input string
	baseLine int    // line number of the first input byte
	baseCol  int    // column number of the first input byte
	lines    []int  // byte offsets of every line start
	err      error  // first unrecoverable scanning error
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return NewLexerAt(s, 1, 1)
}

// NewLexerAt creates a lexer for text that starts at the given line and
// column of a larger script. The column only shifts the first line.
func NewLexerAt(s string, line, column int) *Lexer {
	lines := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, i+1)
		}
	}

	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		baseLine: line,
		baseCol:  column,
		lines:    lines,
	}
}

// Offset returns the current byte offset
func (l *Lexer) Offset() int {
	return l.position
}

// Reset moves the cursor back to an offset previously returned by Offset
func (l *Lexer) Reset(offset int) {
	l.position = offset
}

// Err returns the first unrecoverable scanning error, if any
func (l *Lexer) Err() error {
	return l.err
}

// Slice returns the raw source between two offsets
func (l *Lexer) Slice(from, to int) string {
	return l.input[from:to]
}

// Peek returns the byte offset bytes ahead of the cursor without consuming it
func (l *Lexer) Peek(offset int) byte {
	if l.position+offset >= l.length {
		return EOF
	}

	return l.input[l.position+offset]
}

// AtEnd skips blanks and reports whether the input is exhausted
func (l *Lexer) AtEnd() bool {
	l.SkipBlank()
	return l.position >= l.length
}

// Position returns the line and column of the cursor
func (l *Lexer) Position() Position {
	return l.PositionAt(l.position)
}

// PositionAt returns the line and column of a byte offset
func (l *Lexer) PositionAt(offset int) Position {
	idx := sort.SearchInts(l.lines, offset+1)

	column := offset - l.lines[idx-1] + 1
	if idx == 1 {
		column += l.baseCol - 1
	}

	return NewPosition(l.baseLine+idx-1, column, offset)
}

// Line returns the line of the cursor
func (l *Lexer) Line() int {
	return l.Position().Line
}

// SkipBlank skips whitespace, line comments and block comments
func (l *Lexer) SkipBlank() {
	for l.position < l.length {
		ch := l.input[l.position]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.position++

		case ch == '/' && l.Peek(1) == '/':
			end := strings.IndexByte(l.input[l.position:], '\n')
			if end < 0 {
				l.position = l.length
			} else {
				l.position += end + 1
			}

		case ch == '/' && l.Peek(1) == '*':
			end := strings.Index(l.input[l.position+2:], "*/")
			if end < 0 {
				l.fail(l.position, "expected */ to close the comment")
				l.position = l.length
				return
			}
			l.position += end + 4

		default:
			return
		}
	}
}

// Expect consumes the literal symbol s if the input continues with it
func (l *Lexer) Expect(s string) bool {
	l.SkipBlank()

	if strings.HasPrefix(l.input[l.position:], s) {
		l.position += len(s)
		return true
	}

	return false
}

// ExpectToken consumes the symbol of the token type
func (l *Lexer) ExpectToken(t TokenType) bool {
	return l.Expect(t.Symbol())
}

// Operator consumes the first of the candidate symbols the input continues with
func (l *Lexer) Operator(candidates ...TokenType) (TokenType, bool) {
	for _, t := range candidates {
		if l.ExpectToken(t) {
			return t, true
		}
	}

	return ILLEGAL, false
}

// Word consumes keyword kw only when it stands as a whole word
func (l *Lexer) Word(kw TokenType) bool {
	l.SkipBlank()

	if matchWord(l.input[l.position:]) == kw.Symbol() {
		l.position += len(kw.Symbol())
		return true
	}

	return false
}

// Ident consumes an identifier. Reserved words and words that start with a digit do not match.
func (l *Lexer) Ident() (string, bool) {
	l.SkipBlank()

	name, ok := MatchIdentifier(l.input[l.position:])
	if !ok {
		return "", false
	}

	l.position += len(name)
	return name, true
}

// Number consumes a numeric literal made of digits and at most one dot
func (l *Lexer) Number() (float64, bool) {
	l.SkipBlank()

	lexeme, ok := MatchNumber(l.input[l.position:])
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return 0, false
	}

	l.position += len(lexeme)
	return n, true
}

// Quoted consumes a string literal delimited by double quotes, single quotes
// or slashes and returns its text as written, escapes included. The g, i or
// m flag of a slash pattern is consumed and dropped.
func (l *Lexer) Quoted() (string, bool, error) {
	l.SkipBlank()

	quote := l.Peek(0)
	if quote != '"' && quote != '\'' && quote != '/' {
		return "", false, nil
	}

	start := l.position
	text, err := l.quoted(quote)
	if err != nil {
		l.position = start
		return "", false, err
	}

	if quote == '/' {
		switch l.Peek(0) {
		case 'g', 'i', 'm':
			l.position++
		}
	}

	return text, true, nil
}

// quoted reads the body of a literal whose opening delimiter is at the cursor
func (l *Lexer) quoted(quote byte) (string, error) {
	start := l.position
	l.position++

	var sb strings.Builder
	escaped := false
	for {
		ch := l.Peek(0)
		if l.position >= l.length {
			return "", l.errorAt(start, "expected %c to close the string", quote)
		}

		if ch == quote && !escaped {
			l.position++
			return sb.String(), nil
		}

		if (ch == '\n' || ch == '\r') && !escaped {
			return "", l.errorAt(start, "expected %c to close the string", quote)
		}

		if ch == '\\' {
			escaped = !escaped
		} else {
			escaped = false
		}

		sb.WriteByte(ch)
		l.position++
	}
}

// SkipStatement consumes one statement as raw text without evaluating it:
// a brace-balanced block, or everything up to and including the next ';'.
// Quoted strings are skipped whole so that braces and semicolons inside them
// are ignored, and so are blocks nested in the statement.
func (l *Lexer) SkipStatement() error {
	start := l.position

	l.SkipBlank()
	if l.Peek(0) == '{' {
		return l.SkipGroup('{', '}')
	}

	for !l.Expect(";") {
		if l.err != nil {
			return l.err
		}
		if l.position >= l.length {
			return l.errorAt(start, "expected ; to end the statement")
		}

		switch ch := l.input[l.position]; ch {
		case '"', '\'':
			if _, err := l.quoted(ch); err != nil {
				return err
			}
		case '{':
			if err := l.SkipGroup('{', '}'); err != nil {
				return err
			}
		default:
			l.position++
		}
	}

	return nil
}

var groupNames = map[byte]string{
	'}': "block",
	')': "parentheses",
	']': "brackets",
}

// SkipGroup consumes a balanced run of text that starts with open and ends
// with the matching close, skipping quoted strings and comments inside it.
func (l *Lexer) SkipGroup(open, close byte) error {
	l.SkipBlank()

	start := l.position
	if l.Peek(0) != open {
		return l.errorAt(start, "expected %c", open)
	}
	l.position++

	depth := 1
	for depth > 0 {
		l.SkipBlank()
		if l.err != nil {
			return l.err
		}
		if l.position >= l.length {
			return l.errorAt(start, "expected %c to close the %s", close, groupNames[close])
		}

		ch := l.input[l.position]
		if ch == '"' || ch == '\'' {
			if _, err := l.quoted(ch); err != nil {
				return err
			}
			continue
		}

		switch ch {
		case open:
			depth++
		case close:
			depth--
		}
		l.position++
	}

	return nil
}

// Unclosed counts the braces and parentheses left open at the end of s.
// An unterminated block comment counts as one open delimiter.
func Unclosed(s string) int {
	l := NewLexer(s)
	depth := 0

	for !l.AtEnd() {
		ch := l.input[l.position]
		if ch == '"' || ch == '\'' {
			if _, err := l.quoted(ch); err != nil {
				return depth
			}
			continue
		}

		switch ch {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
		l.position++
	}

	if l.err != nil {
		depth++
	}

	return depth
}

func (l *Lexer) errorAt(offset int, format string, args ...any) error {
	return &Error{Pos: l.PositionAt(offset), Message: fmt.Sprintf(format, args...)}
}

// fail records the first unrecoverable error
func (l *Lexer) fail(offset int, message string) {
	if l.err == nil {
		l.err = &Error{Pos: l.PositionAt(offset), Message: message}
	}
}
