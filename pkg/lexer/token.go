package lexer

import (
	"fmt"
)

type TokenType int

const (
	ILLEGAL TokenType = iota

	// reserved words
	FUNCTION // function
	VAR      // var
	IF       // if
	WHILE    // while
	ELSE     // else
	RETURN   // return

	// assignment
	ASSIGN     // =
	PLUS_EQ    // +=
	MINUS_EQ   // -=
	MULT_EQ    // *=
	DIV_EQ     // /=
	AND        // &&
	OR         // ||
	EQ         // ==
	NE         // !=
	NE_ALT     // <>
	LE         // <=
	GE         // >=
	LT         // <
	GT         // >
	PLUS       // +
	MINUS      // -
	MULT       // *
	DIV        // /
	NOT        // !
	DOT        // .
	COMMA      // ,
	SEMICOLON  // ;
	LPAREN     // (
	RPAREN     // )
	LBRACE     // {
	RBRACE     // }
	LSBRACE    // [
	RSBRACE    // ]
)

var symbols = map[TokenType]string{
	FUNCTION:  "function",
	VAR:       "var",
	IF:        "if",
	WHILE:     "while",
	ELSE:      "else",
	RETURN:    "return",
	ASSIGN:    "=",
	PLUS_EQ:   "+=",
	MINUS_EQ:  "-=",
	MULT_EQ:   "*=",
	DIV_EQ:    "/=",
	AND:       "&&",
	OR:        "||",
	EQ:        "==",
	NE:        "!=",
	NE_ALT:    "<>",
	LE:        "<=",
	GE:        ">=",
	LT:        "<",
	GT:        ">",
	PLUS:      "+",
	MINUS:     "-",
	MULT:      "*",
	DIV:       "/",
	NOT:       "!",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LSBRACE:   "[",
	RSBRACE:   "]",
}

// Keywords are the reserved words that can never be used as identifiers.
var Keywords = map[string]TokenType{
	"function": FUNCTION,
	"var":      VAR,
	"if":       IF,
	"while":    WHILE,
	"else":     ELSE,
	"return":   RETURN,
}

// Symbol returns the source text of the token type
func (t TokenType) Symbol() string {
	return symbols[t]
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := symbols[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// Compound returns the arithmetic operator behind a compound assignment
func (t TokenType) Compound() (TokenType, bool) {
	switch t {
	case PLUS_EQ:
		return PLUS, true
	case MINUS_EQ:
		return MINUS, true
	case MULT_EQ:
		return MULT, true
	case DIV_EQ:
		return DIV, true
	default:
		return ILLEGAL, false
	}
}

// IsKeyword checks if the given identifier is a keyword and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[identifier]
	return tokenType, ok
}
