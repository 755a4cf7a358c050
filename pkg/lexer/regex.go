package lexer

import (
	"regexp"
)

type tokenRegex struct {
	Pattern *regexp.Regexp
	Raw     string
}

var (
	// digits with at most one dot; the caller rejects a lone "."
	numberRegex = tokenRegex{regexp.MustCompile(`^[0-9]*(\.[0-9]*)?`), `^[0-9]*(\.[0-9]*)?`}
	identRegex  = tokenRegex{regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*`), `^[\p{L}_][\p{L}\p{N}_]*`}
	wordRegex   = tokenRegex{regexp.MustCompile(`^[\p{L}\p{N}_]+`), `^[\p{L}\p{N}_]+`}
)

// MatchNumber returns the numeric literal at the start of s, if any
func MatchNumber(s string) (string, bool) {
	match := numberRegex.Pattern.FindString(s)
	if match == "" || match == "." {
		return "", false
	}

	return match, true
}

// MatchIdentifier returns the identifier at the start of s, if any.
// Reserved words do not match.
func MatchIdentifier(s string) (string, bool) {
	match := identRegex.Pattern.FindString(s)
	if match == "" {
		return "", false
	}

	if _, reserved := IsKeyword(match); reserved {
		return "", false
	}

	return match, true
}

// matchWord returns the run of identifier characters at the start of s
func matchWord(s string) string {
	return wordRegex.Pattern.FindString(s)
}
