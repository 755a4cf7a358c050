// Package markup removes markup from a document so that the text of its
// scripts can be interpreted.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip drops every tag, comment and doctype of doc and keeps the text
// between them verbatim. Script bodies are raw text and survive unchanged.
func Strip(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))

	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Raw())
		}
	}
}

// Flatten replaces line breaks with spaces, the form of the debug copy
func Flatten(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}
