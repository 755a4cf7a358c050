package color_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trapjs/pkg/color"
)

func TestPlainOutput(t *testing.T) {
	color.EnableColor(false)
	defer color.EnableColor(true)

	assert.False(t, color.IsColorEnabled())
	assert.Equal(t, "text", color.RedText("text"))
	assert.Equal(t, "3:7", color.Position(3, 7))
}

func TestErrorWithPosition(t *testing.T) {
	color.EnableColor(false)
	defer color.EnableColor(true)

	got := color.ErrorWithPosition("page.js", 2, 9, "scope error: c is undefined", "var b = c;")
	assert.Equal(t, "Error page.js:2:9: scope error: c is undefined\n    var b = c;\n            ^", got)

	got = color.ErrorWithPosition("page.js", 1, 1, "no progress", "")
	assert.Equal(t, "Error page.js:1:1: no progress", got)
}
