package logger_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"trapjs/internal/logger"
)

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	defer logger.Init(false, false)

	logger.InitWithWriter(&buf, false, true)
	log.Debug("hidden call")
	log.Warn("script aborted", "file", "a.js")

	assert.NotContains(t, buf.String(), "hidden call")
	assert.Contains(t, buf.String(), "TRAPJS")
	assert.Contains(t, buf.String(), "file=a.js")

	buf.Reset()
	logger.InitWithWriter(&buf, true, true)
	log.Debug("call", "function", "f")

	assert.Contains(t, buf.String(), "function=f")
}
