package harness_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trapjs/internal/harness"
	"trapjs/pkg/interpreter"
	"trapjs/pkg/value"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRunSourceRedirect(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)

	doc := `<html><script>
var base = "http://example.com/";
window.location.href = base + "landing";
alert("moved");
</script></html>`

	res, err := h.RunSource(context.Background(), "page.html", doc)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.True(t, res.Redirected())
	assert.Equal(t, "http://example.com/landing", res.Target.String())
	assert.Equal(t, "moved\n", res.Alerts)
	assert.NotContains(t, res.Source, "<script>")

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)

	base, ok := res.Locals.Get("base")
	require.True(t, ok)
	assert.Equal(t, value.String("http://example.com/"), base)
}

func TestRunSourceWithoutRedirect(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)

	res, err := h.RunSource(context.Background(), "quiet.js", "var a = 1;")
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.False(t, res.Redirected())
	assert.Equal(t, "undefined", res.Target.String())
}

func TestRunSourceScriptError(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)

	res, err := h.RunSource(context.Background(), "broken.js", "location.href = \"http://a\";\nvar c = \"abc\"[5];")
	require.NoError(t, err)

	assert.ErrorIs(t, res.Err, interpreter.ErrIndex)
	// writes made before the error are still reported
	assert.Equal(t, "http://a", res.Target.String())
}

func TestRawSkipsStripping(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)
	h.Raw = true

	res, err := h.RunSource(context.Background(), "raw.js", `var r = "<b>bold</b>";`)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	r, ok := res.Locals.Get("r")
	require.True(t, ok)
	assert.Equal(t, value.String("<b>bold</b>"), r)

	h.Raw = false
	res, err = h.RunSource(context.Background(), "stripped.js", `var r = "<b>bold</b>";`)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	r, _ = res.Locals.Get("r")
	assert.Equal(t, value.String("bold"), r)
}

func TestCustomTarget(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)
	h.Target = "window.href"

	res, err := h.RunSource(context.Background(), "t.js", `window.href = "http://b";`)
	require.NoError(t, err)
	assert.Equal(t, "http://b", res.Target.String())

	h.Target = "document.cookie"
	res, err = h.RunSource(context.Background(), "t.js", `var a;`)
	require.NoError(t, err)
	assert.False(t, res.Redirected())
}

func TestCustomFixture(t *testing.T) {
	dir := t.TempDir()
	fixture := writeFile(t, dir, "traps.yaml", "document:\n  cookie: \"\"\n")

	h, err := harness.New(fixture)
	require.NoError(t, err)
	h.Target = "document.cookie"

	res, err := h.RunSource(context.Background(), "c.js", `document.cookie = "stolen";`)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, "stolen", res.Target.String())

	_, err = harness.New(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "- not a mapping\n")
	_, err = harness.New(bad)
	assert.Error(t, err)
}

func TestMaxDepth(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)
	h.MaxDepth = 4

	res, err := h.RunSource(context.Background(), "deep.js", `function f() { return f(); } f();`)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, interpreter.ErrDepth)
}

func TestDebugCopy(t *testing.T) {
	dir := t.TempDir()
	debugDir := filepath.Join(dir, "debug")
	input := writeFile(t, dir, "page.html", "<script>\nvar a = 1;\nvar b = 2;\n</script>")

	h, err := harness.New("")
	require.NoError(t, err)
	h.DebugDir = debugDir

	_, err = h.RunFile(context.Background(), input)
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(debugDir, "page.js"))
	require.NoError(t, err)
	assert.Equal(t, " var a = 1; var b = 2; ", string(copied))
}

func TestRunFileMissing(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)

	_, err = h.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	h, err := harness.New("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.RunSource(ctx, "a.js", "var a;")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for n := 0; n < 8; n++ {
		src := fmt.Sprintf(`location.href = "http://example.com/%d";`, n)
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("in%d.js", n), src))
	}

	h, err := harness.New("")
	require.NoError(t, err)

	results, err := h.RunAll(context.Background(), paths, 3)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	ids := make(map[string]bool)
	for n, res := range results {
		assert.Equal(t, paths[n], res.File)
		assert.Equal(t, fmt.Sprintf("http://example.com/%d", n), res.Target.String())
		ids[res.RunID] = true
	}
	assert.Len(t, ids, len(paths))
}

func TestRunAllStopsOnHarnessError(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "ok.js", "var a;"),
		filepath.Join(dir, "missing.js"),
	}

	h, err := harness.New("")
	require.NoError(t, err)

	_, err = h.RunAll(context.Background(), paths, 1)
	assert.Error(t, err)
}
