package host_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trapjs/pkg/host"
	"trapjs/pkg/interpreter"
	"trapjs/pkg/value"
)

func TestIntrinsics(t *testing.T) {
	f := host.Intrinsics()

	assert.Equal(t, []string{"alert", "false", "toString", "true"}, f.Names())

	tv, _ := f.Get("true")
	assert.Equal(t, value.Boolean(true), tv)

	alert, _ := f.Get(interpreter.AlertIntrinsic)
	require.Equal(t, value.KindFunction, alert.Kind)
	assert.Equal(t, []string{"message"}, alert.Fn.Params)

	toString, _ := f.Get(interpreter.ToStringIntrinsic)
	require.Equal(t, value.KindFunction, toString.Kind)
	assert.Empty(t, toString.Fn.Params)
}

func TestDefaultTraps(t *testing.T) {
	globals, err := host.NewGlobals(nil)
	require.NoError(t, err)

	window, ok := globals.Get("window")
	require.True(t, ok)
	require.Equal(t, value.KindObject, window.Kind)
	assert.Equal(t, "window", window.Obj.Label)
	assert.Equal(t, []string{"href", "location"}, window.Obj.Keys())

	href, err := globals.Path("window.href")
	require.NoError(t, err)
	assert.Equal(t, value.String(""), href)

	target, err := globals.Path("location.href")
	require.NoError(t, err)
	assert.True(t, target.IsNone())

	nested, err := globals.Path("window.location")
	require.NoError(t, err)
	location, _ := globals.Get("location")
	assert.Same(t, location.Obj, nested.Obj)
	assert.Equal(t, "window.location", location.Obj.Label)
}

func TestGlobalsAreFreshPerCall(t *testing.T) {
	first, err := host.NewGlobals(nil)
	require.NoError(t, err)
	second, err := host.NewGlobals(nil)
	require.NoError(t, err)

	loc, _ := first.Get("location")
	loc.Obj.Set("href", value.String("http://example.com"))

	target, err := second.Path("location.href")
	require.NoError(t, err)
	assert.True(t, target.IsNone())
}

func TestLoadFixture(t *testing.T) {
	fixture := []byte(`
document:
  cookie: "session=1"
  title: Example
  depth: 2
  ratio: 0.5
  ready: true
  referrer: ~
  body: &body
    text: ""
top: *body
`)

	traps, err := host.LoadFixture(fixture)
	require.NoError(t, err)

	doc := traps["document"]
	require.Equal(t, value.KindObject, doc.Kind)

	fields := map[string]value.Value{
		"cookie":   value.String("session=1"),
		"title":    value.String("Example"),
		"depth":    value.Number(2),
		"ratio":    value.Number(0.5),
		"ready":    value.Boolean(true),
		"referrer": value.None(),
	}
	for name, expected := range fields {
		got, ok := doc.Obj.Get(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, expected, got, name)
		}
	}

	body, _ := doc.Obj.Get("body")
	assert.Same(t, body.Obj, traps["top"].Obj)
	assert.Equal(t, "document.body", body.Obj.Label)
}

func TestLoadFixtureErrors(t *testing.T) {
	tests := []struct {
		description string
		fixture     string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"sequence field", "window:\n  frames: [1, 2]\n"},
		{"binary scalar", "window:\n  blob: !!binary aGVsbG8=\n"},
		{"broken yaml", "window: [\n"},
	}

	for _, test := range tests {
		_, err := host.LoadFixture([]byte(test.fixture))
		assert.Error(t, err, test.description)
	}
}

func TestEmptyFixture(t *testing.T) {
	traps, err := host.LoadFixture([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, traps)
}

func TestNewGlobalsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("location:\n  href: \"\"\n"), 0o644))

	globals, err := host.NewGlobalsFromFile(path)
	require.NoError(t, err)

	href, err := globals.Path("location.href")
	require.NoError(t, err)
	assert.Equal(t, value.String(""), href)

	_, ok := globals.Get("window")
	assert.False(t, ok)

	_, ok = globals.Get("alert")
	assert.True(t, ok)

	_, err = host.NewGlobalsFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
