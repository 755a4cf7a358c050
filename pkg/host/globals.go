// Package host builds the global frame a script runs against: the boolean
// literals, the alert and toString intrinsics, and the trap objects whose
// fields the harness reads back after the run.
package host

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trapjs/pkg/interpreter"
	"trapjs/pkg/value"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Intrinsics returns a frame holding true, false, alert and toString
func Intrinsics() interpreter.Frame {
	f := interpreter.NewFrame()

	f.Set("true", value.Boolean(true))
	f.Set("false", value.Boolean(false))
	f.Set(interpreter.AlertIntrinsic, value.NewFunction(interpreter.AlertIntrinsic, []string{"message"}, "", 0))
	f.Set(interpreter.ToStringIntrinsic, value.NewFunction(interpreter.ToStringIntrinsic, []string{}, "", 0))

	return f
}

// NewGlobals returns the intrinsics plus the trap objects described by fixture.
// A nil fixture selects the built-in window/location traps.
func NewGlobals(fixture []byte) (interpreter.Frame, error) {
	if fixture == nil {
		fixture = defaultFixture
	}

	traps, err := LoadFixture(fixture)
	if err != nil {
		return nil, err
	}

	globals := Intrinsics()
	for name, v := range traps {
		globals.Set(name, v)
	}

	return globals, nil
}

// NewGlobalsFromFile is NewGlobals over the content of a YAML file.
// An empty path selects the built-in traps.
func NewGlobalsFromFile(path string) (interpreter.Frame, error) {
	if path == "" {
		return NewGlobals(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read globals fixture: %w", err)
	}

	globals, err := NewGlobals(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return globals, nil
}

// LoadFixture decodes a YAML mapping into values. Mappings become objects,
// and YAML aliases of the same anchor become the same object.
func LoadFixture(data []byte) (map[string]value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode globals fixture: %w", err)
	}

	traps := make(map[string]value.Value)
	if len(doc.Content) == 0 {
		return traps, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("globals fixture must be a mapping, line %d", root.Line)
	}

	b := &builder{objects: make(map[*yaml.Node]*value.Object)}
	for k := 0; k+1 < len(root.Content); k += 2 {
		name := root.Content[k].Value

		v, err := b.build(root.Content[k+1], name)
		if err != nil {
			return nil, err
		}
		traps[name] = v
	}

	return traps, nil
}

type builder struct {
	objects map[*yaml.Node]*value.Object // already built mappings, by node
}

func (b *builder) build(n *yaml.Node, label string) (value.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return b.build(n.Alias, label)

	case yaml.MappingNode:
		if obj, ok := b.objects[n]; ok {
			return value.FromObject(obj), nil
		}

		obj := value.NewObject(label)
		b.objects[n] = obj
		for k := 0; k+1 < len(n.Content); k += 2 {
			field := n.Content[k].Value

			v, err := b.build(n.Content[k+1], label+"."+field)
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(field, v)
		}
		return value.FromObject(obj), nil

	case yaml.ScalarNode:
		return scalar(n, label)

	default:
		return value.Value{}, fmt.Errorf("%s: unsupported fixture node at line %d", label, n.Line)
	}
}

func scalar(n *yaml.Node, label string) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.None(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", label, err)
		}
		return value.Boolean(b), nil

	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", label, err)
		}
		return value.Number(f), nil

	case "!!str":
		return value.String(n.Value), nil

	default:
		return value.Value{}, fmt.Errorf("%s: unsupported scalar %s at line %d", label, n.ShortTag(), n.Line)
	}
}
