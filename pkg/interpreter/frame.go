package interpreter

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"trapjs/pkg/value"
)

// ReturnSlot is the local variable a function body stores its result in
const ReturnSlot = "returned_value"

// Frame maps variable names to values. A call frame is a copy of the
// caller's locals; the global frame is shared by every call of a run.
type Frame map[string]value.Value

// NewFrame creates an empty frame
func NewFrame() Frame {
	return make(Frame)
}

// Get returns the variable called name
func (f Frame) Get(name string) (value.Value, bool) {
	v, ok := f[name]
	return v, ok
}

// Set binds name to v
func (f Frame) Set(name string, v value.Value) {
	f[name] = v
}

// Clone copies the bindings. Objects stay shared.
func (f Frame) Clone() Frame {
	return maps.Clone(f)
}

// Names returns the bound names in sorted order
func (f Frame) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Path reads a dotted path such as "location.href"
func (f Frame) Path(path string) (value.Value, error) {
	segments := strings.Split(path, ".")

	v, ok := f[segments[0]]
	if !ok {
		return value.Value{}, fmt.Errorf("%s is undefined", segments[0])
	}

	for idx, name := range segments[1:] {
		if v.Kind != value.KindObject {
			return value.Value{}, fmt.Errorf("%s is not an object", strings.Join(segments[:idx+1], "."))
		}
		if v, ok = v.Obj.Get(name); !ok {
			return value.Value{}, fmt.Errorf("%s has no property called %s", strings.Join(segments[:idx+1], "."), name)
		}
	}

	return v, nil
}

// navigate resolves a chain of names to the value it designates, or reports false
func (f Frame) navigate(path []string) (value.Value, bool) {
	v, ok := f[path[0]]
	if !ok {
		return value.Value{}, false
	}

	for _, name := range path[1:] {
		if v.Kind != value.KindObject {
			return value.Value{}, false
		}
		if v, ok = v.Obj.Get(name); !ok {
			return value.Value{}, false
		}
	}

	return v, true
}
