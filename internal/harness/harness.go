// Package harness embeds the interpreter the way a scanner would: it strips
// markup from an input document, seeds the global frame with the intrinsics
// and trap objects, runs the script and reads back the target location.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trapjs/pkg/host"
	"trapjs/pkg/interpreter"
	"trapjs/pkg/markup"
	"trapjs/pkg/value"
)

// DefaultTarget is the trap field a redirect ends up in
const DefaultTarget = "location.href"

type Harness struct {
	Target   string      // dotted path read from the global frame after the run
	Fixture  []byte      // YAML trap objects, nil for window and location
	DebugDir string      // directory of flattened debug copies, empty to disable
	MaxDepth int         // call nesting limit, 0 for the interpreter default
	Raw      bool        // interpret the input without stripping markup
	Logger   *log.Logger // nil for the default logger
}

// Result of one run. Err holds the interpreter error, if any; the frames
// reflect the state at the point the run stopped.
type Result struct {
	File    string
	RunID   string
	Source  string      // text given to the interpreter
	Target  value.Value // None when the target is unset or unreachable
	Alerts  string      // everything written by alert
	Locals  interpreter.Frame
	Globals interpreter.Frame
	Err     error
}

// Redirected reports whether the script stored something in the target
func (r *Result) Redirected() bool {
	return !r.Target.IsNone()
}

// New creates a harness with the default target. fixture may be empty.
func New(fixture string) (*Harness, error) {
	h := &Harness{Target: DefaultTarget}

	if fixture != "" {
		data, err := os.ReadFile(fixture)
		if err != nil {
			return nil, fmt.Errorf("read globals fixture: %w", err)
		}
		if _, err := host.LoadFixture(data); err != nil {
			return nil, fmt.Errorf("%s: %w", fixture, err)
		}
		h.Fixture = data
	}

	return h, nil
}

func (h *Harness) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}

	return log.Default()
}

// RunFile reads path and runs it
func (h *Harness) RunFile(ctx context.Context, path string) (*Result, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return h.RunSource(ctx, path, string(input))
}

// RunSource runs doc under name. The returned error covers the harness
// itself; script failures are reported in Result.Err.
func (h *Harness) RunSource(ctx context.Context, name, doc string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		File:   name,
		RunID:  uuid.NewString(),
		Target: value.None(),
	}
	logger := h.logger().With("run", res.RunID, "file", name)

	res.Source = doc
	if !h.Raw {
		res.Source = markup.Strip(doc)
	}

	if h.DebugDir != "" {
		if err := h.writeDebugCopy(name, res.Source); err != nil {
			return nil, err
		}
	}

	globals, err := host.NewGlobals(h.Fixture)
	if err != nil {
		return nil, fmt.Errorf("seed globals: %w", err)
	}

	var alerts bytes.Buffer
	opts := []interpreter.Option{
		interpreter.WithWriter(&alerts),
		interpreter.WithLogger(logger),
	}
	if h.MaxDepth > 0 {
		opts = append(opts, interpreter.WithMaxDepth(h.MaxDepth))
	}

	it := interpreter.NewInterpreter(res.Source, globals, opts...)

	logger.Debug("running script", "bytes", len(res.Source))
	res.Err = it.Run()
	if res.Err != nil {
		logger.Warn("script aborted", "error", res.Err)
	}

	res.Alerts = alerts.String()
	res.Locals = it.Locals()
	res.Globals = it.Globals()

	target := h.Target
	if target == "" {
		target = DefaultTarget
	}
	if v, err := res.Globals.Path(target); err == nil {
		res.Target = v
	} else {
		logger.Debug("target unavailable", "target", target, "error", err)
	}

	if res.Redirected() {
		logger.Info("redirect", "target", target, "url", res.Target.String())
	}

	return res, nil
}

// RunAll runs every path with at most jobs runs at a time. Results keep
// the order of paths; the first harness error cancels the remaining runs.
func (h *Harness) RunAll(ctx context.Context, paths []string, jobs int) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for idx, path := range paths {
		idx, path := idx, path
		g.Go(func() error {
			res, err := h.RunFile(ctx, path)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (h *Harness) writeDebugCopy(name, text string) error {
	if err := os.MkdirAll(h.DebugDir, 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	path := filepath.Join(h.DebugDir, base+".js")

	if err := os.WriteFile(path, []byte(markup.Flatten(text)), 0o644); err != nil {
		return fmt.Errorf("write debug copy: %w", err)
	}
	h.logger().Debug("debug copy written", "path", path)

	return nil
}
