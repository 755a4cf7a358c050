package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trapjs/internal/config"
	"trapjs/internal/harness"
	"trapjs/pkg/color"
	"trapjs/pkg/interpreter"
)

var runCmd = &cobra.Command{
	Use:   "run <file>...",
	Short: "Interpret documents and report where they redirect",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness()
		if err != nil {
			return err
		}

		results, err := h.RunAll(cmd.Context(), args, config.GetJobs())
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			report(res)
			if res.Err != nil {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d scripts failed", failed, len(results))
		}

		return nil
	},
}

func init() {
	flags := runCmd.Flags()

	flags.String("debug-dir", "", "directory receiving the stripped text of each input")
	flags.IntP("jobs", "j", config.DefaultJobs, "number of inputs interpreted at once")
	flags.Bool("dump", false, "print the top-level variables after each run")
	flags.Bool("raw", false, "interpret inputs as script text without stripping markup")
}

func newHarness() (*harness.Harness, error) {
	h, err := harness.New(config.GetGlobalsFile())
	if err != nil {
		return nil, err
	}

	h.Target = config.GetTarget()
	h.DebugDir = config.GetDebugDir()
	h.MaxDepth = config.GetMaxDepth()
	h.Raw = config.IsRaw()

	return h, nil
}

func report(res *harness.Result) {
	os.Stdout.WriteString(res.Alerts)

	if res.Err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(res.File, res.Source, res.Err))
	}

	if config.ShouldDump() {
		fmt.Println(color.GreenText(fmt.Sprintf("=== Variables of %s ===", res.File)))
		if len(res.Locals) == 0 {
			fmt.Println(color.GrayText("No variables."))
		}
		for _, name := range res.Locals.Names() {
			v, _ := res.Locals.Get(name)
			fmt.Printf("%s = %s\n", color.CyanText(name), v.Inspect())
		}
	}

	url := "undefined"
	if res.Redirected() {
		url = res.Target.String()
	}
	fmt.Printf("%s: redirect url: %s\n", res.File, url)
}

// diagnostic renders an interpreter error with the line it points at
func diagnostic(file, source string, err error) string {
	var e *interpreter.Error
	if !errors.As(err, &e) {
		return color.BrightRedText(err.Error())
	}

	message := e.Kind.String() + ": " + e.Message
	if e.Block != "" {
		message += " (in " + e.Block + ")"
	}

	return color.ErrorWithPosition(file, e.Line, e.Column, message, sourceLine(source, e.Line))
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	return strings.TrimRight(lines[line-1], "\r")
}
