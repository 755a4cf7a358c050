package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"trapjs/internal/config"
	"trapjs/pkg/color"
	"trapjs/pkg/host"
	"trapjs/pkg/interpreter"
	"trapjs/pkg/lexer"
)

const (
	historyFile = ".trapjs_history"
	promptMain  = "trapjs> "
	promptCont  = "....... "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive session against the trap objects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		globals, err := host.NewGlobalsFromFile(config.GetGlobalsFile())
		if err != nil {
			return err
		}

		it := interpreter.NewInterpreter("", globals,
			interpreter.WithWriter(os.Stdout),
			interpreter.WithLogger(log.Default()),
			interpreter.WithMaxDepth(config.GetMaxDepth()),
		)

		return repl(it)
	},
}

func repl(it *interpreter.Interpreter) error {
	fmt.Println(color.BoldText("trapjs"), color.GrayText("- type :vars to list variables, :quit to exit"))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return nil
			case ":vars":
				printFrame("locals", it.Locals())
				printFrame("globals", it.Globals())
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		v, err := it.Eval(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, diagnostic("<repl>", code, err))
			continue
		}
		if !v.IsNone() {
			fmt.Println(color.YellowText(v.Inspect()))
		}
	}
}

// readStatement reads lines until every brace, bracket and string is closed
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if lexer.Unclosed(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

func printFrame(title string, f interpreter.Frame) {
	fmt.Println(color.GreenText("=== " + title + " ==="))
	for _, name := range f.Names() {
		v, _ := f.Get(name)
		fmt.Printf("%s = %s\n", color.CyanText(name), v.Inspect())
	}
}
