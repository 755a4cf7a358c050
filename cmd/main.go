package main

import (
	"github.com/charmbracelet/log"
)

// Main entry point for the trapjs sandbox.
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal("trapjs failed", "error", err)
	}
}
