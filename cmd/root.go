package main

import (
	"github.com/spf13/cobra"

	"trapjs/internal/config"
	"trapjs/internal/logger"
	"trapjs/pkg/color"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "trapjs",
	Short: "Run untrusted script fragments against trap objects",
	Long: `trapjs interprets a tiny JavaScript-like language in a sandbox.
Scripts run against the window and location trap objects, and the
value they leave in location.href is reported as the redirect target.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfiguration(cmd, configFile); err != nil {
			return err
		}

		logger.Init(config.IsVerbose(), config.IsNoColor())
		color.EnableColor(!config.IsNoColor())

		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&configFile, "config", "c", "", "configuration file")
	flags.BoolP("verbose", "v", false, "verbose mode, traces function calls")
	flags.BoolP("no-color", "n", false, "no color")
	flags.String("target", config.DefaultTarget, "dotted path reported after the run")
	flags.String("globals", "", "YAML file describing the trap objects")
	flags.Int("max-depth", config.DefaultMaxDepth, "maximum nesting of function calls")

	rootCmd.AddCommand(runCmd, replCmd)
}
