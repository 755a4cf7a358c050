package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	prefix = "TRAPJS"

	verbose  = "verbose"
	noColor  = "no_color"
	target   = "target"
	globals  = "globals"
	debugDir = "debug_dir"
	maxDepth = "max_depth"
	jobs     = "jobs"
	dump     = "dump"
	raw      = "raw"

	DefaultTarget   = "location.href"
	DefaultMaxDepth = 256
	DefaultJobs     = 4
)

var v = newViper()

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(prefix)
	v.AutomaticEnv() // read in environment variables that match

	v.SetDefault(target, DefaultTarget)
	v.SetDefault(maxDepth, DefaultMaxDepth)
	v.SetDefault(jobs, DefaultJobs)

	return v
}

// InitConfiguration reads the optional config file and environment, then
// binds them to the command's flags.
func InitConfiguration(cmd *cobra.Command, configFile string) error {
	v = newViper()

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)

		err := v.ReadInConfig()
		if err != nil {
			log.Error("cannot read config file", "file", configFile, "error", err)
			return fmt.Errorf("fail to read config file %s: %w", configFile, err)
		}
		log.Debug("using config file", "file", v.ConfigFileUsed())
	}

	// Bind the current command's flags to viper
	bindFlags(cmd, v)

	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// replace - with _ to match yaml format
		flagName := f.Name
		if strings.Contains(f.Name, "-") {
			// Environment variables can't have dashes in them, so bind them to their equivalent
			// keys with underscores.
			flagName = strings.ReplaceAll(f.Name, "-", "_")
			v.BindEnv(flagName, fmt.Sprintf("%s_%s", prefix, strings.ToUpper(flagName)))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		// and the other way around.
		if !f.Changed && v.IsSet(flagName) {
			val := v.Get(flagName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		} else if f.Changed {
			v.Set(flagName, f.Value.String())
		}
	})
}

func IsVerbose() bool {
	return v.GetBool(verbose)
}

func IsNoColor() bool {
	return v.GetBool(noColor)
}

// GetTarget returns the dotted path read back from the global frame
func GetTarget() string {
	return v.GetString(target)
}

// GetGlobalsFile returns the YAML fixture of trap objects, empty for the built-in ones
func GetGlobalsFile() string {
	return v.GetString(globals)
}

// GetDebugDir returns the directory of stripped debug copies, empty when disabled
func GetDebugDir() string {
	return v.GetString(debugDir)
}

func GetMaxDepth() int {
	if n := v.GetInt(maxDepth); n > 0 {
		return n
	}

	return DefaultMaxDepth
}

func GetJobs() int {
	if n := v.GetInt(jobs); n > 0 {
		return n
	}

	return DefaultJobs
}

// ShouldDump reports whether the top-level variables are printed after a run
func ShouldDump() bool {
	return v.GetBool(dump)
}

// IsRaw reports whether inputs are interpreted without stripping markup
func IsRaw() bool {
	return v.GetBool(raw)
}
