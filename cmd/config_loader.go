package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/streamview/internal/config"
)

var stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// loadEffectiveConfig layers the user config file and then any flags the user
// set explicitly over the embedded defaults.
func loadEffectiveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.Resolve(configFile))
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Merge(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// flagOverrides collects the display flags that were set on the command line.
func flagOverrides(cmd *cobra.Command) config.Config {
	var over config.Config
	flags := cmd.Flags()
	if flags.Changed("max-width") {
		v := maxWidth
		over.Display.MaxWidth = &v
	}
	if flags.Changed("border") {
		v := borderName
		over.Display.Border = &v
	}
	if flags.Changed("no-color") {
		v := noColor
		over.Display.NoColor = &v
	}
	if flags.Changed("allow-unknown-types") {
		v := allowUnknownTypes
		over.Display.AllowUnknownTypes = &v
	}
	if flags.Changed("output") {
		v := output
		over.Display.Output = &v
	}
	return over
}

// resolveNoColor disables color when asked to by config or flag, when
// NO_COLOR is set, or when stdout is not a terminal.
func resolveNoColor(cfg config.Config) bool {
	if cfg.Display.NoColorEnabled() {
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !stdoutIsTerminal()
}
