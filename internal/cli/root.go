// Package cli provides the Cobra command structure for galley.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/drake/galley/config"
	"github.com/drake/galley/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	bake       string
}

// NewRootCommand creates the root galley command with all subcommands.
// Running it without a subcommand opens the viewer.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "galley [file]",
		Short: "Inspect, copy and save the output of a bake",
		Long: `galley shows the result of a bake as text, rendered markup or a raw
binary buffer, and moves it where it needs to go: the clipboard, a file,
or back into the input for another round.

Input is read from the named file, or from stdin when it is piped.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, &flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (default "+config.File()+")")
	rootCmd.PersistentFlags().StringVar(&flags.bake, "bake", "auto", "bake to run: auto, passthrough, markdown")

	// Add subcommands.
	rootCmd.AddCommand(newViewCommand(&flags))
	rootCmd.AddCommand(newStatsCommand(&flags))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
