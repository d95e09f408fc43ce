// Package cli implements the svgplot command-line interface.
//
// The commands plot an SVG document on a Line-us plotter over the
// network, write the plotter commands to a file instead, or send single
// manual commands. Every command accepts --verbose for debug logging and
// --config to read settings from a TOML file.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/vasalvit/svgplot/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the svgplot command tree.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		noColor    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "svgplot",
		Short:        "svgplot draws SVG documents with a Line-us plotter",
		Long:         `svgplot walks the paths of an SVG document, flattens its curves and streams the resulting moves to a Line-us drawing robot, or writes them to a G-code file.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			if noColor {
				logger.SetColorProfile(termenv.Ascii)
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("svgplot %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/svgplot/config.toml)")

	root.AddCommand(newPlotCmd())
	root.AddCommand(newLayerCmd())
	root.AddCommand(newGcodeCmd())
	root.AddCommand(newManualCmd())
	root.AddCommand(newConfigCmd())

	return root
}
