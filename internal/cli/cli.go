// Package cli implements the pad command-line interface.
//
// # Commands
//
//   - run: open a whiteboard window with every plugin loaded
//   - stroke: turn JSON pen samples into an SVG path or document
//   - replay: run a JSON input script headlessly and print snapshots as TOML
//   - config: print the effective configuration as TOML
//
// # Flags
//
// All commands accept --config to read a TOML file on top of the defaults
// and --verbose (-v) for debug-level logging. The logger and the loaded
// configuration travel through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/pad"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. Values are
// usually injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the pad CLI with ctx.
func Execute(ctx context.Context) error {
	return RootCommand().ExecuteContext(ctx)
}

// RootCommand builds the command tree.
func RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "pad",
		Short:        "pad is a multi-touch whiteboard",
		Long:         `pad is a collaborative whiteboard: pan, rotate and zoom the canvas and its objects, draw with a pen, drop images and write markdown notes.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := pad.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = pad.LoadConfig(configPath); err != nil {
					return err
				}
			}

			level, err := pad.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			if verbose {
				level = charmlog.DebugLevel
				cfg.Log.Level = "debug"
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			pad.SetLogger(pad.NewLogger(cmd.ErrOrStderr(), level))

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			logger.Debug("configuration loaded", "path", configPath)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("pad %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("PAD_CONFIG"), "TOML configuration file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newStrokeCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newConfigCmd())
	return root
}
