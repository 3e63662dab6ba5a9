package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pad"
	"github.com/phanxgames/pad/plugins"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

type runOpts struct {
	title   string
	width   int
	height  int
	showFPS bool
	debug   bool
	script  string
}

func newRunCmd() *cobra.Command {
	opts := runOpts{title: "pad", width: defaultWidth, height: defaultHeight}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a whiteboard window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			m, err := NewManager(configFromContext(ctx), opts.width, opts.height)
			if err != nil {
				return err
			}
			m.Document().SetDebugMode(opts.debug)

			var script *pad.ScriptRunner
			if opts.script != "" {
				data, err := os.ReadFile(opts.script)
				if err != nil {
					return err
				}
				if script, err = pad.LoadScript(data); err != nil {
					return err
				}
			}
			logger.Info("starting", "width", opts.width, "height", opts.height, "plugins", len(m.Plugins()))

			return pad.Run(m, pad.RunConfig{
				Title:   opts.title,
				Width:   opts.width,
				Height:  opts.height,
				ShowFPS: opts.showFPS,
				Script:  script,
			})
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", opts.title, "window title")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "window width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "window height in pixels")
	cmd.Flags().BoolVar(&opts.showFPS, "fps", false, "show the FPS overlay")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log document activity")
	cmd.Flags().StringVar(&opts.script, "script", "", "JSON input script to play once the window opens")
	return cmd
}

// NewManager creates a manager for a width x height viewport with every
// plugin registered in load order: object interaction before canvas
// interaction so object gestures are claimed first.
func NewManager(cfg pad.Config, width, height int) (*pad.Manager, error) {
	m, err := pad.NewManager(cfg, pad.Rect{Width: float64(width), Height: float64(height)})
	if err != nil {
		return nil, err
	}
	for _, p := range []pad.Plugin{
		plugins.NewCanvasObjectInteraction(),
		plugins.NewCanvasInteraction(),
		plugins.NewCanvasDrawing(),
		plugins.NewImageBox(),
		plugins.NewMarkdownNote(nil),
	} {
		if err := m.AddPlugin(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}
