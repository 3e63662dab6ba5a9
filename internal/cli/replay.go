package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/phanxgames/pad"
)

const replayFrame = time.Second / 60

type replayOpts struct {
	width     int
	height    int
	maxFrames int
}

// newReplayCmd creates the replay command. It loads every plugin into a
// headless document, feeds it a JSON input script one frame at a time and
// prints the snapshots the script takes as TOML.
func newReplayCmd() *cobra.Command {
	opts := replayOpts{width: defaultWidth, height: defaultHeight, maxFrames: 10000}

	cmd := &cobra.Command{
		Use:   "replay [script.json]",
		Short: "Replay an input script headlessly and print transform snapshots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			data, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			script, err := pad.LoadScript(data)
			if err != nil {
				return err
			}

			m, err := NewManager(configFromContext(ctx), opts.width, opts.height)
			if err != nil {
				return err
			}
			if err := m.Load(); err != nil {
				return err
			}
			defer func() {
				if err := m.Unload(); err != nil {
					logger.Warn("unload failed", "err", err)
				}
			}()

			prog := newProgress(logger)
			frames, err := replay(ctx, m, script, opts.maxFrames)
			if err != nil {
				return err
			}
			if err := writeSnapshots(cmd.OutOrStdout(), script.Snapshots()); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Replayed %d frames", frames))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", opts.width, "viewport width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "viewport height in pixels")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", opts.maxFrames, "give up after this many frames")
	return cmd
}

// replay settles pending binds, then steps m until script is done. It
// returns the number of frames run.
func replay(ctx context.Context, m *pad.Manager, script *pad.ScriptRunner, maxFrames int) (int, error) {
	// Plugins attach once their binds resolve.
	m.Frame(replayFrame)
	m.Frame(replayFrame)

	m.Document().SetScript(script)
	defer m.Document().SetScript(nil)
	for n := 0; !script.Done(); n++ {
		if n >= maxFrames {
			return n, pad.NewError(pad.CodeInvalidInput, "script did not finish within %d frames", maxFrames)
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		m.Frame(replayFrame)
	}
	return m.Document().Frames(), nil
}

type snapshotFile struct {
	Snapshots []pad.Snapshot `toml:"snapshot"`
}

func writeSnapshots(w io.Writer, snaps []pad.Snapshot) error {
	return toml.NewEncoder(w).Encode(snapshotFile{Snapshots: snaps})
}
