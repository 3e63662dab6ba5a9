package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pad"
)

// sample is one pen sample as read from JSON.
type sample struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Force float64 `json:"force"`
}

type strokeOpts struct {
	width float64
	zoom  float64
	color string
	svg   bool
}

// newStrokeCmd creates the stroke command. It reads a JSON array of
// {"x","y","force"} samples from a file or stdin and prints the synthesized
// outline as SVG path data, or as a standalone SVG document with --svg.
func newStrokeCmd() *cobra.Command {
	var opts strokeOpts

	cmd := &cobra.Command{
		Use:   "stroke [file]",
		Short: "Synthesize a stroke outline from JSON pen samples",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if !cmd.Flags().Changed("width") {
				opts.width = cfg.Drawing.StrokeWidth
			}
			if !cmd.Flags().Changed("color") {
				opts.color = cfg.Drawing.Colors[0]
			}

			if err := pad.CheckStrokeParams(opts.width, opts.zoom); err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			prog := newProgress(logger)
			s, err := readStroke(in, opts.width, opts.color)
			if err != nil {
				return err
			}
			if err := writeStroke(cmd.OutOrStdout(), s, opts); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Synthesized %d samples", s.Len()))
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.width, "width", 0, "stroke width (defaults to drawing.stroke_width)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 1, "canvas zoom the samples were taken at")
	cmd.Flags().StringVar(&opts.color, "color", "", "fill color for --svg (defaults to the first palette color)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "write a standalone SVG document")
	return cmd
}

// readStroke decodes samples into a stroke. Invalid samples fail the whole
// read with their index.
func readStroke(r io.Reader, width float64, color string) (*pad.Stroke, error) {
	var samples []sample
	if err := json.NewDecoder(r).Decode(&samples); err != nil {
		return nil, pad.WrapError(pad.CodeInvalidInput, err, "decode samples")
	}
	s := pad.NewStroke(width, color)
	for i, p := range samples {
		if err := s.Add(pad.Point{X: p.X, Y: p.Y, Force: p.Force}); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return s, nil
}

func writeStroke(w io.Writer, s *pad.Stroke, opts strokeOpts) error {
	d := s.PathData(opts.zoom)
	if !opts.svg {
		_, err := fmt.Fprintln(w, d)
		return err
	}
	minX, minY, maxX, maxY := bounds(s.Outline(opts.zoom))
	margin := s.Width
	_, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%g %g %g %g\">\n  <path d=\"%s\" fill=\"%s\"/>\n</svg>\n",
		minX-margin, minY-margin, maxX-minX+2*margin, maxY-minY+2*margin, d, opts.color)
	return err
}

func bounds(pts []pad.Vec2) (minX, minY, maxX, maxY float64) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
