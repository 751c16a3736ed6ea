package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RMahshie/lightspeed/internal/dataset"
	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/internal/render"
)

type renderFlags struct {
	hover  int
	format string
	out    string
	width  int
	height int
	yMin   float64
	yMax   float64
}

func newRootCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the speed-of-light chart to a file",
		Long: `Render the measurement chart once, optionally with one record hovered.

Examples:
  render --out chart.svg
  render --hover 26 --format png --out aslakson.png
  render --y-min 299700 --y-max 299900 > zoomed.svg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, f)
		},
	}

	defaults := render.DefaultOptions()
	cmd.Flags().IntVar(&f.hover, "hover", 0, "sequence number of the record to hover (0 for none)")
	cmd.Flags().StringVar(&f.format, "format", "svg", "output format: svg or png")
	cmd.Flags().StringVarP(&f.out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&f.width, "width", defaults.Width, "chart width in pixels")
	cmd.Flags().IntVar(&f.height, "height", defaults.Height, "chart height in pixels")
	cmd.Flags().Float64Var(&f.yMin, "y-min", 0, "lower bound of the value axis")
	cmd.Flags().Float64Var(&f.yMax, "y-max", 0, "upper bound of the value axis, ignored unless above --y-min")

	return cmd
}

func runRender(cmd *cobra.Command, f renderFlags) error {
	format, err := render.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", f.width, f.height)
	}

	if loaded := dataset.Loaded(); !loaded.OK() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: dataset failed to decode (%v), using placeholder row\n", loaded.Err)
	}
	records := dataset.All()

	state := hover.State{}
	if f.hover != 0 {
		found := false
		for _, rec := range records {
			if rec.Sequence == f.hover {
				state = hover.Reduce(state, hover.Entered{Record: rec})
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no measurement with sequence %d", f.hover)
		}
	}

	opts := render.DefaultOptions()
	opts.Width = f.width
	opts.Height = f.height
	opts.YMin = f.yMin
	opts.YMax = f.yMax

	var buf bytes.Buffer
	if _, err := render.New(records, opts).Render(&buf, format, state); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if f.out != "-" && f.out != "" {
		file, err := os.Create(f.out) //nolint:gosec // user-provided path is expected
		if err != nil {
			return fmt.Errorf("create %s: %w", f.out, err)
		}
		defer file.Close() //nolint:errcheck // write errors surface below
		w = file
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
