package main

import (
	"os"

	"github.com/spf13/cobra"

	appErrors "dsfetch/internal/errors"
	"dsfetch/internal/infra/cfl"
	"dsfetch/internal/logging"
	"dsfetch/internal/presentation"
)

type inspectOptions struct {
	mask       string
	real       bool
	cumulative int
	verbose    bool
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect [flags] NAME...",
		Short: "Summarize complex-valued .hdr/.cfl arrays",
		Long: `Inspect reads NAME.hdr and NAME.cfl for each argument (given without
extension), squeezes singleton dimensions and prints per-slice statistics of
the magnitude, or of the real part with --real. With --mask, pixels where the
mask array is zero are left out of every slice.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.mask, "mask", "", "ROI mask array name (without extension)")
	cmd.Flags().BoolVar(&opts.real, "real", false, "Use the real part instead of the magnitude")
	cmd.Flags().IntVar(&opts.cumulative, "cumulative", 0, "Print the cumulative contribution of the first N values")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	return cmd
}

func executeInspect(cmd *cobra.Command, names []string, opts *inspectOptions) error {
	logger := logging.New(os.Stderr, opts.verbose)
	defer logger.Sync()

	var mask []float32
	if opts.mask != "" {
		m, err := cfl.Read(opts.mask)
		if err != nil {
			return appErrors.Wrap(appErrors.FormatFailure, "inspect", opts.mask, err)
		}
		mask = m.Squeeze().Real()
	}

	for _, name := range names {
		stop := logger.Measure("Inspecting " + name)
		arr, err := cfl.Read(name)
		if err != nil {
			return appErrors.Wrap(appErrors.FormatFailure, "inspect", name, err)
		}
		sq := arr.Squeeze()

		part := "magnitude"
		values := sq.Magnitude()
		if opts.real {
			part = "real"
			values = sq.Real()
		}

		stats, err := cfl.SliceStats(sq.Dims, values, mask)
		if err != nil {
			return appErrors.Wrap(appErrors.FormatFailure, "inspect", name, err)
		}

		r := presentation.ArrayReport{Name: name, Dims: sq.Dims, Part: part, Slices: stats}
		if opts.cumulative > 0 {
			cum := cfl.CumulativeContribution(values)
			if opts.cumulative < len(cum) {
				cum = cum[:opts.cumulative]
			}
			r.Cumulative = cum
		}
		presentation.PrintArrayReport(cmd.OutOrStdout(), r)
		stop()
	}
	return nil
}
