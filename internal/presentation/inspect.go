package presentation

import (
	"fmt"
	"io"
	"strings"

	"dsfetch/internal/infra/cfl"
)

// ArrayReport is what `inspect` prints for one array.
type ArrayReport struct {
	Name       string
	Dims       []int
	Part       string
	Slices     []cfl.Stats
	Cumulative []float64
}

func PrintArrayReport(w io.Writer, r ArrayReport) {
	fmt.Fprintf(w, "%s: dims %s (%s)\n", r.Name, formatDims(r.Dims), r.Part)
	for i, st := range r.Slices {
		if st.Count == 0 {
			fmt.Fprintf(w, "  slice %d: no unmasked pixels\n", i)
			continue
		}
		fmt.Fprintf(w, "  slice %d: n=%d min=%.4g max=%.4g mean=%.4g\n", i, st.Count, st.Min, st.Max, st.Mean)
	}
	for i, c := range r.Cumulative {
		fmt.Fprintf(w, "  component %d: %.2f%%\n", i+1, c*100)
	}
}

func formatDims(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, "x")
}
