// Package export writes a Result to CSV or JSON. No third-party CSV or
// JSON library appears anywhere in the example pack, so these writers use
// encoding/csv and encoding/json directly — the stdlib is the correct idiom
// here, not a gap (see DESIGN.md). They mirror the column layout
// edp1096-toy-spice/cmd/main.go prints to the terminal (sweep axis, then
// V(...) columns, then I(...) columns), just to a machine-readable sink.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/icmhg/spicesim/pkg/analysis"
)

// WriteCSV writes r as a header row plus one row per sweep/time point:
// the sweep axis column first, then one V(name) column per node in sorted
// name order, then one I(name) column per source in sorted name order.
func WriteCSV(w io.Writer, r *analysis.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	axisName := axisColumnName(r.Kind)
	nodeNames := sortedKeys(r.Voltages)
	sourceNames := sortedKeys(r.Currents)

	header := make([]string, 0, 1+len(nodeNames)+len(sourceNames))
	header = append(header, axisName)
	for _, n := range nodeNames {
		header = append(header, "V("+n+")")
	}
	for _, n := range sourceNames {
		header = append(header, "I("+n+")")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: writing CSV header: %w", err)
	}

	for i, sweepVal := range r.SweepPoints {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprintf("%.12g", sweepVal))
		for _, n := range nodeNames {
			row = append(row, fmt.Sprintf("%.12g", r.Voltages[n][i]))
		}
		for _, n := range sourceNames {
			row = append(row, fmt.Sprintf("%.12g", r.Currents[n][i]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: writing CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func axisColumnName(kind analysis.Kind) string {
	switch kind {
	case analysis.TransientKind:
		return "time"
	case analysis.DCSweepKind:
		return "sweep"
	default:
		return "point"
	}
}

func sortedKeys(m map[string][]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
