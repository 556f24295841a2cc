package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/icmhg/spicesim/pkg/analysis"
)

// jsonResult is the wire shape written by WriteJSON: a flat document rather
// than analysis.Result's internal layout, so a downstream consumer never
// depends on this package's Go types.
type jsonResult struct {
	Kind        string               `json:"kind"`
	SweepPoints []float64            `json:"sweep_points"`
	Voltages    map[string][]float64 `json:"voltages"`
	Currents    map[string][]float64 `json:"currents"`
	Success     bool                 `json:"success"`
	WallTime    float64              `json:"wall_time_seconds"`
	FailedAt    int                  `json:"failed_at"`
}

// WriteJSON writes r as a single JSON document.
func WriteJSON(w io.Writer, r *analysis.Result) error {
	doc := jsonResult{
		Kind:        r.Kind.String(),
		SweepPoints: r.SweepPoints,
		Voltages:    r.Voltages,
		Currents:    r.Currents,
		Success:     r.Success,
		WallTime:    r.WallTime,
		FailedAt:    r.FailedAt,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: writing JSON: %w", err)
	}
	return nil
}
