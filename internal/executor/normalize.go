package executor

import (
	"fmt"
	"maps"
	"math"
)

// Normalize divides every entry of hist by the total.
func Normalize(hist map[string]float64) (map[string]float64, error) {
	var total float64
	for outcome, v := range hist {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("outcome %q has invalid count %v", outcome, v)
		}
		total += v
	}
	if total == 0 {
		return nil, fmt.Errorf("histogram is empty")
	}
	out := maps.Clone(hist)
	for outcome := range out {
		out[outcome] /= total
	}
	return out, nil
}
