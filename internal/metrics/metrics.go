// Package metrics computes summary statistics over a finished run's
// recorded outputs. Summaries are flat name.stat keys so they drop straight
// into run metadata.
package metrics

import (
	"math"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/output"
)

// Summarize reduces every numeric output column to min, max, mean and final
// value, keyed "<column>.<stat>". Non-numeric columns are skipped.
func Summarize(res *output.Result) map[string]float64 {
	out := make(map[string]float64)
	if res == nil {
		return out
	}
	for _, c := range res.Columns {
		if !numeric(c.Kind) || len(c.Values) == 0 {
			continue
		}
		samples := c.Floats()
		min, max := math.Inf(1), math.Inf(-1)
		sum := 0.0
		for _, v := range samples {
			min = math.Min(min, v)
			max = math.Max(max, v)
			sum += v
		}
		out[c.Name+".min"] = min
		out[c.Name+".max"] = max
		out[c.Name+".mean"] = sum / float64(len(samples))
		out[c.Name+".final"] = samples[len(samples)-1]
	}
	return out
}

func numeric(k fmi.Kind) bool {
	return k != fmi.KindString && k != fmi.KindBinary
}
