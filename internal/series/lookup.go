package series

import (
	"sort"

	"github.com/jondo2010/fmusim/internal/fmi"
)

// PreLookup resolves a query time to the bracketing sample index. The last
// resolved index is cached: queries that advance monotonically probe forward
// from it in amortized O(1), and any query below the previous one falls back
// to a full binary search.
type PreLookup struct {
	times []float64
	index int
	last  float64
	valid bool
}

// NewPreLookup builds a lookup over a non-decreasing time axis.
func NewPreLookup(times []float64) *PreLookup {
	return &PreLookup{times: times}
}

// Find returns the greatest index i with times[i] <= t, or -1 when t is
// before the first sample. With duplicate timestamps equal to t it lands on
// the last duplicate (the post-jump sample).
func (p *PreLookup) Find(t float64) int {
	if len(p.times) == 0 {
		return -1
	}
	if p.valid && t >= p.last && p.index >= 0 {
		i := p.index
		for i+1 < len(p.times) && p.times[i+1] <= t {
			i++
		}
		p.index, p.last = i, t
		return i
	}

	// first use or time decrease
	i := sort.SearchFloat64s(p.times, t)
	// SearchFloat64s returns the first index >= t; step back past it and
	// then forward over duplicates equal to t.
	if i < len(p.times) && p.times[i] == t {
		for i+1 < len(p.times) && p.times[i+1] == t {
			i++
		}
	} else {
		i--
	}
	p.index, p.last, p.valid = i, t, true
	return i
}

// FindAt resolves t like Find, then disambiguates an exact landing on a
// duplicated timestamp: afterEvent selects the pre-jump (left-limit) sample,
// otherwise the post-jump (right-limit) sample is kept.
func (p *PreLookup) FindAt(t float64, afterEvent bool) int {
	i := p.Find(t)
	if !afterEvent || i <= 0 || p.times[i] != t {
		return i
	}
	for i > 0 && p.times[i-1] == p.times[i] {
		i--
	}
	return i
}

// Interpolate blends column c linearly around bracketing index i for query
// t. The segment degenerates to a hold when i is the last row or the
// bracket has zero width; queries outside the range clamp to the edge rows.
func Interpolate(c *Column, times []float64, i int, t float64) float64 {
	if i < 0 {
		return c.Float(0)
	}
	if i+1 >= len(times) || times[i+1] == times[i] {
		return c.Float(i)
	}
	v0, v1 := c.Float(i), c.Float(i+1)
	return v0 + (v1-v0)*(t-times[i])/(times[i+1]-times[i])
}

// Hold returns the raw sample at bracketing index i with no blending,
// clamping an index before the first row to row zero.
func Hold(c *Column, i int) fmi.Value {
	if i < 0 {
		i = 0
	}
	return c.Value(i)
}
