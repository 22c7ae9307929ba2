package series

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/jondo2010/fmusim/internal/fmi"
)

func floatColumn(name string, vals ...float64) *Column {
	return &Column{Name: name, Kind: fmi.KindFloat64, floats: vals}
}

func TestFindBracket(t *testing.T) {
	times := []float64{0, 1, 2, 4}

	tests := []struct {
		name  string
		query float64
		want  int
	}{
		{"before first", -0.5, -1},
		{"at first", 0, 0},
		{"between", 1.5, 1},
		{"at sample", 2, 2},
		{"inside last interval", 3.9, 2},
		{"at last", 4, 3},
		{"after last", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreLookup(times)
			if got := p.Find(tt.query); got != tt.want {
				t.Errorf("Find(%g) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

// The cached fast path must agree with an independent binary search for any
// non-decreasing query sequence.
func TestFindMonotonicMatchesBinarySearch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	times := make([]float64, 0, 200)
	tcur := 0.0
	for i := 0; i < 200; i++ {
		tcur += rng.Float64()
		times = append(times, tcur)
	}

	ref := func(q float64) int {
		i := sort.Search(len(times), func(i int) bool { return times[i] > q }) - 1
		return i
	}

	p := NewPreLookup(times)
	q := -1.0
	for i := 0; i < 2000; i++ {
		q += rng.Float64() * 0.3
		if got, want := p.Find(q), ref(q); got != want {
			t.Fatalf("query %g: cached path %d, binary search %d", q, got, want)
		}
	}
}

func TestFindResetsOnTimeDecrease(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	p := NewPreLookup(times)

	if got := p.Find(3.5); got != 3 {
		t.Fatalf("Find(3.5) = %d, want 3", got)
	}
	if got := p.Find(0.5); got != 0 {
		t.Errorf("Find(0.5) after decrease = %d, want 0", got)
	}
	if got := p.Find(2.5); got != 2 {
		t.Errorf("Find(2.5) = %d, want 2", got)
	}
}

func TestFindAtJump(t *testing.T) {
	// jump at t=1: rows (1, 10) then (1, 20)
	times := []float64{0, 1, 1, 2}
	col := floatColumn("u", 0, 10, 20, 20)

	p := NewPreLookup(times)
	if i := p.FindAt(1, true); i != 1 || col.Float(i) != 10 {
		t.Errorf("after-event lookup: index %d value %g, want pre-jump 10", i, col.Float(i))
	}
	p = NewPreLookup(times)
	if i := p.FindAt(1, false); i != 2 || col.Float(i) != 20 {
		t.Errorf("lookup: index %d value %g, want post-jump 20", i, col.Float(i))
	}
	// afterEvent is a no-op away from jumps
	p = NewPreLookup(times)
	if i := p.FindAt(0, true); i != 0 {
		t.Errorf("FindAt(0, true) = %d, want 0", i)
	}
}

func TestInterpolateLinear(t *testing.T) {
	times := []float64{0, 1, 2}
	col := floatColumn("y", 0, 10, 30)
	p := NewPreLookup(times)

	tests := []struct {
		name  string
		query float64
		want  float64
	}{
		{"exact sample", 1, 10},
		{"midpoint", 0.5, 5},
		{"second segment", 1.5, 20},
		{"clamp before", -1, 0},
		{"clamp after", 5, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := p.Find(tt.query)
			if got := Interpolate(col, times, i, tt.query); got != tt.want {
				t.Errorf("Interpolate at %g = %g, want %g", tt.query, got, tt.want)
			}
		})
	}
}

func TestInterpolateDegenerateInterval(t *testing.T) {
	// zero-width bracket must hold, not divide by zero
	times := []float64{0, 1, 1, 2}
	col := floatColumn("y", 0, 10, 20, 40)

	if got := Interpolate(col, times, 1, 1); got != 10 {
		t.Errorf("left duplicate = %g, want 10", got)
	}
	if got := Interpolate(col, times, 3, 2); got != 40 {
		t.Errorf("last index = %g, want 40", got)
	}
}

func TestHoldClamp(t *testing.T) {
	col := floatColumn("d", 5, 6)
	if got := Hold(col, -1); got.Float != 5 {
		t.Errorf("Hold(-1) = %g, want 5", got.Float)
	}
	if got := Hold(col, 1); got.Float != 6 {
		t.Errorf("Hold(1) = %g, want 6", got.Float)
	}
}

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"time,h,count,on",
		"0.0,1.0,0,false",
		"1.0,0.5,2,true",
		"1.0,0.5,3,true",
		"2.0,0.25,3,false",
	}, "\n")

	tbl, err := ReadCSV(strings.NewReader(in), map[string]fmi.Kind{
		"count": fmi.KindInt32,
		"on":    fmi.KindBoolean,
	})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("rows = %d, want 4", tbl.Len())
	}

	h, ok := tbl.Column("h")
	if !ok || h.Kind != fmi.KindFloat64 {
		t.Fatalf("h column missing or wrong kind")
	}
	count, _ := tbl.Column("count")
	if count.Kind != fmi.KindInt32 || count.Value(2).Int != 3 {
		t.Errorf("count column = %v", count.Value(2))
	}
	on, _ := tbl.Column("on")
	if on.Kind != fmi.KindBoolean || on.Value(1).Bool != true {
		t.Errorf("on column = %v", on.Value(1))
	}
}

func TestReadCSVRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing time column", "h\n1.0\n"},
		{"decreasing time", "time,h\n1.0,1\n0.5,2\n"},
		{"bad cell", "time,h\n0.0,abc\n"},
		{"empty table", "time,h\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in), nil); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
