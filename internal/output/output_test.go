package output

import (
	"testing"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/fmi/fmitest"
)

var testModel = fmi.Model{
	Name: "plant",
	Variables: []fmi.Variable{
		{Name: "u", Ref: 1, Kind: fmi.KindFloat64, Causality: fmi.CausalityInput, Variability: fmi.VariabilityContinuous},
		{Name: "h", Ref: 2, Kind: fmi.KindFloat64, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityContinuous},
		{Name: "bounces", Ref: 3, Kind: fmi.KindInt32, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityDiscrete},
	},
}

func TestRecordAndFinish(t *testing.T) {
	inst := fmitest.New(testModel)
	s := New(testModel)

	inst.SetFloat64(2, 1.5)
	inst.SetInt32(3, 0)
	if err := s.Record(0, inst); err != nil {
		t.Fatalf("Record: %v", err)
	}

	inst.SetFloat64(2, 0.75)
	inst.SetInt32(3, 1)
	if err := s.Record(0.5, inst); err != nil {
		t.Fatalf("Record: %v", err)
	}

	res, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if len(res.Times) != 2 || res.Times[0] != 0 || res.Times[1] != 0.5 {
		t.Errorf("times = %v", res.Times)
	}
	if len(res.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(res.Columns))
	}
	// declaration order
	if res.Columns[0].Name != "h" || res.Columns[1].Name != "bounces" {
		t.Errorf("column order = %q, %q", res.Columns[0].Name, res.Columns[1].Name)
	}

	h, _ := res.Column("h")
	if got := h.Floats(); got[0] != 1.5 || got[1] != 0.75 {
		t.Errorf("h = %v", got)
	}
	b, _ := res.Column("bounces")
	if b.Values[1].Int != 1 {
		t.Errorf("bounces[1] = %v", b.Values[1])
	}
}

func TestRecordAbortsAtomically(t *testing.T) {
	inst := fmitest.New(testModel)
	inst.FailOp = "GetInt32" // second recorder's getter
	s := New(testModel)

	if err := s.Record(0, inst); err == nil {
		t.Fatal("expected getter failure to surface")
	}
	if s.Rows() != 0 {
		t.Errorf("rows = %d after failed record, want 0 (no misaligned buffers)", s.Rows())
	}
}

func TestFinishTwice(t *testing.T) {
	s := New(testModel)
	if _, err := s.Finish(); err != nil {
		t.Fatalf("first Finish: %v", err)
	}
	if _, err := s.Finish(); err == nil {
		t.Error("second Finish must fail")
	}
	if err := s.Record(0, fmitest.New(testModel)); err == nil {
		t.Error("Record after Finish must fail")
	}
}
