// Package input projects an externally supplied time-series table onto a
// component's declared input variables and applies it during a run:
// continuous inputs are interpolated, discrete inputs are held, and
// input-driven discrete changes surface as event times the driver schedules
// around.
package input

import (
	"fmt"
	"math"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/series"
)

// Binding pairs one declared input variable with the table column feeding it.
type Binding struct {
	Variable fmi.Variable
	Column   *series.Column
}

// State owns the input table for a run. Built once before the run starts;
// read-only afterwards.
type State struct {
	table      *series.Table
	lookup     *series.PreLookup
	continuous []Binding
	discrete   []Binding
}

// New binds the model's declared inputs against an optional table. Table
// columns without a matching declared input are ignored; declared inputs
// without a column stay unbound. A column whose kind does not widen into its
// variable's kind is a configuration error, raised here and never mid-run.
func New(model fmi.Model, table *series.Table) (*State, error) {
	s := &State{table: table}
	if table == nil {
		return s, nil
	}
	s.lookup = series.NewPreLookup(table.Times())

	for _, v := range model.Inputs() {
		col, ok := table.Column(v.Name)
		if !ok {
			continue
		}
		if !fmi.Widens(col.Kind, v.Kind) {
			return nil, fmt.Errorf("input: variable %q: column kind %v does not widen into %v",
				v.Name, col.Kind, v.Kind)
		}
		b := Binding{Variable: v, Column: col}
		if v.Variability == fmi.VariabilityContinuous && v.Kind.Float() {
			s.continuous = append(s.continuous, b)
		} else {
			s.discrete = append(s.discrete, b)
		}
	}
	return s, nil
}

// Bound reports whether any input variable is fed by the table.
func (s *State) Bound() bool {
	return len(s.continuous) > 0 || len(s.discrete) > 0
}

// Apply writes input values for time t to the instance. The discrete and
// continuous flags select which partitions to apply. afterEvent picks the
// pre-jump sample when t lands exactly on a duplicated timestamp.
func (s *State) Apply(t float64, inst fmi.Instance, discrete, continuous, afterEvent bool) error {
	if s.table == nil {
		return nil
	}
	i := s.lookup.FindAt(t, afterEvent)
	times := s.table.Times()

	if continuous {
		for _, b := range s.continuous {
			val := series.Interpolate(b.Column, times, i, t)
			var st fmi.Status
			switch b.Variable.Kind {
			case fmi.KindFloat32:
				st = inst.SetFloat32(b.Variable.Ref, float32(val))
			case fmi.KindFloat64:
				st = inst.SetFloat64(b.Variable.Ref, val)
			}
			if st.Bad() {
				return fmt.Errorf("input: set %q at t=%g: status %v", b.Variable.Name, t, st)
			}
		}
	}

	if discrete {
		for _, b := range s.discrete {
			raw := series.Hold(b.Column, i)
			val, ok := fmi.Convert(raw, b.Variable.Kind)
			if !ok {
				return fmt.Errorf("input: variable %q: cannot widen %v into %v",
					b.Variable.Name, raw.Kind, b.Variable.Kind)
			}
			if st := fmi.SetValue(inst, b.Variable.Ref, val); st.Bad() {
				return fmt.Errorf("input: set %q at t=%g: status %v", b.Variable.Name, t, st)
			}
		}
	}
	return nil
}

// NextEvent scans forward from t for the next input-driven discrete change:
// the earliest row boundary where two adjacent timestamps coincide (an
// instantaneous jump) or any discrete-input column changes value. Returns
// +Inf when none remain.
func (s *State) NextEvent(t float64) float64 {
	if s.table == nil {
		return math.Inf(1)
	}
	times := s.table.Times()
	for i := 0; i+1 < len(times); i++ {
		at := times[i+1]
		if at <= t {
			continue
		}
		if times[i] == at {
			return at
		}
		for _, b := range s.discrete {
			if !b.Column.Value(i).Equal(b.Column.Value(i + 1)) {
				return at
			}
		}
	}
	return math.Inf(1)
}
