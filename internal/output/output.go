// Package output records declared output variables during a run: one typed
// append-only buffer per variable, one row per sampling instant, frozen into
// an immutable column-oriented result when the run ends.
package output

import (
	"fmt"

	"github.com/jondo2010/fmusim/internal/fmi"
)

// Recorder buffers the recorded values of one output variable.
type Recorder struct {
	Variable fmi.Variable
	values   []fmi.Value
}

// State owns the recorders for a run's declared outputs.
type State struct {
	times     []float64
	recorders []*Recorder
	finished  bool
}

// New builds one recorder per declared output, in declaration order.
func New(model fmi.Model) *State {
	s := &State{}
	for _, v := range model.Outputs() {
		s.recorders = append(s.recorders, &Recorder{Variable: v})
	}
	return s
}

// Record appends one row at time t: every recorder pulls exactly one scalar
// of its declared kind through the matching typed getter. A getter failure
// aborts the whole call before anything is appended, so the buffers never
// drift out of step with the time column.
func (s *State) Record(t float64, inst fmi.Instance) error {
	if s.finished {
		return fmt.Errorf("output: record after finish")
	}

	row := make([]fmi.Value, len(s.recorders))
	for i, r := range s.recorders {
		v, st := fmi.GetValue(inst, r.Variable.Ref, r.Variable.Kind)
		if st.Bad() {
			return fmt.Errorf("output: get %q at t=%g: status %v", r.Variable.Name, t, st)
		}
		row[i] = v
	}

	s.times = append(s.times, t)
	for i, r := range s.recorders {
		r.values = append(r.values, row[i])
	}
	return nil
}

// Rows returns the number of recorded instants so far.
func (s *State) Rows() int { return len(s.times) }

// Last returns the most recently recorded row, for live observers.
func (s *State) Last() (float64, []fmi.Value) {
	n := len(s.times)
	if n == 0 {
		return 0, nil
	}
	row := make([]fmi.Value, len(s.recorders))
	for i, r := range s.recorders {
		row[i] = r.values[n-1]
	}
	return s.times[n-1], row
}

// Finish freezes the buffers into an immutable result. Callable once, after
// the run ends or aborts.
func (s *State) Finish() (*Result, error) {
	if s.finished {
		return nil, fmt.Errorf("output: finish called twice")
	}
	s.finished = true

	res := &Result{Times: s.times}
	for _, r := range s.recorders {
		res.Columns = append(res.Columns, ResultColumn{
			Name:   r.Variable.Name,
			Kind:   r.Variable.Kind,
			Values: r.values,
		})
	}
	return res, nil
}

// ResultColumn is one frozen output column.
type ResultColumn struct {
	Name   string
	Kind   fmi.Kind
	Values []fmi.Value
}

// Result is the column-oriented run output: the time column plus one column
// per declared output in declaration order, one row per recorded instant.
type Result struct {
	Times   []float64
	Columns []ResultColumn
}

// Column finds a result column by name.
func (r *Result) Column(name string) (ResultColumn, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ResultColumn{}, false
}

// Floats returns a result column as float64 samples. Numeric columns only.
func (c ResultColumn) Floats() []float64 {
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.AsFloat64()
	}
	return out
}
