package driver

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/fmi/fmitest"
	"github.com/jondo2010/fmusim/internal/input"
	"github.com/jondo2010/fmusim/internal/series"
)

func newTestModel(eventMode bool) fmi.Model {
	return fmi.Model{
		Name: "plant",
		Variables: []fmi.Variable{
			{Name: "u", Ref: 1, Kind: fmi.KindFloat64, Causality: fmi.CausalityInput, Variability: fmi.VariabilityContinuous},
			{Name: "gear", Ref: 2, Kind: fmi.KindInt32, Causality: fmi.CausalityInput, Variability: fmi.VariabilityDiscrete},
			{Name: "y", Ref: 3, Kind: fmi.KindFloat64, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityContinuous},
		},
		NumStates:     1,
		NumIndicators: 1,
		EventModeUsed: eventMode,
	}
}

func loadTable(t *testing.T, csv string, kinds map[string]fmi.Kind) *series.Table {
	t.Helper()
	tbl, err := series.ReadCSV(strings.NewReader(csv), kinds)
	require.NoError(t, err)
	return tbl
}

func unitParams() Params {
	return Params{StartTime: 0, StopTime: 1, OutputInterval: 0.25}
}

func mustInput(t *testing.T, inst fmi.Instance, tbl *series.Table) *input.State {
	t.Helper()
	in, err := input.New(inst.Model(), tbl)
	require.NoError(t, err)
	return in
}

func TestCoSimRegularGrid(t *testing.T) {
	inst := fmitest.New(newTestModel(false))
	inst.Store(3, fmi.Float64Value(7))

	res, stats, err := Simulate(inst, unitParams(), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, res.Times)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, inst.StepSizes)
	assert.Equal(t, 4, stats.Steps)
	assert.Equal(t, 5, stats.RowsRecorded)
	assert.Equal(t, 1, inst.TerminateCalls)
	assert.False(t, stats.Terminated)

	y, ok := res.Column("y")
	require.True(t, ok)
	assert.Equal(t, []float64{7, 7, 7, 7, 7}, y.Floats())
}

func TestCoSimDegenerateInterval(t *testing.T) {
	inst := fmitest.New(newTestModel(false))

	res, _, err := Simulate(inst, Params{StopTime: 0.1, OutputInterval: 0.25}, nil, Options{})
	require.NoError(t, err)

	// stop before the first grid point still yields the two boundary rows
	assert.Equal(t, []float64{0, 0.1}, res.Times)
	assert.Equal(t, []float64{0.1}, inst.StepSizes)
}

func TestCoSimContinuousInput(t *testing.T) {
	tbl := loadTable(t, "time,u\n0,0\n1,10\n", nil)
	inst := fmitest.New(newTestModel(false))

	_, _, err := Simulate(inst, unitParams(), tbl, Options{})
	require.NoError(t, err)

	// the last communication point with a step after it is t=0.75
	v, ok := inst.Load(1)
	require.True(t, ok)
	assert.Equal(t, 7.5, v.Float)
}

func TestCoSimInputPreemption(t *testing.T) {
	tbl := loadTable(t, "time,gear\n0,1\n0.37,2\n", map[string]fmi.Kind{"gear": fmi.KindInt32})
	inst := fmitest.New(newTestModel(false))

	res, _, err := Simulate(inst, unitParams(), tbl, Options{})
	require.NoError(t, err)

	// without event mode the grid is still pre-empted, but there is only a
	// single row at the change
	assert.Equal(t, []float64{0, 0.25, 0.37, 0.5, 0.75, 1}, res.Times)

	v, ok := inst.Load(2)
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int)
}

func TestCoSimInputEvent(t *testing.T) {
	tbl := loadTable(t, "time,gear\n0,1\n0.37,2\n", map[string]fmi.Kind{"gear": fmi.KindInt32})
	inst := fmitest.New(newTestModel(true))

	res, stats, err := Simulate(inst, Params{StopTime: 1, OutputInterval: 0.25, EventModeUsed: true}, tbl, Options{})
	require.NoError(t, err)

	// event handling records the left limit and the settled value
	assert.Equal(t, []float64{0, 0.25, 0.37, 0.37, 0.5, 0.75, 1}, res.Times)
	assert.Equal(t, 1, stats.InputEvents)
	assert.Equal(t, 1, inst.CallCount("EnterEventMode"))

	v, ok := inst.Load(2)
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int)
}

func TestCoSimTimeEvent(t *testing.T) {
	inst := fmitest.New(newTestModel(true))
	n := 0
	inst.UpdateFunc = func(call int) (fmi.DiscreteUpdate, fmi.Status) {
		n++
		if n == 1 {
			return fmi.DiscreteUpdate{NextEventTimeDefined: true, NextEventTime: 0.3}, fmi.OK
		}
		return fmi.DiscreteUpdate{}, fmi.OK
	}

	res, stats, err := Simulate(inst, Params{StopTime: 1, OutputInterval: 0.25, EventModeUsed: true}, nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.25, 0.3, 0.3, 0.5, 0.75, 1}, res.Times)
	assert.Equal(t, 1, stats.TimeEvents)
}

func TestCoSimStepEvent(t *testing.T) {
	inst := fmitest.New(newTestModel(true))
	inst.DoStepFunc = func(call int, dt1, dt2 float64) (fmi.StepResult, fmi.Status) {
		res := fmi.StepResult{LastSuccessfulTime: dt1 + dt2}
		if call == 1 {
			res.EventNeeded = true
		}
		return res, fmi.OK
	}

	res, stats, err := Simulate(inst, Params{StopTime: 1, OutputInterval: 0.25, EventModeUsed: true}, nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.5, 0.75, 1}, res.Times)
	assert.Equal(t, 1, stats.StepEvents)
}

func TestCoSimTerminateRequest(t *testing.T) {
	inst := fmitest.New(newTestModel(false))
	inst.DoStepFunc = func(call int, tt, dt float64) (fmi.StepResult, fmi.Status) {
		return fmi.StepResult{Terminate: true}, fmi.OK
	}

	res, stats, err := Simulate(inst, unitParams(), nil, Options{})
	require.NoError(t, err)

	// termination is a successful outcome: only the initial row exists and
	// the final Terminate call still happens
	assert.Equal(t, []float64{0}, res.Times)
	assert.True(t, stats.Terminated)
	assert.Equal(t, 0.0, stats.TerminatedAt)
	assert.Equal(t, 1, inst.TerminateCalls)
}

func TestCoSimEarlyReturnDisallowed(t *testing.T) {
	inst := fmitest.New(newTestModel(false))
	inst.DoStepFunc = func(call int, tt, dt float64) (fmi.StepResult, fmi.Status) {
		return fmi.StepResult{EarlyReturn: true, LastSuccessfulTime: tt + dt/2}, fmi.OK
	}

	_, _, err := Simulate(inst, unitParams(), nil, Options{})
	require.ErrorIs(t, err, ErrEarlyReturn)
}

func TestCoSimEarlyReturnResume(t *testing.T) {
	inst := fmitest.New(newTestModel(true))
	inst.DoStepFunc = func(call int, tt, dt float64) (fmi.StepResult, fmi.Status) {
		if call == 0 {
			return fmi.StepResult{EarlyReturn: true, LastSuccessfulTime: 0.1}, fmi.OK
		}
		return fmi.StepResult{LastSuccessfulTime: tt + dt}, fmi.OK
	}

	res, stats, err := Simulate(inst, Params{
		StopTime:           1,
		OutputInterval:     0.25,
		EventModeUsed:      true,
		EarlyReturnAllowed: true,
	}, nil, Options{})
	require.NoError(t, err)

	// resumes from the point actually reached and handles events there
	assert.Equal(t, []float64{0, 0.1, 0.1, 0.25, 0.5, 0.75, 1}, res.Times)
	assert.Equal(t, 5, stats.Steps)
}

func TestCoSimDiscard(t *testing.T) {
	inst := fmitest.New(newTestModel(false))
	inst.FailOp = "DoStep"
	inst.FailStatus = fmi.Discard

	res, _, err := Simulate(inst, unitParams(), nil, Options{})
	require.ErrorIs(t, err, ErrDiscarded)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "DoStep", de.Op)
	assert.Equal(t, 0.0, de.Time)

	// rows recorded before the failure survive
	require.NotNil(t, res)
	assert.Equal(t, []float64{0}, res.Times)
}

func TestCoSimInstanceFailure(t *testing.T) {
	inst := fmitest.New(newTestModel(false))
	inst.FailOp = "EnterInitializationMode"

	_, _, err := Simulate(inst, unitParams(), nil, Options{})
	require.ErrorIs(t, err, ErrInstance)
}

func TestSimulateOverrides(t *testing.T) {
	inst := fmitest.New(newTestModel(false))

	res, _, err := Simulate(inst, unitParams(), nil, Options{
		Overrides: map[string]fmi.Value{"y": fmi.Int16Value(3)},
	})
	require.NoError(t, err)

	y, ok := res.Column("y")
	require.True(t, ok)
	assert.Equal(t, 3.0, y.Floats()[0])
}

func TestSimulateOverrideErrors(t *testing.T) {
	inst := fmitest.New(newTestModel(false))

	_, _, err := Simulate(inst, unitParams(), nil, Options{
		Overrides: map[string]fmi.Value{"nope": fmi.Float64Value(1)},
	})
	require.ErrorIs(t, err, ErrConfig)

	inst = fmitest.New(newTestModel(false))
	_, _, err = Simulate(inst, unitParams(), nil, Options{
		Overrides: map[string]fmi.Value{"gear": fmi.Int64Value(1)},
	})
	require.ErrorIs(t, err, ErrConfig)
}

func TestSimulateNarrowingInputIsConfigError(t *testing.T) {
	tbl := loadTable(t, "time,gear\n0,1\n1,2\n", map[string]fmi.Kind{"gear": fmi.KindInt64})
	inst := fmitest.New(newTestModel(false))

	_, _, err := Simulate(inst, unitParams(), tbl, Options{})
	require.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, 0, inst.CallCount("EnterInitializationMode"))
}

type captureObserver struct {
	times []float64
}

func (c *captureObserver) OnRecord(t float64, values []fmi.Value) {
	c.times = append(c.times, t)
}

func TestSimulateObserver(t *testing.T) {
	inst := fmitest.New(newTestModel(false))
	obs := &captureObserver{}

	res, _, err := Simulate(inst, unitParams(), nil, Options{Observers: []Observer{obs}})
	require.NoError(t, err)
	assert.Equal(t, res.Times, obs.times)
}

func TestEventIterationConverges(t *testing.T) {
	inst := fmitest.New(newTestModel(true))
	inst.UpdateFunc = func(call int) (fmi.DiscreteUpdate, fmi.Status) {
		return fmi.DiscreteUpdate{NeedUpdate: call < 2}, fmi.OK
	}

	c := newCore(inst, unitParams(), mustInput(t, inst, nil), nil, nil)
	info, err := c.eventIteration()
	require.NoError(t, err)
	assert.False(t, info.terminated)
	assert.Equal(t, 3, c.stats.EventIterations)
	assert.True(t, math.IsInf(info.nextEventTime, 1))
}

func TestEventIterationBounded(t *testing.T) {
	inst := fmitest.New(newTestModel(true))
	inst.UpdateFunc = func(call int) (fmi.DiscreteUpdate, fmi.Status) {
		return fmi.DiscreteUpdate{NeedUpdate: true}, fmi.OK
	}

	c := newCore(inst, unitParams(), mustInput(t, inst, nil), nil, nil)
	_, err := c.eventIteration()
	require.ErrorIs(t, err, ErrEventIterations)
	assert.Equal(t, MaxEventIterations, c.stats.EventIterations)
}
