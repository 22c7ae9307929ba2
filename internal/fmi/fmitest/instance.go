// Package fmitest provides a scripted in-memory Instance. It is the primary
// vehicle for exercising the orchestration drivers: no dynamic library, just
// configurable hooks and a call log.
package fmitest

import (
	"github.com/jondo2010/fmusim/internal/fmi"
)

// Instance is a scripted fmi.Instance. Zero-value hooks give a component
// that accepts every call, never raises events, and integrates nothing.
type Instance struct {
	vars  *fmi.VarStore
	model fmi.Model

	// DoStepFunc overrides the default always-OK co-simulation step.
	DoStepFunc func(call int, t, dt float64) (fmi.StepResult, fmi.Status)
	// UpdateFunc overrides the discrete-state update; call counts from 0
	// within each event iteration sequence.
	UpdateFunc func(call int) (fmi.DiscreteUpdate, fmi.Status)
	// DerivativeFunc fills dx for the current time and state (model exchange).
	DerivativeFunc func(t float64, x, dx []float64)
	// IndicatorFunc fills the event indicators for the current time and state.
	IndicatorFunc func(t float64, x, z []float64)
	// CompletedFunc overrides CompletedIntegratorStep.
	CompletedFunc func(t float64) (enterEventMode, terminate bool, st fmi.Status)
	// FailOp makes the named operation return FailStatus.
	FailOp     string
	FailStatus fmi.Status

	// Observed activity.
	Calls          []string
	StepTimes      []float64
	StepSizes      []float64
	TerminateCalls int
	ResetCalls     int

	time    float64
	states  []float64
	doSteps int
	updates int
}

// New builds a scripted instance for the given model projection.
func New(model fmi.Model) *Instance {
	return &Instance{
		vars:   fmi.NewVarStore(model.Variables),
		model:  model,
		states: make([]float64, model.NumStates),
	}
}

// Store seeds a variable value directly, bypassing the call log.
func (m *Instance) Store(ref fmi.ValueRef, v fmi.Value) { m.vars.Store(ref, v) }

// Load reads a variable value directly, bypassing the call log.
func (m *Instance) Load(ref fmi.ValueRef) (fmi.Value, bool) { return m.vars.Load(ref) }

// Time returns the last time pushed via SetTime.
func (m *Instance) Time() float64 { return m.time }

// States returns the current continuous-state vector.
func (m *Instance) States() []float64 { return m.states }

// SeedStates sets the initial continuous-state vector.
func (m *Instance) SeedStates(x []float64) { copy(m.states, x) }

// CallCount returns how many times the named operation was issued.
func (m *Instance) CallCount(op string) int {
	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *Instance) record(op string) fmi.Status {
	m.Calls = append(m.Calls, op)
	if m.FailOp == op {
		st := m.FailStatus
		if st == fmi.OK {
			st = fmi.Error
		}
		return st
	}
	return fmi.OK
}

func (m *Instance) Model() fmi.Model { return m.model }

func (m *Instance) EnterInitializationMode(tol *float64, start float64, stop *float64) fmi.Status {
	m.time = start
	return m.record("EnterInitializationMode")
}

func (m *Instance) ExitInitializationMode() fmi.Status {
	return m.record("ExitInitializationMode")
}

func (m *Instance) EnterEventMode() fmi.Status {
	m.updates = 0
	return m.record("EnterEventMode")
}

func (m *Instance) EnterStepMode() fmi.Status { return m.record("EnterStepMode") }

func (m *Instance) EnterContinuousTimeMode() fmi.Status {
	return m.record("EnterContinuousTimeMode")
}

func (m *Instance) UpdateDiscreteStates() (fmi.DiscreteUpdate, fmi.Status) {
	if st := m.record("UpdateDiscreteStates"); st.Bad() {
		return fmi.DiscreteUpdate{}, st
	}
	call := m.updates
	m.updates++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(call)
	}
	return fmi.DiscreteUpdate{}, fmi.OK
}

func (m *Instance) DoStep(t, dt float64, noSetPrior bool) (fmi.StepResult, fmi.Status) {
	m.StepTimes = append(m.StepTimes, t)
	m.StepSizes = append(m.StepSizes, dt)
	if st := m.record("DoStep"); st.Bad() {
		return fmi.StepResult{}, st
	}
	call := m.doSteps
	m.doSteps++
	if m.DoStepFunc != nil {
		return m.DoStepFunc(call, t, dt)
	}
	m.time = t + dt
	return fmi.StepResult{LastSuccessfulTime: t + dt}, fmi.OK
}

func (m *Instance) SetTime(t float64) fmi.Status {
	m.time = t
	return m.record("SetTime")
}

func (m *Instance) GetContinuousStates(x []float64) fmi.Status {
	copy(x, m.states)
	return m.record("GetContinuousStates")
}

func (m *Instance) SetContinuousStates(x []float64) fmi.Status {
	copy(m.states, x)
	return m.record("SetContinuousStates")
}

func (m *Instance) GetDerivatives(dx []float64) fmi.Status {
	if m.DerivativeFunc != nil {
		m.DerivativeFunc(m.time, m.states, dx)
	} else {
		for i := range dx {
			dx[i] = 0
		}
	}
	return m.record("GetDerivatives")
}

func (m *Instance) GetEventIndicators(z []float64) fmi.Status {
	if m.IndicatorFunc != nil {
		m.IndicatorFunc(m.time, m.states, z)
	} else {
		for i := range z {
			z[i] = 1
		}
	}
	return m.record("GetEventIndicators")
}

func (m *Instance) CompletedIntegratorStep(noSetPrior bool) (bool, bool, fmi.Status) {
	if st := m.record("CompletedIntegratorStep"); st.Bad() {
		return false, false, st
	}
	if m.CompletedFunc != nil {
		return m.CompletedFunc(m.time)
	}
	return false, false, fmi.OK
}

func (m *Instance) Terminate() fmi.Status {
	m.TerminateCalls++
	return m.record("Terminate")
}

func (m *Instance) Reset() fmi.Status {
	m.ResetCalls++
	m.time = 0
	m.doSteps = 0
	m.updates = 0
	for i := range m.states {
		m.states[i] = 0
	}
	return m.record("Reset")
}

// Typed accessors delegate to the variable bank through the same scripted
// failure path as every other operation.

func (m *Instance) GetFloat32(ref fmi.ValueRef) (float32, fmi.Status) {
	if st := m.record("GetFloat32"); st.Bad() {
		return 0, st
	}
	return m.vars.GetFloat32(ref)
}

func (m *Instance) GetFloat64(ref fmi.ValueRef) (float64, fmi.Status) {
	if st := m.record("GetFloat64"); st.Bad() {
		return 0, st
	}
	return m.vars.GetFloat64(ref)
}

func (m *Instance) GetInt8(ref fmi.ValueRef) (int8, fmi.Status) {
	if st := m.record("GetInt8"); st.Bad() {
		return 0, st
	}
	return m.vars.GetInt8(ref)
}

func (m *Instance) GetUInt8(ref fmi.ValueRef) (uint8, fmi.Status) {
	if st := m.record("GetUInt8"); st.Bad() {
		return 0, st
	}
	return m.vars.GetUInt8(ref)
}

func (m *Instance) GetInt16(ref fmi.ValueRef) (int16, fmi.Status) {
	if st := m.record("GetInt16"); st.Bad() {
		return 0, st
	}
	return m.vars.GetInt16(ref)
}

func (m *Instance) GetUInt16(ref fmi.ValueRef) (uint16, fmi.Status) {
	if st := m.record("GetUInt16"); st.Bad() {
		return 0, st
	}
	return m.vars.GetUInt16(ref)
}

func (m *Instance) GetInt32(ref fmi.ValueRef) (int32, fmi.Status) {
	if st := m.record("GetInt32"); st.Bad() {
		return 0, st
	}
	return m.vars.GetInt32(ref)
}

func (m *Instance) GetUInt32(ref fmi.ValueRef) (uint32, fmi.Status) {
	if st := m.record("GetUInt32"); st.Bad() {
		return 0, st
	}
	return m.vars.GetUInt32(ref)
}

func (m *Instance) GetInt64(ref fmi.ValueRef) (int64, fmi.Status) {
	if st := m.record("GetInt64"); st.Bad() {
		return 0, st
	}
	return m.vars.GetInt64(ref)
}

func (m *Instance) GetUInt64(ref fmi.ValueRef) (uint64, fmi.Status) {
	if st := m.record("GetUInt64"); st.Bad() {
		return 0, st
	}
	return m.vars.GetUInt64(ref)
}

func (m *Instance) GetBoolean(ref fmi.ValueRef) (bool, fmi.Status) {
	if st := m.record("GetBoolean"); st.Bad() {
		return false, st
	}
	return m.vars.GetBoolean(ref)
}

func (m *Instance) GetString(ref fmi.ValueRef) (string, fmi.Status) {
	if st := m.record("GetString"); st.Bad() {
		return "", st
	}
	return m.vars.GetString(ref)
}

func (m *Instance) GetBinary(ref fmi.ValueRef) ([]byte, fmi.Status) {
	if st := m.record("GetBinary"); st.Bad() {
		return nil, st
	}
	return m.vars.GetBinary(ref)
}

func (m *Instance) SetFloat32(ref fmi.ValueRef, v float32) fmi.Status {
	if st := m.record("SetFloat32"); st.Bad() {
		return st
	}
	return m.vars.SetFloat32(ref, v)
}

func (m *Instance) SetFloat64(ref fmi.ValueRef, v float64) fmi.Status {
	if st := m.record("SetFloat64"); st.Bad() {
		return st
	}
	return m.vars.SetFloat64(ref, v)
}

func (m *Instance) SetInt8(ref fmi.ValueRef, v int8) fmi.Status {
	if st := m.record("SetInt8"); st.Bad() {
		return st
	}
	return m.vars.SetInt8(ref, v)
}

func (m *Instance) SetUInt8(ref fmi.ValueRef, v uint8) fmi.Status {
	if st := m.record("SetUInt8"); st.Bad() {
		return st
	}
	return m.vars.SetUInt8(ref, v)
}

func (m *Instance) SetInt16(ref fmi.ValueRef, v int16) fmi.Status {
	if st := m.record("SetInt16"); st.Bad() {
		return st
	}
	return m.vars.SetInt16(ref, v)
}

func (m *Instance) SetUInt16(ref fmi.ValueRef, v uint16) fmi.Status {
	if st := m.record("SetUInt16"); st.Bad() {
		return st
	}
	return m.vars.SetUInt16(ref, v)
}

func (m *Instance) SetInt32(ref fmi.ValueRef, v int32) fmi.Status {
	if st := m.record("SetInt32"); st.Bad() {
		return st
	}
	return m.vars.SetInt32(ref, v)
}

func (m *Instance) SetUInt32(ref fmi.ValueRef, v uint32) fmi.Status {
	if st := m.record("SetUInt32"); st.Bad() {
		return st
	}
	return m.vars.SetUInt32(ref, v)
}

func (m *Instance) SetInt64(ref fmi.ValueRef, v int64) fmi.Status {
	if st := m.record("SetInt64"); st.Bad() {
		return st
	}
	return m.vars.SetInt64(ref, v)
}

func (m *Instance) SetUInt64(ref fmi.ValueRef, v uint64) fmi.Status {
	if st := m.record("SetUInt64"); st.Bad() {
		return st
	}
	return m.vars.SetUInt64(ref, v)
}

func (m *Instance) SetBoolean(ref fmi.ValueRef, v bool) fmi.Status {
	if st := m.record("SetBoolean"); st.Bad() {
		return st
	}
	return m.vars.SetBoolean(ref, v)
}

func (m *Instance) SetString(ref fmi.ValueRef, v string) fmi.Status {
	if st := m.record("SetString"); st.Bad() {
		return st
	}
	return m.vars.SetString(ref, v)
}

func (m *Instance) SetBinary(ref fmi.ValueRef, v []byte) fmi.Status {
	if st := m.record("SetBinary"); st.Bad() {
		return st
	}
	return m.vars.SetBinary(ref, v)
}

var _ fmi.Instance = (*Instance)(nil)
