// Package models provides in-process component instances: small hybrid
// systems written directly against the engine's instance interface, used by
// the CLI and as realistic end-to-end fixtures. A model is described
// declaratively as a [Definition]; [New] wraps it into a full instance that
// supports both co-simulation and model exchange.
package models

import (
	"fmt"

	"github.com/jondo2010/fmusim/internal/fmi"
)

// Definition describes one in-process hybrid model as pure functions over
// the variable bank and the continuous-state vector.
type Definition struct {
	Model         fmi.Model
	InitialStates []float64
	// Start seeds parameter and input defaults before initialization.
	Start map[fmi.ValueRef]fmi.Value

	// Derivatives fills dx at (t, x); parameters and inputs are read from
	// the variable bank.
	Derivatives func(t float64, x, dx []float64, vars *fmi.VarStore)
	// Indicators fills the event indicator vector at (t, x). Nil means the
	// model has no state events.
	Indicators func(t float64, x, z []float64, vars *fmi.VarStore)
	// Update performs one discrete-state update at an event instant and may
	// modify x in place. Nil means discrete updates are no-ops.
	Update func(t float64, x []float64, vars *fmi.VarStore) fmi.DiscreteUpdate
	// Outputs projects (t, x) onto the declared output variables.
	Outputs func(t float64, x []float64, vars *fmi.VarStore)

	// InternalStep caps the self-integration substep during co-simulation;
	// zero means one substep per communication interval.
	InternalStep float64
}

// Instance adapts a Definition to the full instance surface. The typed
// get/set half comes from the embedded variable bank.
type Instance struct {
	*fmi.VarStore
	def Definition

	time     float64
	x        []float64
	dx       []float64
	z, zPrev []float64
}

// New builds a fresh instance of the definition with start values applied.
func New(def Definition) *Instance {
	m := &Instance{
		VarStore: fmi.NewVarStore(def.Model.Variables),
		def:      def,
		x:        make([]float64, def.Model.NumStates),
		dx:       make([]float64, def.Model.NumStates),
		z:        make([]float64, def.Model.NumIndicators),
		zPrev:    make([]float64, def.Model.NumIndicators),
	}
	m.reset()
	return m
}

// Lookup builds a registered model by name.
func Lookup(name string) (*Instance, error) {
	switch name {
	case "bouncingball":
		return New(BouncingBall()), nil
	case "vanderpol":
		return New(VanDerPol()), nil
	default:
		return nil, fmt.Errorf("models: unknown model %q (have bouncingball, vanderpol)", name)
	}
}

// Names lists the registered model names.
func Names() []string { return []string{"bouncingball", "vanderpol"} }

func (m *Instance) reset() {
	m.VarStore = fmi.NewVarStore(m.def.Model.Variables)
	m.time = 0
	copy(m.x, m.def.InitialStates)
	for ref, v := range m.def.Start {
		m.Store(ref, v)
	}
	m.sync()
}

// sync refreshes the declared outputs from the current time and states.
func (m *Instance) sync() {
	if m.def.Outputs != nil {
		m.def.Outputs(m.time, m.x, m.VarStore)
	}
}

func (m *Instance) indicators(z []float64) {
	if m.def.Indicators != nil {
		m.def.Indicators(m.time, m.x, z, m.VarStore)
		return
	}
	for i := range z {
		z[i] = 1
	}
}

func (m *Instance) Model() fmi.Model { return m.def.Model }

func (m *Instance) EnterInitializationMode(tol *float64, start float64, stop *float64) fmi.Status {
	m.time = start
	m.sync()
	return fmi.OK
}

func (m *Instance) ExitInitializationMode() fmi.Status  { return fmi.OK }
func (m *Instance) EnterEventMode() fmi.Status          { return fmi.OK }
func (m *Instance) EnterStepMode() fmi.Status           { return fmi.OK }
func (m *Instance) EnterContinuousTimeMode() fmi.Status { return fmi.OK }

func (m *Instance) UpdateDiscreteStates() (fmi.DiscreteUpdate, fmi.Status) {
	if m.def.Update == nil {
		return fmi.DiscreteUpdate{}, fmi.OK
	}
	upd := m.def.Update(m.time, m.x, m.VarStore)
	m.sync()
	return upd, fmi.OK
}

// DoStep self-integrates with forward Euler substeps. A state event inside
// the interval is reported at the end point when the model supports event
// mode, and folded in directly otherwise.
func (m *Instance) DoStep(t, dt float64, noSetPrior bool) (fmi.StepResult, fmi.Status) {
	m.time = t
	h := m.def.InternalStep
	if h <= 0 || h > dt {
		h = dt
	}
	end := t + dt
	crossed := false

	m.indicators(m.zPrev)
	for m.time < end {
		step := h
		if m.time+step > end {
			step = end - m.time
		}
		m.def.Derivatives(m.time, m.x, m.dx, m.VarStore)
		for i := range m.x {
			m.x[i] += step * m.dx[i]
		}
		m.time += step

		m.indicators(m.z)
		for i := range m.z {
			if m.z[i]*m.zPrev[i] < 0 {
				crossed = true
			}
		}
		copy(m.zPrev, m.z)

		if crossed && !m.def.Model.EventModeUsed && m.def.Update != nil {
			m.def.Update(m.time, m.x, m.VarStore)
			m.indicators(m.zPrev)
			crossed = false
		}
	}
	m.sync()

	return fmi.StepResult{
		EventNeeded:        crossed,
		LastSuccessfulTime: end,
	}, fmi.OK
}

func (m *Instance) SetTime(t float64) fmi.Status {
	m.time = t
	m.sync()
	return fmi.OK
}

func (m *Instance) GetContinuousStates(x []float64) fmi.Status {
	copy(x, m.x)
	return fmi.OK
}

func (m *Instance) SetContinuousStates(x []float64) fmi.Status {
	copy(m.x, x)
	m.sync()
	return fmi.OK
}

func (m *Instance) GetDerivatives(dx []float64) fmi.Status {
	m.def.Derivatives(m.time, m.x, dx, m.VarStore)
	return fmi.OK
}

func (m *Instance) GetEventIndicators(z []float64) fmi.Status {
	m.indicators(z)
	return fmi.OK
}

func (m *Instance) CompletedIntegratorStep(noSetPrior bool) (bool, bool, fmi.Status) {
	return false, false, fmi.OK
}

func (m *Instance) Terminate() fmi.Status { return fmi.OK }

func (m *Instance) Reset() fmi.Status {
	m.reset()
	return fmi.OK
}

var _ fmi.Instance = (*Instance)(nil)
