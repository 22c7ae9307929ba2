// Package integrators provides the explicit integration policies the
// model-exchange driver advances continuous states with. The formula is a
// replaceable policy behind [Method]; the driver supplies derivatives
// through a [System] callback that round-trips to the component.
package integrators

import "fmt"

// System evaluates the state derivative at (t, x), filling dx.
type System func(t float64, x, dx []float64) error

// Method advances a continuous-state vector by one explicit step.
type Method interface {
	Name() string
	// Step writes x(t+dt) into out. dx0 is the derivative already evaluated
	// at (t, x), so single-stage methods cost no extra evaluation.
	Step(f System, t float64, x, dx0 []float64, dt float64, out []float64) error
}

// New returns the named method.
func New(name string) (Method, error) {
	switch name {
	case "euler", "":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("integrators: unknown method %q", name)
	}
}

// Euler is the forward Euler step x += dx*dt.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f System, t float64, x, dx0 []float64, dt float64, out []float64) error {
	for i := range x {
		out[i] = x[i] + dt*dx0[i]
	}
	return nil
}

// RK4 is the classic fourth-order Runge-Kutta step. Stage evaluations
// re-query the system; scratch buffers are reused across steps.
type RK4 struct {
	k2, k3, k4 []float64
	scratch    []float64
}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.scratch = make([]float64, n)
	}
}

func (r *RK4) Step(f System, t float64, x, dx0 []float64, dt float64, out []float64) error {
	n := len(x)
	r.ensureScratch(n)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*dx0[i]
	}
	if err := f(t+dt*0.5, r.scratch, r.k2); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	if err := f(t+dt*0.5, r.scratch, r.k3); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	if err := f(t+dt, r.scratch, r.k4); err != nil {
		return err
	}

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt6*(dx0[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return nil
}
