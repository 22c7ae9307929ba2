package driver

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/input"
	"github.com/jondo2010/fmusim/internal/integrators"
	"github.com/jondo2010/fmusim/internal/output"
)

// ModelEx drives a component that only exposes derivatives: the driver
// integrates the continuous states itself, pushes time and states into the
// instance, and watches the event indicators for sign changes between
// accepted steps.
type ModelEx struct {
	core
	method integrators.Method

	x, xNext []float64
	dx       []float64
	z, zPrev []float64
}

// NewModelEx validates the parameters and sizes the state and indicator
// buffers from the model's declared dimensions.
func NewModelEx(inst fmi.Instance, params Params, in *input.State, out *output.State, method integrators.Method, log *logrus.Entry) (*ModelEx, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if method == nil {
		method = integrators.NewEuler()
	}
	model := inst.Model()
	d := &ModelEx{
		core:   newCore(inst, params, in, out, log),
		method: method,
		x:      make([]float64, model.NumStates),
		xNext:  make([]float64, model.NumStates),
		dx:     make([]float64, model.NumStates),
		z:      make([]float64, model.NumIndicators),
		zPrev:  make([]float64, model.NumIndicators),
	}
	return d, nil
}

// AddObserver registers an observer for recorded rows.
func (d *ModelEx) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Stats returns the run statistics accumulated so far.
func (d *ModelEx) Stats() Stats { return d.stats }

// Time returns the current simulated time.
func (d *ModelEx) Time() float64 { return d.time }

// system evaluates derivatives at a trial point by pushing time and states
// into the instance. Trial evaluations during multi-stage steps go through
// here too; the accepted point is re-pushed after the step.
func (d *ModelEx) system(t float64, x, dx []float64) error {
	if err := d.check("SetTime", d.inst.SetTime(t)); err != nil {
		return err
	}
	if err := d.check("SetContinuousStates", d.inst.SetContinuousStates(x)); err != nil {
		return err
	}
	return d.check("GetDerivatives", d.inst.GetDerivatives(dx))
}

// refresh pulls the instance's continuous states and event indicators into
// the driver's buffers, re-baselining zero-crossing detection.
func (d *ModelEx) refresh() error {
	if err := d.check("GetContinuousStates", d.inst.GetContinuousStates(d.x)); err != nil {
		return err
	}
	if err := d.check("GetEventIndicators", d.inst.GetEventIndicators(d.z)); err != nil {
		return err
	}
	return nil
}

// Initialize applies start values and inputs, runs default initialization
// unless resuming, settles the initial event iteration, and enters
// continuous-time mode with fresh state and indicator baselines.
func (d *ModelEx) Initialize(overrides map[string]fmi.Value, resumed bool) error {
	if err := d.enterInitialization(overrides, resumed); err != nil {
		return err
	}
	if !resumed {
		info, err := d.eventIteration()
		if err != nil {
			return err
		}
		d.nextEventTime = info.nextEventTime
		if info.terminated {
			d.markTerminated()
			return nil
		}
	}
	if err := d.check("EnterContinuousTimeMode", d.inst.EnterContinuousTimeMode()); err != nil {
		return err
	}
	d.state = ContinuousTimeMode
	if err := d.refresh(); err != nil {
		return err
	}
	d.log.Debugf("initialized at t=%g, %d states, %d indicators", d.time, len(d.x), len(d.z))
	return nil
}

// Run executes the integration loop: record, pick the next point, advance
// one explicit step, detect events, handle them. Returns nil on normal
// completion and on component-requested termination (reported via Stats).
func (d *ModelEx) Run() error {
	if d.stats.Terminated {
		return nil
	}
	h := d.params.OutputInterval
	for {
		if err := d.record(); err != nil {
			return err
		}
		if d.time >= d.params.StopTime {
			break
		}

		if err := d.in.Apply(d.time, d.inst, false, true, false); err != nil {
			return fmt.Errorf("%w: %v", ErrInstance, err)
		}
		if err := d.system(d.time, d.x, d.dx); err != nil {
			return err
		}

		next := d.time + h
		// snap onto the stop time instead of undershooting by rounding error
		if next+h*StopTimeSnapRatio >= d.params.StopTime {
			next = d.params.StopTime
		}
		inEv := d.in.NextEvent(d.time)
		if inEv < next {
			next = inEv
		}
		if d.nextEventTime < next {
			next = d.nextEventTime
		}
		inputEvent := inEv == next && !math.IsInf(inEv, 1)
		timeEvent := d.nextEventTime == next && !math.IsInf(d.nextEventTime, 1)

		dt := next - d.time
		if err := d.method.Step(d.system, d.time, d.x, d.dx, dt, d.xNext); err != nil {
			return err
		}
		copy(d.x, d.xNext)
		if err := d.check("SetTime", d.inst.SetTime(next)); err != nil {
			return err
		}
		if err := d.check("SetContinuousStates", d.inst.SetContinuousStates(d.x)); err != nil {
			return err
		}
		d.time = next
		d.stats.Steps++

		copy(d.zPrev, d.z)
		if err := d.check("GetEventIndicators", d.inst.GetEventIndicators(d.z)); err != nil {
			return err
		}
		stateEvent := false
		for i := range d.z {
			// strict sign change only; touching zero does not trigger
			if d.z[i]*d.zPrev[i] < 0 {
				stateEvent = true
				break
			}
		}

		stepEvent, terminate, st := d.inst.CompletedIntegratorStep(true)
		if err := d.check("CompletedIntegratorStep", st); err != nil {
			return err
		}
		if terminate {
			d.markTerminated()
			break
		}

		if stateEvent || stepEvent || inputEvent || timeEvent {
			if stateEvent {
				d.stats.StateEvents++
			}
			if stepEvent {
				d.stats.StepEvents++
			}
			if inputEvent {
				d.stats.InputEvents++
			}
			if timeEvent {
				d.stats.TimeEvents++
			}
			if err := d.handleEvents(inputEvent); err != nil {
				return err
			}
			if d.stats.Terminated {
				break
			}
		}
	}
	return nil
}

// handleEvents records the left-limit row at the event instant, enters event
// mode, applies freshly held input values for input-driven events, converges
// the discrete states, and re-enters continuous-time mode with re-baselined
// states and indicators.
func (d *ModelEx) handleEvents(inputEvent bool) error {
	if err := d.record(); err != nil {
		return err
	}
	if err := d.check("EnterEventMode", d.inst.EnterEventMode()); err != nil {
		return err
	}
	d.state = EventMode
	d.log.Debugf("event at t=%g (input=%v)", d.time, inputEvent)

	if inputEvent {
		if err := d.in.Apply(d.time, d.inst, true, false, false); err != nil {
			return fmt.Errorf("%w: %v", ErrInstance, err)
		}
	}

	info, err := d.eventIteration()
	if err != nil {
		return err
	}
	d.nextEventTime = info.nextEventTime
	if info.terminated {
		d.markTerminated()
		return nil
	}

	if err := d.check("EnterContinuousTimeMode", d.inst.EnterContinuousTimeMode()); err != nil {
		return err
	}
	d.state = ContinuousTimeMode
	// discrete updates may have moved the continuous states; always
	// re-baseline indicators so the handled crossing cannot re-trigger
	return d.refresh()
}
