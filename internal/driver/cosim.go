package driver

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/input"
	"github.com/jondo2010/fmusim/internal/output"
)

// CoSim drives a component that steps itself. The driver owns the schedule:
// regular communication points on the output grid, pre-empted by
// input-driven discrete changes and component-suggested time events.
type CoSim struct {
	core
	eventMode bool
}

// NewCoSim validates the parameters and binds the driver to its instance.
func NewCoSim(inst fmi.Instance, params Params, in *input.State, out *output.State, log *logrus.Entry) (*CoSim, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &CoSim{core: newCore(inst, params, in, out, log)}
	d.eventMode = params.EventModeUsed && inst.Model().EventModeUsed
	return d, nil
}

// AddObserver registers an observer for recorded rows.
func (d *CoSim) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Stats returns the run statistics accumulated so far.
func (d *CoSim) Stats() Stats { return d.stats }

// Time returns the current simulated time.
func (d *CoSim) Time() float64 { return d.time }

// Initialize applies start values and inputs, runs the component's default
// initialization sequence unless resuming from restored state, settles the
// first event iteration when event mode is used, and enters step mode.
func (d *CoSim) Initialize(overrides map[string]fmi.Value, resumed bool) error {
	if err := d.enterInitialization(overrides, resumed); err != nil {
		return err
	}
	if !resumed && d.eventMode {
		info, err := d.eventIteration()
		if err != nil {
			return err
		}
		d.nextEventTime = info.nextEventTime
		if info.terminated {
			d.markTerminated()
			return nil
		}
		if err := d.check("EnterStepMode", d.inst.EnterStepMode()); err != nil {
			return err
		}
	}
	d.state = StepMode
	d.log.Debugf("initialized at t=%g", d.time)
	return nil
}

// Run executes the main loop: record, schedule the next communication
// point, step, advance, handle events. Returns nil on normal completion and
// on component-requested termination (reported via Stats).
func (d *CoSim) Run() error {
	if d.stats.Terminated {
		return nil
	}
	steps := 0
	for {
		if err := d.record(); err != nil {
			return err
		}
		if d.time >= d.params.StopTime {
			break
		}

		// inputs at the communication point; discrete values go through
		// event mode when the component uses it
		if err := d.in.Apply(d.time, d.inst, !d.eventMode, true, false); err != nil {
			return fmt.Errorf("%w: %v", ErrInstance, err)
		}

		// regular grid point, computed from the start to avoid accumulation
		regular := d.params.StartTime + float64(steps+1)*d.params.OutputInterval
		next := regular
		if next > d.params.StopTime {
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

		stepSize := next - d.time
		d.log.Debugf("do_step t=%g dt=%g", d.time, stepSize)
		res, st := d.inst.DoStep(d.time, stepSize, true)
		d.stats.Steps++
		if err := d.check("DoStep", st); err != nil {
			return err
		}
		if res.EarlyReturn && !d.params.EarlyReturnAllowed {
			return &Error{Op: "DoStep", Time: d.time, Wrapped: ErrEarlyReturn}
		}
		if res.Terminate {
			d.markTerminated()
			break
		}

		early := res.EarlyReturn && res.LastSuccessfulTime < next
		if early {
			d.time = res.LastSuccessfulTime
			inputEvent, timeEvent = false, false
		} else {
			d.time = next
			if next == regular {
				steps++
			}
		}

		if d.eventMode && (inputEvent || timeEvent || early || res.EventNeeded) {
			if inputEvent {
				d.stats.InputEvents++
			}
			if timeEvent {
				d.stats.TimeEvents++
			}
			if res.EventNeeded {
				d.stats.StepEvents++
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
// the discrete states, and returns to step mode.
func (d *CoSim) handleEvents(inputEvent bool) error {
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

	if err := d.check("EnterStepMode", d.inst.EnterStepMode()); err != nil {
		return err
	}
	d.state = StepMode
	return nil
}
