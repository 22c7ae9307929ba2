package driver

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/input"
	"github.com/jondo2010/fmusim/internal/output"
)

// Lifecycle tracks where the driver is in the protocol state machine.
// Terminated is absorbing; the event/step (or event/continuous) cycle may
// repeat arbitrarily.
type Lifecycle int

const (
	Instantiated Lifecycle = iota
	Initialization
	EventMode
	StepMode
	ContinuousTimeMode
	Terminated
)

func (l Lifecycle) String() string {
	switch l {
	case Instantiated:
		return "instantiated"
	case Initialization:
		return "initialization"
	case EventMode:
		return "event-mode"
	case StepMode:
		return "step-mode"
	case ContinuousTimeMode:
		return "continuous-time-mode"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Observer is notified after every recorded row.
type Observer interface {
	OnRecord(t float64, values []fmi.Value)
}

// Stats summarizes what happened during a run.
type Stats struct {
	Steps           int
	StateEvents     int
	TimeEvents      int
	StepEvents      int
	InputEvents     int
	EventIterations int
	RowsRecorded    int
	// Terminated is set when the component itself requested the stop: a
	// successful, early, intentional end distinct from any error.
	Terminated   bool
	TerminatedAt float64
}

// core carries the state both driver variants share. All of it is explicit
// owned data threaded through the loop; nothing global.
type core struct {
	inst   fmi.Instance
	params Params
	in     *input.State
	out    *output.State

	time          float64
	state         Lifecycle
	nextEventTime float64
	stats         Stats
	observers     []Observer
	log           *logrus.Entry
}

func newCore(inst fmi.Instance, params Params, in *input.State, out *output.State, log *logrus.Entry) core {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return core{
		inst:          inst,
		params:        params,
		in:            in,
		out:           out,
		time:          params.StartTime,
		state:         Instantiated,
		nextEventTime: math.Inf(1),
		log:           log.WithField("model", inst.Model().Name),
	}
}

// check maps an instance status to the run's failure semantics: OK passes,
// Warning logs and passes, anything else aborts with operation and time
// context.
func (c *core) check(op string, st fmi.Status) error {
	switch st {
	case fmi.OK:
		return nil
	case fmi.Warning:
		c.log.Warnf("%s at t=%g returned warning", op, c.time)
		return nil
	case fmi.Discard:
		return &Error{Op: op, Time: c.time, Status: st, Wrapped: ErrDiscarded}
	default:
		return &Error{Op: op, Time: c.time, Status: st, Wrapped: ErrInstance}
	}
}

// record appends one output row at the current time and notifies observers.
func (c *core) record() error {
	if err := c.out.Record(c.time, c.inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInstance, err)
	}
	c.stats.RowsRecorded++
	if len(c.observers) > 0 {
		t, row := c.out.Last()
		for _, o := range c.observers {
			o.OnRecord(t, row)
		}
	}
	return nil
}

// applyOverrides writes explicit start-value overrides; they take precedence
// over both component defaults and table inputs.
func (c *core) applyOverrides(overrides map[string]fmi.Value) error {
	model := c.inst.Model()
	for name, val := range overrides {
		v, ok := model.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: start value for unknown variable %q", ErrConfig, name)
		}
		conv, ok := fmi.Convert(val, v.Kind)
		if !ok {
			return fmt.Errorf("%w: start value for %q: %v does not widen into %v",
				ErrConfig, name, val.Kind, v.Kind)
		}
		if err := c.check("Set"+v.Kind.String(), fmi.SetValue(c.inst, v.Ref, conv)); err != nil {
			return err
		}
	}
	return nil
}

// eventInfo accumulates the outcome of one event-iteration sequence.
type eventInfo struct {
	valuesChanged   bool
	nominalsChanged bool
	nextEventTime   float64
	terminated      bool
}

// eventIteration runs the discrete-state fixed-point loop until the
// component reports stable, aborting on component-requested termination and
// bounding runaway iteration.
func (c *core) eventIteration() (eventInfo, error) {
	info := eventInfo{nextEventTime: math.Inf(1)}
	for i := 0; ; i++ {
		if i >= MaxEventIterations {
			return info, &Error{Op: "UpdateDiscreteStates", Time: c.time, Wrapped: ErrEventIterations}
		}
		c.stats.EventIterations++

		upd, st := c.inst.UpdateDiscreteStates()
		if err := c.check("UpdateDiscreteStates", st); err != nil {
			return info, err
		}
		info.valuesChanged = info.valuesChanged || upd.ValuesChanged
		info.nominalsChanged = info.nominalsChanged || upd.NominalsChanged
		if upd.NextEventTimeDefined && upd.NextEventTime < info.nextEventTime {
			info.nextEventTime = upd.NextEventTime
		}
		if upd.Terminate {
			info.terminated = true
			return info, nil
		}
		if !upd.NeedUpdate {
			return info, nil
		}
	}
}

func (c *core) markTerminated() {
	c.stats.Terminated = true
	c.stats.TerminatedAt = c.time
	c.log.Infof("component requested termination at t=%g", c.time)
}

// terminate issues the final Terminate call. Idempotent; Terminated is
// absorbing.
func (c *core) terminate() error {
	if c.state == Terminated {
		return nil
	}
	st := c.inst.Terminate()
	c.state = Terminated
	return c.check("Terminate", st)
}

// enterInitialization runs the shared front half of initialization: explicit
// start-value overrides first (highest precedence), then table inputs at the
// start time, then the component's initialization mode unless the run
// resumes from restored state.
func (c *core) enterInitialization(overrides map[string]fmi.Value, resumed bool) error {
	if err := c.applyOverrides(overrides); err != nil {
		return err
	}
	if err := c.in.Apply(c.time, c.inst, true, true, false); err != nil {
		return fmt.Errorf("%w: %v", ErrInstance, err)
	}
	if resumed {
		c.log.Debug("resuming from restored state, skipping default initialization")
		return nil
	}

	c.state = Initialization
	var tol *float64
	if c.params.Tolerance > 0 {
		tol = &c.params.Tolerance
	}
	stop := c.params.StopTime
	if err := c.check("EnterInitializationMode",
		c.inst.EnterInitializationMode(tol, c.params.StartTime, &stop)); err != nil {
		return err
	}
	return c.check("ExitInitializationMode", c.inst.ExitInitializationMode())
}
