package driver

import "fmt"

const (
	// StopTimeSnapRatio is the fraction of the step size within which the
	// next integration point snaps exactly onto the stop time, so the final
	// step never undershoots by a rounding error.
	StopTimeSnapRatio = 1e-9

	// MaxEventIterations bounds the discrete-state fixed-point loop; a
	// component still requesting updates past this is a protocol error.
	MaxEventIterations = 100
)

// Params is the immutable run configuration. Validate once at construction;
// frozen for the run.
type Params struct {
	StartTime float64
	StopTime  float64
	// OutputInterval spaces the regular communication points (co-simulation)
	// and sets the integration step (model exchange).
	OutputInterval float64
	// Tolerance is passed to the component at initialization; zero means
	// unset.
	Tolerance float64
	// EventModeUsed enables event handling during co-simulation.
	EventModeUsed bool
	// EarlyReturnAllowed permits DoStep to stop before the requested point.
	EarlyReturnAllowed bool
}

// Validate checks the time bounds. Violations are configuration errors,
// raised before the run ever starts.
func (p Params) Validate() error {
	if p.StopTime <= p.StartTime {
		return fmt.Errorf("%w: stop time %g must be after start time %g",
			ErrInvalidParams, p.StopTime, p.StartTime)
	}
	if p.OutputInterval <= 0 {
		return fmt.Errorf("%w: output interval must be positive, got %g",
			ErrInvalidParams, p.OutputInterval)
	}
	if p.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative, got %g",
			ErrInvalidParams, p.Tolerance)
	}
	return nil
}
