package driver

import (
	"errors"
	"fmt"

	"github.com/jondo2010/fmusim/internal/fmi"
)

// Failure tiers: configuration errors surface before the run starts,
// protocol errors abort it mid-flight with operation and time context, and
// component-requested termination is not an error at all (see Stats).
var (
	// ErrInvalidParams indicates run parameters that fail validation.
	ErrInvalidParams = errors.New("driver: invalid run parameters")

	// ErrConfig indicates a configuration problem detected before stepping
	// (for example an input column that narrows into its variable).
	ErrConfig = errors.New("driver: configuration error")

	// ErrInstance indicates a non-recoverable status from an instance call.
	ErrInstance = errors.New("driver: instance call failed")

	// ErrDiscarded indicates the instance discarded an operation. No retry
	// or step-size backoff is attempted; callers wanting a policy can branch
	// on this sentinel.
	ErrDiscarded = errors.New("driver: instance discarded operation")

	// ErrEarlyReturn indicates DoStep returned early while the run
	// configuration disallows it: the parameters, not the component, are
	// inconsistent.
	ErrEarlyReturn = errors.New("driver: early return while disallowed by configuration")

	// ErrEventIterations indicates the discrete-state update loop exceeded
	// MaxEventIterations without settling.
	ErrEventIterations = errors.New("driver: event iteration did not converge")
)

// Error wraps a run failure with the operation that failed and the simulated
// time it failed at.
type Error struct {
	Op      string
	Time    float64
	Status  fmi.Status
	Wrapped error
}

func (e *Error) Error() string {
	if e.Status > fmi.OK {
		return fmt.Sprintf("%v: %s at t=%g (status %v)", e.Wrapped, e.Op, e.Time, e.Status)
	}
	return fmt.Sprintf("%v: %s at t=%g", e.Wrapped, e.Op, e.Time)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
