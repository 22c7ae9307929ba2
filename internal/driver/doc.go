// Package driver contains the orchestration state machines that advance a
// component instance through its lifecycle: initialization, the main
// stepping loop, event detection and handling, and termination.
//
// Two variants share one core:
//
//   - [CoSim]: the component performs its own internal stepping (DoStep);
//     the driver schedules communication points and reacts to events.
//   - [ModelEx]: the driver integrates the continuous states itself using a
//     pluggable [integrators.Method], detecting zero crossings in the event
//     indicators between evaluations.
//
// A driver owns exactly one instance exclusively for the run's lifetime and
// issues one blocking call at a time; recording only ever observes a fully
// settled state. [Simulate] wires input, output and driver together for the
// common case.
package driver
