// Package fmi defines the narrow contract between the orchestration engine
// and a simulation component instance.
//
// The engine never touches a component directly: everything it needs is
// expressed through the [Instance] interface (lifecycle transitions, typed
// variable access, stepping and event queries) plus the read-only [Model]
// projection of the component's variable declarations:
//
//   - [Status]: result of every Instance call (OK through Fatal)
//   - [Kind]: closed enum over the scalar value kinds
//   - [Value]: tagged union carrying one scalar of any kind
//   - [Variable], [Model]: declared variables and their partitioning
//   - [Instance]: the component handle the drivers operate on
//
// Real components are FFI-bound handles loaded elsewhere; in-process
// implementations (test doubles, demo models) satisfy the same interface.
package fmi
