package models

import "github.com/jondo2010/fmusim/internal/fmi"

// Variable references of the Van der Pol model.
const (
	vdpX0 fmi.ValueRef = iota + 1
	vdpX1
	vdpMu
	vdpU
)

// VanDerPol is the forced Van der Pol oscillator:
//
//	x0' = x1
//	x1' = mu*(1-x0^2)*x1 - x0 + u
//
// It has no events; the external input u drives the forcing term.
func VanDerPol() Definition {
	return Definition{
		Model: fmi.Model{
			Name: "vanderpol",
			Variables: []fmi.Variable{
				{Name: "x0", Ref: vdpX0, Kind: fmi.KindFloat64, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityContinuous},
				{Name: "x1", Ref: vdpX1, Kind: fmi.KindFloat64, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityContinuous},
				{Name: "mu", Ref: vdpMu, Kind: fmi.KindFloat64, Causality: fmi.CausalityParameter, Variability: fmi.VariabilityFixed},
				{Name: "u", Ref: vdpU, Kind: fmi.KindFloat64, Causality: fmi.CausalityInput, Variability: fmi.VariabilityContinuous},
			},
			NumStates: 2,
		},
		InitialStates: []float64{2, 0},
		Start: map[fmi.ValueRef]fmi.Value{
			vdpMu: fmi.Float64Value(1),
		},
		Derivatives: func(t float64, x, dx []float64, vars *fmi.VarStore) {
			mu, _ := vars.GetFloat64(vdpMu)
			u, _ := vars.GetFloat64(vdpU)
			dx[0] = x[1]
			dx[1] = mu*(1-x[0]*x[0])*x[1] - x[0] + u
		},
		Outputs: func(t float64, x []float64, vars *fmi.VarStore) {
			vars.Store(vdpX0, fmi.Float64Value(x[0]))
			vars.Store(vdpX1, fmi.Float64Value(x[1]))
		},
		InternalStep: 1e-3,
	}
}
