package models

import "github.com/jondo2010/fmusim/internal/fmi"

// Variable references of the bouncing ball model.
const (
	ballH fmi.ValueRef = iota + 1
	ballV
	ballG
	ballE
	ballVMin
	ballParked
)

// BouncingBall is the classic hybrid benchmark: a ball under constant
// gravity with an impact event when the height crosses zero. Velocity
// reverses scaled by the restitution coefficient; once the rebound velocity
// drops under v_min the ball is parked to avoid Zeno chattering.
func BouncingBall() Definition {
	return Definition{
		Model: fmi.Model{
			Name: "bouncingball",
			Variables: []fmi.Variable{
				{Name: "h", Ref: ballH, Kind: fmi.KindFloat64, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityContinuous},
				{Name: "v", Ref: ballV, Kind: fmi.KindFloat64, Causality: fmi.CausalityOutput, Variability: fmi.VariabilityContinuous},
				{Name: "g", Ref: ballG, Kind: fmi.KindFloat64, Causality: fmi.CausalityParameter, Variability: fmi.VariabilityFixed},
				{Name: "e", Ref: ballE, Kind: fmi.KindFloat64, Causality: fmi.CausalityParameter, Variability: fmi.VariabilityFixed},
				{Name: "v_min", Ref: ballVMin, Kind: fmi.KindFloat64, Causality: fmi.CausalityParameter, Variability: fmi.VariabilityFixed},
				{Name: "parked", Ref: ballParked, Kind: fmi.KindBoolean, Causality: fmi.CausalityLocal, Variability: fmi.VariabilityDiscrete},
			},
			NumStates:     2,
			NumIndicators: 1,
			EventModeUsed: true,
		},
		InitialStates: []float64{1, 0},
		Start: map[fmi.ValueRef]fmi.Value{
			ballG:    fmi.Float64Value(-9.81),
			ballE:    fmi.Float64Value(0.7),
			ballVMin: fmi.Float64Value(0.1),
		},
		Derivatives: func(t float64, x, dx []float64, vars *fmi.VarStore) {
			if parked, _ := vars.GetBoolean(ballParked); parked {
				dx[0], dx[1] = 0, 0
				return
			}
			g, _ := vars.GetFloat64(ballG)
			dx[0] = x[1]
			dx[1] = g
		},
		Indicators: func(t float64, x, z []float64, vars *fmi.VarStore) {
			z[0] = x[0]
		},
		Update: func(t float64, x []float64, vars *fmi.VarStore) fmi.DiscreteUpdate {
			if x[0] > 0 || x[1] >= 0 {
				return fmi.DiscreteUpdate{}
			}
			e, _ := vars.GetFloat64(ballE)
			vMin, _ := vars.GetFloat64(ballVMin)
			x[0] = 0
			x[1] = -e * x[1]
			if x[1] < vMin {
				// rebound too small to matter: freeze instead of chattering
				x[1] = 0
				vars.Store(ballParked, fmi.BoolValue(true))
			}
			return fmi.DiscreteUpdate{ValuesChanged: true}
		},
		Outputs: func(t float64, x []float64, vars *fmi.VarStore) {
			vars.Store(ballH, fmi.Float64Value(x[0]))
			vars.Store(ballV, fmi.Float64Value(x[1]))
		},
		InternalStep: 1e-3,
	}
}
