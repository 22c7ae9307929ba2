package fmi

// ValueRef is the opaque handle identifying one scalar variable for get/set.
type ValueRef uint32

// Causality partitions variables by data-flow direction.
type Causality int

const (
	CausalityInput Causality = iota
	CausalityOutput
	CausalityParameter
	CausalityLocal
)

func (c Causality) String() string {
	switch c {
	case CausalityInput:
		return "input"
	case CausalityOutput:
		return "output"
	case CausalityParameter:
		return "parameter"
	default:
		return "local"
	}
}

// Variability distinguishes continuously changing variables from ones that
// only change at events.
type Variability int

const (
	VariabilityContinuous Variability = iota
	VariabilityDiscrete
	VariabilityFixed
)

func (v Variability) String() string {
	switch v {
	case VariabilityContinuous:
		return "continuous"
	case VariabilityDiscrete:
		return "discrete"
	default:
		return "fixed"
	}
}

// Variable is the engine-facing projection of one declared model variable.
type Variable struct {
	Name        string
	Ref         ValueRef
	Kind        Kind
	Causality   Causality
	Variability Variability
}

// Model is the read-only slice of a model description the engine consumes:
// variable declarations plus the continuous-state and indicator dimensions.
type Model struct {
	Name          string
	Variables     []Variable
	NumStates     int
	NumIndicators int
	// EventModeUsed reports whether the component supports entering event
	// mode during co-simulation.
	EventModeUsed bool
}

// Inputs returns the declared input variables in declaration order.
func (m Model) Inputs() []Variable {
	return m.byCausality(CausalityInput)
}

// Outputs returns the declared output variables in declaration order.
func (m Model) Outputs() []Variable {
	return m.byCausality(CausalityOutput)
}

func (m Model) byCausality(c Causality) []Variable {
	var out []Variable
	for _, v := range m.Variables {
		if v.Causality == c {
			out = append(out, v)
		}
	}
	return out
}

// Lookup finds a variable by name.
func (m Model) Lookup(name string) (Variable, bool) {
	for _, v := range m.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
