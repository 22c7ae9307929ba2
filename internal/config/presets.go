package config

var Presets = map[string]map[string]*Config{
	"bouncingball": {
		"default": {
			Model: "bouncingball", Mode: "co-simulation", Integrator: "euler",
			StopTime: 3, Interval: 0.01, EventMode: true,
		},
		"rubber": {
			Model: "bouncingball", Mode: "co-simulation", Integrator: "euler",
			StopTime: 5, Interval: 0.01, EventMode: true,
			StartValues: map[string]any{"e": 0.9},
		},
		"exchange": {
			Model: "bouncingball", Mode: "model-exchange", Integrator: "rk4",
			StopTime: 3, Interval: 0.005, EventMode: true,
		},
	},
	"vanderpol": {
		"relaxed": {
			Model: "vanderpol", Mode: "co-simulation", Integrator: "euler",
			StopTime: 20, Interval: 0.01,
		},
		"stiff": {
			Model: "vanderpol", Mode: "model-exchange", Integrator: "rk4",
			StopTime: 20, Interval: 0.001, Tolerance: 1e-6,
			StartValues: map[string]any{"mu": 5.0},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
