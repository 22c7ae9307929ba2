// Package config loads and saves run configurations. Values resolve in
// precedence order: command-line flags over config file over preset over
// defaults.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jondo2010/fmusim/internal/driver"
	"github.com/jondo2010/fmusim/internal/fmi"
)

const (
	DefaultStopTime = 3.0
	DefaultInterval = 0.01
)

type Config struct {
	Model       string         `yaml:"model"`
	Mode        string         `yaml:"mode"`
	Integrator  string         `yaml:"integrator"`
	StartTime   float64        `yaml:"start_time"`
	StopTime    float64        `yaml:"stop_time"`
	Interval    float64        `yaml:"output_interval"`
	Tolerance   float64        `yaml:"tolerance"`
	EventMode   bool           `yaml:"event_mode"`
	EarlyReturn bool           `yaml:"early_return"`
	Repeat      int            `yaml:"repeat"`
	Input       InputConfig    `yaml:"input"`
	StartValues map[string]any `yaml:"start_values"`
}

// InputConfig points at an external time-series CSV and optionally pins
// column kinds; unlisted columns default to Float64.
type InputConfig struct {
	File  string            `yaml:"file"`
	Kinds map[string]string `yaml:"kinds"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "bouncingball",
		Mode:       "co-simulation",
		Integrator: "euler",
		StopTime:   DefaultStopTime,
		Interval:   DefaultInterval,
		EventMode:  true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params translates the time and event settings into run parameters.
func (c *Config) Params() driver.Params {
	return driver.Params{
		StartTime:          c.StartTime,
		StopTime:           c.StopTime,
		OutputInterval:     c.Interval,
		Tolerance:          c.Tolerance,
		EventModeUsed:      c.EventMode,
		EarlyReturnAllowed: c.EarlyReturn,
	}
}

// InputKinds resolves the configured column kind names.
func (c *Config) InputKinds() (map[string]fmi.Kind, error) {
	if len(c.Input.Kinds) == 0 {
		return nil, nil
	}
	kinds := make(map[string]fmi.Kind, len(c.Input.Kinds))
	for col, name := range c.Input.Kinds {
		k, err := fmi.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("input column %q: %w", col, err)
		}
		kinds[col] = k
	}
	return kinds, nil
}

// StartOverrides converts the configured start values into typed values for
// the given model's variables.
func (c *Config) StartOverrides(model fmi.Model) (map[string]fmi.Value, error) {
	if len(c.StartValues) == 0 {
		return nil, nil
	}
	out := make(map[string]fmi.Value, len(c.StartValues))
	for name, raw := range c.StartValues {
		v, ok := model.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("start value for unknown variable %q", name)
		}
		val, err := coerce(v.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("start value for %q: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}

// coerce maps a decoded YAML scalar onto the variable's declared kind.
func coerce(kind fmi.Kind, raw any) (fmi.Value, error) {
	switch kind {
	case fmi.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return fmi.Value{}, fmt.Errorf("want bool, got %T", raw)
		}
		return fmi.BoolValue(b), nil
	case fmi.KindString:
		s, ok := raw.(string)
		if !ok {
			return fmi.Value{}, fmt.Errorf("want string, got %T", raw)
		}
		return fmi.StringValue(s), nil
	case fmi.KindBinary:
		return fmi.Value{}, fmt.Errorf("binary start values are not supported")
	}

	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return fmi.Value{}, fmt.Errorf("want number, got %T", raw)
	}
	if kind.Float() {
		if kind == fmi.KindFloat32 {
			return fmi.Float32Value(float32(f)), nil
		}
		return fmi.Float64Value(f), nil
	}

	i := int64(f)
	if float64(i) != f {
		return fmi.Value{}, fmt.Errorf("%g is not an integer", f)
	}
	switch kind {
	case fmi.KindInt8:
		if i < math.MinInt8 || i > math.MaxInt8 {
			break
		}
		return fmi.Int8Value(int8(i)), nil
	case fmi.KindInt16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			break
		}
		return fmi.Int16Value(int16(i)), nil
	case fmi.KindInt32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			break
		}
		return fmi.Int32Value(int32(i)), nil
	case fmi.KindInt64:
		return fmi.Int64Value(i), nil
	case fmi.KindUInt8:
		if i < 0 || i > math.MaxUint8 {
			break
		}
		return fmi.UInt8Value(uint8(i)), nil
	case fmi.KindUInt16:
		if i < 0 || i > math.MaxUint16 {
			break
		}
		return fmi.UInt16Value(uint16(i)), nil
	case fmi.KindUInt32:
		if i < 0 || i > math.MaxUint32 {
			break
		}
		return fmi.UInt32Value(uint32(i)), nil
	case fmi.KindUInt64:
		if i < 0 {
			break
		}
		return fmi.UInt64Value(uint64(i)), nil
	}
	return fmi.Value{}, fmt.Errorf("%d does not fit %v", i, kind)
}
