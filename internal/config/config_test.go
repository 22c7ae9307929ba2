package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "bouncingball" {
		t.Errorf("expected model bouncingball, got %s", cfg.Model)
	}
	if cfg.Interval <= 0 {
		t.Error("output interval should be positive")
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	yaml := "model: vanderpol\nstop_time: 7\ninput:\n  file: u.csv\n  kinds:\n    gear: Int32\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "vanderpol" {
		t.Errorf("model = %s", cfg.Model)
	}
	if cfg.StopTime != 7 {
		t.Errorf("stop_time = %g", cfg.StopTime)
	}
	// fields absent from the file keep their defaults
	if cfg.Interval != DefaultInterval {
		t.Errorf("output_interval = %g, want default %g", cfg.Interval, DefaultInterval)
	}

	kinds, err := cfg.InputKinds()
	if err != nil {
		t.Fatalf("InputKinds: %v", err)
	}
	if kinds["gear"] != fmi.KindInt32 {
		t.Errorf("gear kind = %v", kinds["gear"])
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.StopTime = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.StopTime != 42 {
		t.Errorf("stop_time = %g after round trip", got.StopTime)
	}
}

func TestInputKindsRejectsUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Kinds = map[string]string{"u": "Quaternion"}
	if _, err := cfg.InputKinds(); err == nil {
		t.Error("unknown kind name must fail")
	}
}

func TestStartOverrides(t *testing.T) {
	model := models.BouncingBall().Model
	cfg := DefaultConfig()
	cfg.StartValues = map[string]any{"e": 0.9, "parked": true}

	vals, err := cfg.StartOverrides(model)
	if err != nil {
		t.Fatalf("StartOverrides: %v", err)
	}
	if vals["e"].Float != 0.9 {
		t.Errorf("e = %v", vals["e"])
	}
	if !vals["parked"].Bool {
		t.Errorf("parked = %v", vals["parked"])
	}
}

func TestStartOverridesErrors(t *testing.T) {
	model := models.BouncingBall().Model
	cfg := DefaultConfig()

	cfg.StartValues = map[string]any{"nope": 1.0}
	if _, err := cfg.StartOverrides(model); err == nil {
		t.Error("unknown variable must fail")
	}

	cfg.StartValues = map[string]any{"parked": 1.0}
	if _, err := cfg.StartOverrides(model); err == nil {
		t.Error("number into Boolean must fail")
	}
}

func TestCoerceIntegerRange(t *testing.T) {
	if _, err := coerce(fmi.KindInt8, 300); err == nil {
		t.Error("300 into Int8 must fail")
	}
	if _, err := coerce(fmi.KindUInt16, -1); err == nil {
		t.Error("-1 into UInt16 must fail")
	}
	v, err := coerce(fmi.KindInt32, 7)
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if v.Int != 7 || v.Kind != fmi.KindInt32 {
		t.Errorf("coerce(Int32, 7) = %v", v)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bouncingball", "rubber")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.StartValues["e"] != 0.9 {
		t.Errorf("e = %v", cfg.StartValues["e"])
	}

	if GetPreset("bouncingball", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("bouncingball")) == 0 {
		t.Error("expected presets for bouncingball")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}
