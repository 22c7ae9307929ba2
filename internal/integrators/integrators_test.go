package integrators

import (
	"math"
	"testing"
)

// dx/dt = -x, x(0) = 1, exact solution e^-t.
func decay(t float64, x, dx []float64) error {
	dx[0] = -x[0]
	return nil
}

func integrate(t *testing.T, m Method, dt float64, steps int) float64 {
	t.Helper()
	x := []float64{1.0}
	dx := make([]float64, 1)
	out := make([]float64, 1)
	tcur := 0.0
	for i := 0; i < steps; i++ {
		if err := decay(tcur, x, dx); err != nil {
			t.Fatal(err)
		}
		if err := m.Step(decay, tcur, x, dx, dt, out); err != nil {
			t.Fatal(err)
		}
		copy(x, out)
		tcur += dt
	}
	return x[0]
}

func TestEulerDecay(t *testing.T) {
	got := integrate(t, NewEuler(), 0.001, 1000)
	want := math.Exp(-1)
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("euler x(1) = %v, want ~%v", got, want)
	}
}

func TestRK4Decay(t *testing.T) {
	got := integrate(t, NewRK4(), 0.1, 10)
	want := math.Exp(-1)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("rk4 x(1) = %v, want ~%v", got, want)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"euler", "euler", false},
		{"", "euler", false},
		{"rk4", "rk4", false},
		{"verlet", "", true},
	}

	for _, tt := range tests {
		m, err := New(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q): %v", tt.name, err)
			continue
		}
		if m.Name() != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, m.Name(), tt.want)
		}
	}
}
