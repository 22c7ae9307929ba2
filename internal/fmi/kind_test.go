package fmi

import "testing"

func TestWidens(t *testing.T) {
	tests := []struct {
		name string
		from Kind
		to   Kind
		want bool
	}{
		{"same float", KindFloat64, KindFloat64, true},
		{"float32 to float64", KindFloat32, KindFloat64, true},
		{"float64 to float32", KindFloat64, KindFloat32, false},
		{"int8 to int16", KindInt8, KindInt16, true},
		{"int16 to int8", KindInt16, KindInt8, false},
		{"int32 to int64", KindInt32, KindInt64, true},
		{"uint8 to uint32", KindUInt8, KindUInt32, true},
		{"uint8 to int16", KindUInt8, KindInt16, true},
		{"uint8 to int8", KindUInt8, KindInt8, false},
		{"int8 to uint16", KindInt8, KindUInt16, false},
		{"int32 to float64", KindInt32, KindFloat64, true},
		{"int64 to float64", KindInt64, KindFloat64, false},
		{"int16 to float32", KindInt16, KindFloat32, true},
		{"int32 to float32", KindInt32, KindFloat32, false},
		{"bool to bool", KindBoolean, KindBoolean, true},
		{"bool to int8", KindBoolean, KindInt8, false},
		{"string to binary", KindString, KindBinary, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Widens(tt.from, tt.to); got != tt.want {
				t.Errorf("Widens(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for k := KindFloat32; k <= KindBinary; k++ {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}
	if _, err := ParseKind("Complex128"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestValueEqual(t *testing.T) {
	if !Float64Value(1.5).Equal(Float64Value(1.5)) {
		t.Error("equal floats reported unequal")
	}
	if Float64Value(1.5).Equal(Float32Value(1.5)) {
		t.Error("different kinds reported equal")
	}
	if Int32Value(3).Equal(Int32Value(4)) {
		t.Error("different ints reported equal")
	}
	if !BinaryValue([]byte{1, 2}).Equal(BinaryValue([]byte{1, 2})) {
		t.Error("equal binary reported unequal")
	}
}

func TestVarStoreKindChecked(t *testing.T) {
	s := NewVarStore([]Variable{
		{Name: "h", Ref: 1, Kind: KindFloat64},
		{Name: "n", Ref: 2, Kind: KindInt32},
	})

	if st := s.SetFloat64(1, 2.5); st != OK {
		t.Fatalf("SetFloat64: %v", st)
	}
	v, st := s.GetFloat64(1)
	if st != OK || v != 2.5 {
		t.Errorf("GetFloat64 = %v, %v", v, st)
	}

	if st := s.SetInt64(2, 7); st != Error {
		t.Errorf("kind mismatch accepted: %v", st)
	}
	if _, st := s.GetFloat64(99); st != Error {
		t.Errorf("unknown ref accepted: %v", st)
	}
}
