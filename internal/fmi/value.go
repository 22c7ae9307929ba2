package fmi

import (
	"bytes"
	"fmt"
	"strconv"
)

// Value carries one scalar of any Kind. Numeric payloads live in Float,
// Int or Uint depending on the kind; only the field matching the kind is
// meaningful.
type Value struct {
	Kind  Kind
	Float float64
	Int   int64
	Uint  uint64
	Bool  bool
	Str   string
	Bytes []byte
}

func Float32Value(v float32) Value { return Value{Kind: KindFloat32, Float: float64(v)} }
func Float64Value(v float64) Value { return Value{Kind: KindFloat64, Float: v} }
func Int8Value(v int8) Value       { return Value{Kind: KindInt8, Int: int64(v)} }
func UInt8Value(v uint8) Value     { return Value{Kind: KindUInt8, Uint: uint64(v)} }
func Int16Value(v int16) Value     { return Value{Kind: KindInt16, Int: int64(v)} }
func UInt16Value(v uint16) Value   { return Value{Kind: KindUInt16, Uint: uint64(v)} }
func Int32Value(v int32) Value     { return Value{Kind: KindInt32, Int: int64(v)} }
func UInt32Value(v uint32) Value   { return Value{Kind: KindUInt32, Uint: uint64(v)} }
func Int64Value(v int64) Value     { return Value{Kind: KindInt64, Int: v} }
func UInt64Value(v uint64) Value   { return Value{Kind: KindUInt64, Uint: v} }
func BoolValue(v bool) Value       { return Value{Kind: KindBoolean, Bool: v} }
func StringValue(v string) Value   { return Value{Kind: KindString, Str: v} }
func BinaryValue(v []byte) Value   { return Value{Kind: KindBinary, Bytes: v} }

// AsFloat64 converts a numeric value to float64. Boolean maps to 0/1.
// String and Binary panic; callers gate on Kind first.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case KindFloat32, KindFloat64:
		return v.Float
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return float64(v.Int)
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return float64(v.Uint)
	case KindBoolean:
		if v.Bool {
			return 1
		}
		return 0
	default:
		panic("fmi: AsFloat64 on " + v.Kind.String())
	}
}

// Convert widens v into kind `to`. The second return is false when the
// conversion would narrow; callers validate with Widens up front and treat
// false as a programming error.
func Convert(v Value, to Kind) (Value, bool) {
	if v.Kind == to {
		return v, true
	}
	if !Widens(v.Kind, to) {
		return Value{}, false
	}
	switch to {
	case KindFloat64:
		return Float64Value(v.AsFloat64()), true
	case KindFloat32:
		return Float32Value(float32(v.AsFloat64())), true
	case KindInt16, KindInt32, KindInt64:
		i := v.Int
		if !v.Kind.signed() {
			i = int64(v.Uint)
		}
		return Value{Kind: to, Int: i}, true
	case KindUInt16, KindUInt32, KindUInt64:
		return Value{Kind: to, Uint: v.Uint}, true
	default:
		return Value{}, false
	}
}

// Equal reports whether two values of the same kind hold the same payload.
// Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindFloat32, KindFloat64:
		return v.Float == o.Float
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.Int == o.Int
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return v.Uint == o.Uint
	case KindBoolean:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	case KindBinary:
		return bytes.Equal(v.Bytes, o.Bytes)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindFloat32, KindFloat64:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.Int, 10)
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.Uint, 10)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	case KindBinary:
		return fmt.Sprintf("%x", v.Bytes)
	default:
		return "<invalid>"
	}
}
