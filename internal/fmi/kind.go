package fmi

import "fmt"

// Kind identifies the scalar type of a variable. The set is closed: dispatch
// sites switch over it exhaustively rather than reflecting at runtime.
type Kind int

const (
	KindFloat32 Kind = iota
	KindFloat64
	KindInt8
	KindUInt8
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindBoolean
	KindString
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindInt8:
		return "Int8"
	case KindUInt8:
		return "UInt8"
	case KindInt16:
		return "Int16"
	case KindUInt16:
		return "UInt16"
	case KindInt32:
		return "Int32"
	case KindUInt32:
		return "UInt32"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindBoolean:
		return "Boolean"
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a type name from a configuration file to its Kind.
func ParseKind(s string) (Kind, error) {
	for k := KindFloat32; k <= KindBinary; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("fmi: unknown value kind %q", s)
}

// Float reports whether k is a floating-point kind.
func (k Kind) Float() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Numeric reports whether k is a numeric scalar kind.
func (k Kind) Numeric() bool {
	return k >= KindFloat32 && k <= KindUInt64
}

// intRank orders integer kinds by width; -1 for non-integers.
func (k Kind) intRank() int {
	switch k {
	case KindInt8, KindUInt8:
		return 8
	case KindInt16, KindUInt16:
		return 16
	case KindInt32, KindUInt32:
		return 32
	case KindInt64, KindUInt64:
		return 64
	default:
		return -1
	}
}

func (k Kind) signed() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

// Widens reports whether a value of kind `from` can be stored in a variable
// of kind `to` without loss. Same kind always widens; a float widens into a
// wider float; an integer widens into a wider integer of the same signedness,
// into a strictly wider signed integer, or into a float with enough mantissa
// bits to hold it exactly. Everything else is a narrowing.
func Widens(from, to Kind) bool {
	if from == to {
		return true
	}
	if from == KindFloat32 && to == KindFloat64 {
		return true
	}
	fr, tr := from.intRank(), to.intRank()
	if fr > 0 && tr > 0 {
		if from.signed() == to.signed() {
			return tr > fr
		}
		// unsigned fits in any strictly wider signed integer
		return !from.signed() && to.signed() && tr > fr
	}
	if fr > 0 && to == KindFloat64 {
		return fr <= 32
	}
	if fr > 0 && to == KindFloat32 {
		return fr <= 16
	}
	return false
}
