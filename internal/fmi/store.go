package fmi

// VarStore is an embeddable in-memory variable bank. It implements the typed
// get/set half of Instance with kind checking against the declared
// variables, so in-process components only write the lifecycle half.
type VarStore struct {
	kinds  map[ValueRef]Kind
	values map[ValueRef]Value
}

// NewVarStore declares the given variables and seeds them with zero values.
func NewVarStore(vars []Variable) *VarStore {
	s := &VarStore{
		kinds:  make(map[ValueRef]Kind, len(vars)),
		values: make(map[ValueRef]Value, len(vars)),
	}
	for _, v := range vars {
		s.kinds[v.Ref] = v.Kind
		s.values[v.Ref] = Value{Kind: v.Kind}
	}
	return s
}

// Store writes a value directly, bypassing kind dispatch. Used by component
// internals to refresh derived outputs.
func (s *VarStore) Store(ref ValueRef, v Value) {
	s.values[ref] = v
}

// Load reads the current value of a variable.
func (s *VarStore) Load(ref ValueRef) (Value, bool) {
	v, ok := s.values[ref]
	return v, ok
}

func (s *VarStore) get(ref ValueRef, k Kind) (Value, Status) {
	want, ok := s.kinds[ref]
	if !ok || want != k {
		return Value{}, Error
	}
	return s.values[ref], OK
}

func (s *VarStore) set(ref ValueRef, v Value) Status {
	want, ok := s.kinds[ref]
	if !ok || want != v.Kind {
		return Error
	}
	s.values[ref] = v
	return OK
}

func (s *VarStore) GetFloat32(ref ValueRef) (float32, Status) {
	v, st := s.get(ref, KindFloat32)
	return float32(v.Float), st
}

func (s *VarStore) GetFloat64(ref ValueRef) (float64, Status) {
	v, st := s.get(ref, KindFloat64)
	return v.Float, st
}

func (s *VarStore) GetInt8(ref ValueRef) (int8, Status) {
	v, st := s.get(ref, KindInt8)
	return int8(v.Int), st
}

func (s *VarStore) GetUInt8(ref ValueRef) (uint8, Status) {
	v, st := s.get(ref, KindUInt8)
	return uint8(v.Uint), st
}

func (s *VarStore) GetInt16(ref ValueRef) (int16, Status) {
	v, st := s.get(ref, KindInt16)
	return int16(v.Int), st
}

func (s *VarStore) GetUInt16(ref ValueRef) (uint16, Status) {
	v, st := s.get(ref, KindUInt16)
	return uint16(v.Uint), st
}

func (s *VarStore) GetInt32(ref ValueRef) (int32, Status) {
	v, st := s.get(ref, KindInt32)
	return int32(v.Int), st
}

func (s *VarStore) GetUInt32(ref ValueRef) (uint32, Status) {
	v, st := s.get(ref, KindUInt32)
	return uint32(v.Uint), st
}

func (s *VarStore) GetInt64(ref ValueRef) (int64, Status) {
	v, st := s.get(ref, KindInt64)
	return v.Int, st
}

func (s *VarStore) GetUInt64(ref ValueRef) (uint64, Status) {
	v, st := s.get(ref, KindUInt64)
	return v.Uint, st
}

func (s *VarStore) GetBoolean(ref ValueRef) (bool, Status) {
	v, st := s.get(ref, KindBoolean)
	return v.Bool, st
}

func (s *VarStore) GetString(ref ValueRef) (string, Status) {
	v, st := s.get(ref, KindString)
	return v.Str, st
}

func (s *VarStore) GetBinary(ref ValueRef) ([]byte, Status) {
	v, st := s.get(ref, KindBinary)
	return v.Bytes, st
}

func (s *VarStore) SetFloat32(ref ValueRef, v float32) Status {
	return s.set(ref, Float32Value(v))
}

func (s *VarStore) SetFloat64(ref ValueRef, v float64) Status {
	return s.set(ref, Float64Value(v))
}

func (s *VarStore) SetInt8(ref ValueRef, v int8) Status {
	return s.set(ref, Int8Value(v))
}

func (s *VarStore) SetUInt8(ref ValueRef, v uint8) Status {
	return s.set(ref, UInt8Value(v))
}

func (s *VarStore) SetInt16(ref ValueRef, v int16) Status {
	return s.set(ref, Int16Value(v))
}

func (s *VarStore) SetUInt16(ref ValueRef, v uint16) Status {
	return s.set(ref, UInt16Value(v))
}

func (s *VarStore) SetInt32(ref ValueRef, v int32) Status {
	return s.set(ref, Int32Value(v))
}

func (s *VarStore) SetUInt32(ref ValueRef, v uint32) Status {
	return s.set(ref, UInt32Value(v))
}

func (s *VarStore) SetInt64(ref ValueRef, v int64) Status {
	return s.set(ref, Int64Value(v))
}

func (s *VarStore) SetUInt64(ref ValueRef, v uint64) Status {
	return s.set(ref, UInt64Value(v))
}

func (s *VarStore) SetBoolean(ref ValueRef, v bool) Status {
	return s.set(ref, BoolValue(v))
}

func (s *VarStore) SetString(ref ValueRef, v string) Status {
	return s.set(ref, StringValue(v))
}

func (s *VarStore) SetBinary(ref ValueRef, v []byte) Status {
	return s.set(ref, BinaryValue(v))
}
