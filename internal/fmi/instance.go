package fmi

// DiscreteUpdate is the outcome of one discrete-state update iteration.
type DiscreteUpdate struct {
	// NeedUpdate requests another iteration before discrete states settle.
	NeedUpdate bool
	// Terminate is the component asking for the run to stop.
	Terminate bool
	// NominalsChanged and ValuesChanged flag continuous-state changes made
	// during the update.
	NominalsChanged bool
	ValuesChanged   bool
	// NextEventTime is the component's suggested next time event, valid only
	// when NextEventTimeDefined is set.
	NextEventTimeDefined bool
	NextEventTime        float64
}

// StepResult is the outcome of one co-simulation DoStep call.
type StepResult struct {
	// EventNeeded means the component wants event mode entered at the point
	// it reached.
	EventNeeded bool
	// Terminate is the component asking for the run to stop.
	Terminate bool
	// EarlyReturn means the step stopped before currentTime+stepSize;
	// LastSuccessfulTime is where it actually got to.
	EarlyReturn        bool
	LastSuccessfulTime float64
}

// Instance is the handle the orchestration drivers operate on. One driver
// owns one instance exclusively for a run; calls are blocking and issued one
// at a time. Every operation returns a Status; the instance enforces legal
// call ordering at its own boundary.
type Instance interface {
	// Model returns the variable declarations and dimensions.
	Model() Model

	EnterInitializationMode(tolerance *float64, startTime float64, stopTime *float64) Status
	ExitInitializationMode() Status
	EnterEventMode() Status
	EnterStepMode() Status
	EnterContinuousTimeMode() Status
	UpdateDiscreteStates() (DiscreteUpdate, Status)

	// DoStep advances the component's own integration from currentTime by
	// stepSize (co-simulation only).
	DoStep(currentTime, stepSize float64, noSetPrior bool) (StepResult, Status)

	// Model-exchange surface: the driver integrates and pushes time/state.
	SetTime(t float64) Status
	GetContinuousStates(x []float64) Status
	SetContinuousStates(x []float64) Status
	GetDerivatives(dx []float64) Status
	GetEventIndicators(z []float64) Status
	CompletedIntegratorStep(noSetPrior bool) (enterEventMode, terminate bool, st Status)

	GetFloat32(ref ValueRef) (float32, Status)
	GetFloat64(ref ValueRef) (float64, Status)
	GetInt8(ref ValueRef) (int8, Status)
	GetUInt8(ref ValueRef) (uint8, Status)
	GetInt16(ref ValueRef) (int16, Status)
	GetUInt16(ref ValueRef) (uint16, Status)
	GetInt32(ref ValueRef) (int32, Status)
	GetUInt32(ref ValueRef) (uint32, Status)
	GetInt64(ref ValueRef) (int64, Status)
	GetUInt64(ref ValueRef) (uint64, Status)
	GetBoolean(ref ValueRef) (bool, Status)
	GetString(ref ValueRef) (string, Status)
	GetBinary(ref ValueRef) ([]byte, Status)

	SetFloat32(ref ValueRef, v float32) Status
	SetFloat64(ref ValueRef, v float64) Status
	SetInt8(ref ValueRef, v int8) Status
	SetUInt8(ref ValueRef, v uint8) Status
	SetInt16(ref ValueRef, v int16) Status
	SetUInt16(ref ValueRef, v uint16) Status
	SetInt32(ref ValueRef, v int32) Status
	SetUInt32(ref ValueRef, v uint32) Status
	SetInt64(ref ValueRef, v int64) Status
	SetUInt64(ref ValueRef, v uint64) Status
	SetBoolean(ref ValueRef, v bool) Status
	SetString(ref ValueRef, v string) Status
	SetBinary(ref ValueRef, v []byte) Status

	Terminate() Status
	Reset() Status
}

// SetValue writes one scalar through the single typed setter matching its
// kind. The switch is exhaustive over Kind.
func SetValue(inst Instance, ref ValueRef, v Value) Status {
	switch v.Kind {
	case KindFloat32:
		return inst.SetFloat32(ref, float32(v.Float))
	case KindFloat64:
		return inst.SetFloat64(ref, v.Float)
	case KindInt8:
		return inst.SetInt8(ref, int8(v.Int))
	case KindUInt8:
		return inst.SetUInt8(ref, uint8(v.Uint))
	case KindInt16:
		return inst.SetInt16(ref, int16(v.Int))
	case KindUInt16:
		return inst.SetUInt16(ref, uint16(v.Uint))
	case KindInt32:
		return inst.SetInt32(ref, int32(v.Int))
	case KindUInt32:
		return inst.SetUInt32(ref, uint32(v.Uint))
	case KindInt64:
		return inst.SetInt64(ref, v.Int)
	case KindUInt64:
		return inst.SetUInt64(ref, v.Uint)
	case KindBoolean:
		return inst.SetBoolean(ref, v.Bool)
	case KindString:
		return inst.SetString(ref, v.Str)
	case KindBinary:
		return inst.SetBinary(ref, v.Bytes)
	default:
		return Error
	}
}

// GetValue reads one scalar through the single typed getter matching kind.
func GetValue(inst Instance, ref ValueRef, kind Kind) (Value, Status) {
	switch kind {
	case KindFloat32:
		v, st := inst.GetFloat32(ref)
		return Float32Value(v), st
	case KindFloat64:
		v, st := inst.GetFloat64(ref)
		return Float64Value(v), st
	case KindInt8:
		v, st := inst.GetInt8(ref)
		return Int8Value(v), st
	case KindUInt8:
		v, st := inst.GetUInt8(ref)
		return UInt8Value(v), st
	case KindInt16:
		v, st := inst.GetInt16(ref)
		return Int16Value(v), st
	case KindUInt16:
		v, st := inst.GetUInt16(ref)
		return UInt16Value(v), st
	case KindInt32:
		v, st := inst.GetInt32(ref)
		return Int32Value(v), st
	case KindUInt32:
		v, st := inst.GetUInt32(ref)
		return UInt32Value(v), st
	case KindInt64:
		v, st := inst.GetInt64(ref)
		return Int64Value(v), st
	case KindUInt64:
		v, st := inst.GetUInt64(ref)
		return UInt64Value(v), st
	case KindBoolean:
		v, st := inst.GetBoolean(ref)
		return BoolValue(v), st
	case KindString:
		v, st := inst.GetString(ref)
		return StringValue(v), st
	case KindBinary:
		v, st := inst.GetBinary(ref)
		return BinaryValue(v), st
	default:
		return Value{}, Error
	}
}
