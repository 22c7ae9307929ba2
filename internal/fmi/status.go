package fmi

// Status is returned by every Instance operation.
type Status int

const (
	// OK means the call completed successfully.
	OK Status = iota
	// Warning means the call completed but the component flagged a concern.
	Warning
	// Discard means the component rejected the requested operation.
	Discard
	// Error means the call failed; the instance may still be usable.
	Error
	// Fatal means the instance is unusable from here on.
	Fatal
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Warning:
		return "warning"
	case Discard:
		return "discard"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Bad reports whether the status aborts a run. OK and Warning do not.
func (s Status) Bad() bool {
	return s >= Discard
}
