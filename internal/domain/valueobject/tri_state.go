package valueobject

// TriState represents the outcome of the FDC inquiry filter: the check can be
// confirmed passed, confirmed failed, or left undetermined when the filter
// had no configuration or no successful inquiry to work with.
type TriState int

const (
	TriStateUnknown TriState = iota
	TriStatePassed
	TriStateFailed
)

// Bool returns the nullable-bool form persisted on a decision:
// nil for unknown, true for passed, false for failed.
func (t TriState) Bool() *bool {
	switch t {
	case TriStatePassed:
		v := true
		return &v
	case TriStateFailed:
		v := false
		return &v
	default:
		return nil
	}
}

// TriStateFromBool converts a nullable bool back into a TriState.
func TriStateFromBool(b *bool) TriState {
	switch {
	case b == nil:
		return TriStateUnknown
	case *b:
		return TriStatePassed
	default:
		return TriStateFailed
	}
}

func (t TriState) String() string {
	switch t {
	case TriStatePassed:
		return "passed"
	case TriStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
