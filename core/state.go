package core

type InitState string

const (
	InitStateNotStarted InitState = "not_started"
	InitStateInProgress InitState = "in_progress"
	InitStateReady      InitState = "ready"
	InitStateFailed     InitState = "failed"
)

// Settled reports whether an initialization attempt has finished.
func (s InitState) Settled() bool {
	return s == InitStateReady || s == InitStateFailed
}

// Waiting reports whether gated operations must be queued.
func (s InitState) Waiting() bool {
	return s == InitStateNotStarted || s == InitStateInProgress
}

// canTransition encodes the only legal moves: forward through an attempt,
// or back to NotStarted on teardown.
func canTransition(from, to InitState) bool {
	switch to {
	case InitStateInProgress:
		return from == InitStateNotStarted
	case InitStateReady, InitStateFailed:
		return from == InitStateInProgress
	case InitStateNotStarted:
		return true
	default:
		return false
	}
}
