package session

// Phase is the coarse lifecycle state of a session.
type Phase string

const (
	PhaseUninitialized Phase = "UNINITIALIZED" // No game loaded
	PhaseUnmodified    Phase = "UNMODIFIED"    // Active, matches the last save/start
	PhaseModified      Phase = "MODIFIED"      // Active, has unsaved guesses
	PhaseEnded         Phase = "ENDED"         // Won or lost
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Active reports whether guesses and hints are accepted.
func (p Phase) Active() bool {
	return p == PhaseUnmodified || p == PhaseModified
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseUninitialized: {PhaseUninitialized, PhaseUnmodified, PhaseEnded}, // reset, start, or load of a decided game
		PhaseUnmodified:    {PhaseModified, PhaseEnded, PhaseUninitialized, PhaseUnmodified},
		PhaseModified:      {PhaseModified, PhaseUnmodified, PhaseEnded, PhaseUninitialized},
		PhaseEnded:         {PhaseUninitialized, PhaseUnmodified, PhaseEnded},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
