package player

// State represents the playback session's position in its lifecycle.
type State int

const (
	// StateIdle indicates no current track.
	StateIdle State = iota
	// StateLoading indicates the transport is acquiring a source.
	StateLoading
	// StatePlaying indicates audio is progressing.
	StatePlaying
	// StatePaused indicates playback is suspended.
	StatePaused
	// StateEnded indicates the current track finished; it is transient
	// and immediately followed by auto-advance.
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// transitions lists the legal state changes. Loading is reachable from
// anywhere because loading a track supersedes whatever came before.
var transitions = map[State][]State{
	StateIdle:    {StateLoading},
	StateLoading: {StatePlaying, StateLoading, StateIdle},
	StatePlaying: {StatePaused, StateEnded, StateLoading, StateIdle},
	StatePaused:  {StatePlaying, StateLoading, StateIdle},
	StateEnded:   {StateLoading, StatePlaying, StateIdle},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
