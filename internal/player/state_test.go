package player

import "testing"

func TestStateString(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateLoading, "loading"},
		{StatePlaying, "playing"},
		{StatePaused, "paused"},
		{StateEnded, "ended"},
	}

	for _, c := range cases {
		if got := c.state.String(); got != c.want {
			t.Errorf("State(%d).String() = %q, want %q", c.state, got, c.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	t.Run("allows the playback lifecycle", func(t *testing.T) {
		path := []State{StateIdle, StateLoading, StatePlaying, StatePaused, StatePlaying, StateEnded, StateLoading}
		for i := 0; i < len(path)-1; i++ {
			if !canTransition(path[i], path[i+1]) {
				t.Errorf("expected %s -> %s to be allowed", path[i], path[i+1])
			}
		}
	})

	t.Run("allows replay after ending", func(t *testing.T) {
		if !canTransition(StateEnded, StatePlaying) {
			t.Error("expected ended -> playing to be allowed")
		}
	})

	t.Run("rejects skipping the loading step", func(t *testing.T) {
		if canTransition(StateIdle, StatePlaying) {
			t.Error("expected idle -> playing to be rejected")
		}
	})

	t.Run("rejects pausing while idle", func(t *testing.T) {
		if canTransition(StateIdle, StatePaused) {
			t.Error("expected idle -> paused to be rejected")
		}
	})
}
