package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/queue"
	"github.com/desertthunder/cadence/internal/shared"
)

// Config holds playback session tuning knobs.
type Config struct {
	PollInterval     time.Duration // progress polling cadence
	RestartThreshold float64       // seconds into a track before "previous" restarts it
	EndEpsilon       float64       // seconds from the end that counts as finished
}

// DefaultConfig returns the session defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:     time.Second,
		RestartThreshold: 3.0,
		EndEpsilon:       0.5,
	}
}

// Snapshot is an immutable view of the session, handed to observers.
type Snapshot struct {
	State          State
	Track          *models.Track
	Queue          []models.Track
	Index          int
	Position       float64
	Duration       float64
	RepeatMode     models.RepeatMode
	ShuffleEnabled bool
}

// Session owns all playback state. Every mutation goes through its
// methods; the queue package only computes index transitions.
type Session struct {
	mu        sync.Mutex
	logger    *log.Logger
	transport Transport
	resolver  Resolver
	counter   PlayCounter
	config    Config

	state      State
	tracks     []models.Track
	index      int
	current    *models.Track
	position   float64
	duration   float64
	repeatMode models.RepeatMode
	shuffle    bool

	// generation stamps each load; stale completions check against it
	// before touching state.
	generation uint64

	pollStop chan struct{}
	onChange func(Snapshot)
}

// NewSession creates a playback session. counter may be nil to disable
// play-count notifications.
func NewSession(transport Transport, resolver Resolver, counter PlayCounter, config Config, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.EndEpsilon <= 0 {
		config.EndEpsilon = DefaultConfig().EndEpsilon
	}

	return &Session{
		logger:    shared.WithLogger(logger, "component", "player"),
		transport: transport,
		resolver:  resolver,
		counter:   counter,
		config:    config,
		state:     StateIdle,
	}
}

// OnChange registers a callback invoked with a snapshot after every state
// change. The callback runs outside the session lock.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LoadTrack resolves and opens track, then starts playing it from zero.
// A newer LoadTrack supersedes this one: if another load starts while the
// resolver or transport is working, this call's completion is discarded.
// Resolution and transport failures propagate and drop the session back
// to Idle.
func (s *Session) LoadTrack(ctx context.Context, track models.Track) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.stopPollingLocked()
	s.transitionLocked(StateLoading)
	t := track
	s.current = &t
	s.position = 0
	s.duration = 0
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)

	uri, err := s.resolver.ResolveURI(ctx, track.ID)
	if err != nil {
		return s.failLoad(gen, fmt.Errorf("%w: %v", shared.ErrResolveFailed, err))
	}

	s.mu.Lock()
	if gen != s.generation {
		// Superseded while resolving; opening the stale URI would point
		// the shared transport at the wrong track.
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.transport.Open(ctx, uri); err != nil {
		return s.failLoad(gen, fmt.Errorf("%w: %v", shared.ErrTransportFailed, err))
	}

	s.mu.Lock()
	if gen != s.generation {
		// Superseded while opening; a later load owns the transport now.
		s.mu.Unlock()
		return nil
	}

	if err := s.transport.Play(); err != nil {
		s.transitionLocked(StateIdle)
		s.current = nil
		snap, cb = s.snapshotLocked(), s.onChange
		s.mu.Unlock()
		emit(cb, snap)
		return fmt.Errorf("%w: %v", shared.ErrTransportFailed, err)
	}

	s.duration = s.transport.Duration()
	s.transitionLocked(StatePlaying)
	s.startPollingLocked()
	snap, cb = s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)

	if s.counter != nil {
		go s.notifyPlayed(track.ID)
	}

	return nil
}

// PlayAt plays the queue entry at index. Out-of-range indexes are ignored,
// defending against stale UI state.
func (s *Session) PlayAt(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.tracks) {
		s.logger.Debugf("ignoring play request for out-of-range index %d", index)
		s.mu.Unlock()
		return nil
	}
	s.index = index
	track := s.tracks[index]
	s.mu.Unlock()

	return s.LoadTrack(ctx, track)
}

// Pause suspends playback and progress polling. No-op unless playing.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}

	if err := s.transport.Pause(); err != nil {
		s.logger.Warnf("transport pause failed: %v", err)
	}
	s.position = s.transport.CurrentTime()
	s.transitionLocked(StatePaused)
	s.stopPollingLocked()
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// Resume continues paused playback and restarts polling. No-op unless paused.
func (s *Session) Resume() {
	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return
	}

	if err := s.transport.Play(); err != nil {
		s.logger.Warnf("transport resume failed: %v", err)
		s.mu.Unlock()
		return
	}
	s.transitionLocked(StatePlaying)
	s.startPollingLocked()
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// Seek repositions playback, clamped to [0, duration]. The session's
// position updates immediately without waiting for transport confirmation.
func (s *Session) Seek(seconds float64) {
	s.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if s.duration > 0 && seconds > s.duration {
		seconds = s.duration
	}

	if err := s.transport.SeekTo(seconds); err != nil {
		s.logger.Warnf("transport seek failed: %v", err)
	}
	s.position = seconds
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// Advance moves to the next track: on repeat-one it restarts the current
// track in place, at the end of the queue it wraps (repeat-all) or drops
// to Idle, and otherwise it plays the following entry.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	if len(s.tracks) == 0 {
		s.becomeIdleLocked()
		snap, cb := s.snapshotLocked(), s.onChange
		s.mu.Unlock()
		emit(cb, snap)
		return nil
	}

	if s.repeatMode == models.RepeatOne {
		if err := s.transport.SeekTo(0); err != nil {
			s.logger.Warnf("transport seek failed: %v", err)
		}
		s.position = 0
		if s.state != StatePlaying {
			if err := s.transport.Play(); err != nil {
				s.logger.Warnf("transport replay failed: %v", err)
			}
			s.transitionLocked(StatePlaying)
			s.startPollingLocked()
		}
		snap, cb := s.snapshotLocked(), s.onChange
		s.mu.Unlock()
		emit(cb, snap)
		return nil
	}

	next, ok := queue.NextIndex(s.index, len(s.tracks), s.repeatMode)
	if !ok {
		s.becomeIdleLocked()
		snap, cb := s.snapshotLocked(), s.onChange
		s.mu.Unlock()
		emit(cb, snap)
		return nil
	}
	s.mu.Unlock()

	return s.PlayAt(ctx, next)
}

// Retreat skips backwards. More than the restart threshold into a track
// it restarts the current track instead of moving the queue pointer;
// otherwise it plays the previous entry when one exists.
func (s *Session) Retreat(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil
	}

	if s.position > s.config.RestartThreshold {
		if err := s.transport.SeekTo(0); err != nil {
			s.logger.Warnf("transport seek failed: %v", err)
		}
		s.position = 0
		snap, cb := s.snapshotLocked(), s.onChange
		s.mu.Unlock()
		emit(cb, snap)
		return nil
	}

	prev, ok := queue.PreviousIndex(s.index, len(s.tracks), s.repeatMode)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	return s.PlayAt(ctx, prev)
}

// SetQueue builds a fresh queue from tracks (honoring the current shuffle
// setting) and immediately plays the resulting start index.
func (s *Session) SetQueue(ctx context.Context, tracks []models.Track, startIndex int) error {
	s.mu.Lock()
	built, start := queue.Build(tracks, startIndex, s.shuffle)
	s.tracks = built
	s.index = start
	s.mu.Unlock()

	if len(built) == 0 {
		s.Clear()
		return nil
	}

	return s.PlayAt(ctx, start)
}

// InsertNext splices tracks immediately after the current index.
func (s *Session) InsertNext(tracks []models.Track) {
	s.mu.Lock()
	position := s.index + 1
	if len(s.tracks) == 0 {
		position = 0
	}
	s.tracks = queue.InsertAt(s.tracks, tracks, position)
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// AppendToQueue adds tracks to the end of the queue.
func (s *Session) AppendToQueue(tracks []models.Track) {
	s.mu.Lock()
	s.tracks = queue.Append(s.tracks, tracks)
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// RemoveFromQueue drops the entry at index, keeping the pointer on the
// same track when possible. Removing the current track is ignored.
func (s *Session) RemoveFromQueue(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.tracks) || index == s.index {
		s.mu.Unlock()
		return
	}
	s.tracks = queue.RemoveAt(s.tracks, index)
	if index < s.index {
		s.index--
	}
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// ToggleRepeat cycles off → all → one → off and returns the new mode.
func (s *Session) ToggleRepeat() models.RepeatMode {
	s.mu.Lock()
	s.repeatMode = s.repeatMode.Next()
	mode := s.repeatMode
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
	return mode
}

// ToggleShuffle flips the shuffle flag and returns the new value. An
// already-built queue keeps its order; shuffle applies at construction.
func (s *Session) ToggleShuffle() bool {
	s.mu.Lock()
	s.shuffle = !s.shuffle
	enabled := s.shuffle
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
	return enabled
}

// SetRepeatMode sets the repeat mode directly, used when restoring
// persisted settings.
func (s *Session) SetRepeatMode(mode models.RepeatMode) {
	s.mu.Lock()
	s.repeatMode = mode
	s.mu.Unlock()
}

// SetShuffle sets the shuffle flag directly, used when restoring
// persisted settings.
func (s *Session) SetShuffle(enabled bool) {
	s.mu.Lock()
	s.shuffle = enabled
	s.mu.Unlock()
}

// Clear pauses the transport, empties the queue, and resets the session
// to its empty state.
func (s *Session) Clear() {
	s.mu.Lock()
	s.generation++
	if s.state == StatePlaying {
		if err := s.transport.Pause(); err != nil {
			s.logger.Warnf("transport pause failed: %v", err)
		}
	}
	s.stopPollingLocked()
	s.tracks = nil
	s.index = 0
	s.current = nil
	s.position = 0
	s.duration = 0
	s.transitionLocked(StateIdle)
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// Restore loads a persisted queue snapshot without starting playback.
// The session stays Idle; PlayAt resumes from the restored index.
func (s *Session) Restore(tracks []models.Track, index int, position float64) {
	s.mu.Lock()
	s.tracks = make([]models.Track, len(tracks))
	copy(s.tracks, tracks)

	if index < 0 || index >= len(s.tracks) {
		index = 0
	}
	s.index = index
	if len(s.tracks) > 0 {
		t := s.tracks[index]
		s.current = &t
	}
	if position >= 0 {
		s.position = position
	}
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)
}

// snapshotLocked builds an observer-safe copy of the session state.
func (s *Session) snapshotLocked() Snapshot {
	tracks := make([]models.Track, len(s.tracks))
	copy(tracks, s.tracks)

	var track *models.Track
	if s.current != nil {
		t := *s.current
		track = &t
	}

	return Snapshot{
		State:          s.state,
		Track:          track,
		Queue:          tracks,
		Index:          s.index,
		Position:       s.position,
		Duration:       s.duration,
		RepeatMode:     s.repeatMode,
		ShuffleEnabled: s.shuffle,
	}
}

// transitionLocked applies a state change, logging transitions the table
// does not allow rather than wedging playback over a bookkeeping bug.
func (s *Session) transitionLocked(to State) {
	if !canTransition(s.state, to) {
		s.logger.Warnf("unexpected transition %s -> %s", s.state, to)
	}
	s.state = to
}

// becomeIdleLocked is the queue-exhausted landing: polling stops, the
// current track clears, and the session returns to Idle.
func (s *Session) becomeIdleLocked() {
	s.stopPollingLocked()
	s.current = nil
	s.position = 0
	s.duration = 0
	s.transitionLocked(StateIdle)
}

// failLoad handles a resolver or transport failure for generation gen.
// If a newer load has already superseded this one the failure is moot.
func (s *Session) failLoad(gen uint64, err error) error {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	s.current = nil
	s.transitionLocked(StateIdle)
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)

	s.logger.Warnf("track load failed: %v", err)
	return err
}

// notifyPlayed sends the best-effort play-count ping.
func (s *Session) notifyPlayed(trackID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.counter.IncrementPlayCount(ctx, trackID); err != nil {
		s.logger.Debugf("play count notification failed for %s: %v", trackID, err)
	}
}

// startPollingLocked launches the progress poller if not already running.
func (s *Session) startPollingLocked() {
	if s.pollStop != nil {
		return
	}
	stop := make(chan struct{})
	s.pollStop = stop
	go s.pollLoop(stop, s.generation)
}

// stopPollingLocked halts the poller; stopping twice is a no-op.
func (s *Session) stopPollingLocked() {
	if s.pollStop != nil {
		close(s.pollStop)
		s.pollStop = nil
	}
}

// pollLoop samples transport progress until stopped or the track ends.
func (s *Session) pollLoop(stop chan struct{}, gen uint64) {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if ended := s.tick(gen); ended {
				return
			}
		}
	}
}

// tick performs one progress sample for the poller of generation gen.
// It returns true when the track ended and auto-advance ran; the poller
// for the next track is started by the advance itself.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.generation || s.state != StatePlaying {
		s.mu.Unlock()
		return false
	}

	s.position = s.transport.CurrentTime()
	if d := s.transport.Duration(); d > 0 {
		s.duration = d
	}

	// Track end is inferred, not evented: the transport stopped on its
	// own with the position at (or within epsilon of) a known duration.
	ended := !s.transport.Playing() &&
		s.duration > 0 &&
		s.position >= s.duration-s.config.EndEpsilon

	if ended {
		s.transitionLocked(StateEnded)
		s.stopPollingLocked()
	}
	snap, cb := s.snapshotLocked(), s.onChange
	s.mu.Unlock()
	emit(cb, snap)

	if ended {
		if err := s.Advance(context.Background()); err != nil {
			s.logger.Warnf("auto-advance failed: %v", err)
		}
	}

	return ended
}

// emit invokes an observer callback outside the session lock.
func emit(cb func(Snapshot), snap Snapshot) {
	if cb != nil {
		cb(snap)
	}
}
