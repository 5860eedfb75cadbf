package player

import "context"

// Transport is the audio output capability the session drives. Decoding
// and device output live behind this interface; the session only issues
// commands and reads back progress.
type Transport interface {
	// Open prepares the source at uri for playback, replacing any
	// previously opened source.
	Open(ctx context.Context, uri string) error

	// Play starts or resumes output.
	Play() error

	// Pause suspends output, keeping the current position.
	Pause() error

	// SeekTo repositions playback to the given offset in seconds.
	SeekTo(seconds float64) error

	// Playing reports whether audio is currently progressing.
	Playing() bool

	// CurrentTime returns the transport-reported position in seconds.
	CurrentTime() float64

	// Duration returns the source duration in seconds, 0 until known.
	Duration() float64
}

// Resolver maps a track ID to a playable source URI. Today that is always
// a streaming URL from the remote catalog; a local-file lookup can be
// substituted without touching the session.
type Resolver interface {
	ResolveURI(ctx context.Context, trackID string) (string, error)
}

// PlayCounter receives best-effort play notifications. Failures are
// logged and never affect playback.
type PlayCounter interface {
	IncrementPlayCount(ctx context.Context, trackID string) error
}
