package player

import "github.com/pkg/errors"

// ErrRateUnsupported is returned by backends without playback-rate control.
// The adapter swallows it; callers must not assume rate changes take effect.
var ErrRateUnsupported = errors.New("playback rate not supported by this backend")

// EventHandler receives playback events from a Backend. Calls are made
// synchronously from the backend's own event-delivery goroutine, never
// buffered or reordered. The token identifies which Start the event belongs
// to, so a stale event for a superseded stream can be dropped.
type EventHandler interface {
	HandleLoaded(token uint64, duration float64)
	HandlePlaying(token uint64)
	HandlePaused(token uint64)
	HandleEnded(token uint64)
	HandlePosition(token uint64, position float64)
	HandleError(token uint64, code ErrorCode, message string)
}

// Backend is the playback primitive behind the adapter: either a libmpv
// instance or the in-process beep decoder chain. One stream at a time;
// Start replaces whatever is active.
type Backend interface {
	// Name identifies the backend in logs and status displays.
	Name() string

	// Start begins loading and playing the given stream URL, replacing any
	// active stream. Events for this load carry token.
	Start(url string, token uint64) error

	// Pause and Resume toggle the active stream. Both no-op without one.
	Pause() error
	Resume() error

	// Stop tears down the active stream and releases its resources.
	Stop() error

	// Seek jumps to an absolute position in seconds, clamped to the
	// stream's own bounds. No-op when nothing is loaded.
	Seek(seconds float64) error

	// SetVolume sets output volume, 0.0 to 1.0.
	SetVolume(v float64) error

	// SetRate sets the playback rate. Backends without rate control return
	// ErrRateUnsupported.
	SetRate(r float64) error

	// Snapshot reports position and duration in seconds and whether audio
	// is actively playing right now.
	Snapshot() (position, duration float64, playing bool)

	// Close releases the backend entirely.
	Close()
}
