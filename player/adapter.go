// Package player unifies two audio backends behind one playback interface
// and keeps OS-level now-playing metadata in sync with in-app state.
package player

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunetui/tunetui/domain"
	"github.com/tunetui/tunetui/media"
	"github.com/tunetui/tunetui/wakelock"
)

// State is the adapter's playback state machine position.
type State int

const (
	StateStopped State = iota
	StateLoading
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// StreamResolver turns a video id into a playable stream URL.
type StreamResolver interface {
	StreamURL(videoID string) string
}

// Adapter presents one playback interface over whichever Backend was chosen
// at construction. A single song is resident at a time; Play while another
// song is active implicitly stops it first. Each event callback accepts one
// subscriber — last registration wins — and is invoked synchronously from
// the backend's event delivery.
//
// Lock discipline: the adapter never calls into the backend while holding
// its own mutex. Backend event goroutines call back into the adapter, so
// holding mu across a backend call would invert lock order.
type Adapter struct {
	resolver StreamResolver
	session  media.Session
	lock     *wakelock.Lock
	log      zerolog.Logger

	mu         sync.Mutex
	backend    Backend
	state      State
	current    *domain.Song
	generation uint64
	position   float64
	duration   float64
	volume     float64
	rate       float64
	// intentionalPause records that the user asked for the pause, so the
	// recovery watchdog never overrides it.
	intentionalPause bool
	lastStart        time.Time
	nudgedGeneration uint64

	onPlay       func()
	onPause      func()
	onEnded      func()
	onTimeUpdate func(position float64)
	onLoaded     func(duration float64)
	onError      func(err *PlaybackError)
}

// NewAdapter creates the adapter. The backend is attached afterwards with
// AttachBackend because backend constructors need the adapter as their
// event handler.
func NewAdapter(resolver StreamResolver, session media.Session, lock *wakelock.Lock, log zerolog.Logger) *Adapter {
	a := &Adapter{
		resolver: resolver,
		session:  session,
		lock:     lock,
		log:      log,
		state:    StateStopped,
		volume:   1.0,
		rate:     1.0,
	}
	session.SetCommandHandler(a)
	return a
}

// AttachBackend binds the playback primitive. Called exactly once, before
// any playback operation.
func (a *Adapter) AttachBackend(b Backend) {
	a.mu.Lock()
	a.backend = b
	a.mu.Unlock()
	a.log.Info().Str("backend", b.Name()).Msg("playback backend attached")
}

// BackendName reports which primitive was selected at construction.
func (a *Adapter) BackendName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.backend == nil {
		return ""
	}
	return a.backend.Name()
}

// Callback registration. Single subscriber each; last registration wins.

func (a *Adapter) OnPlay(fn func()) { a.mu.Lock(); a.onPlay = fn; a.mu.Unlock() }

func (a *Adapter) OnPause(fn func()) { a.mu.Lock(); a.onPause = fn; a.mu.Unlock() }

func (a *Adapter) OnEnded(fn func()) { a.mu.Lock(); a.onEnded = fn; a.mu.Unlock() }

func (a *Adapter) OnTimeUpdate(fn func(position float64)) {
	a.mu.Lock()
	a.onTimeUpdate = fn
	a.mu.Unlock()
}

func (a *Adapter) OnLoaded(fn func(duration float64)) {
	a.mu.Lock()
	a.onLoaded = fn
	a.mu.Unlock()
}

func (a *Adapter) OnError(fn func(err *PlaybackError)) {
	a.mu.Lock()
	a.onError = fn
	a.mu.Unlock()
}

// Play stops any current playback, resolves a stream URL for song and
// starts the backend on it. Failure leaves the adapter stopped and fires
// the error callback with a classified error.
func (a *Adapter) Play(song domain.Song) error {
	url := a.resolver.StreamURL(song.VideoID)

	a.mu.Lock()
	backend := a.backend
	a.generation++
	token := a.generation
	s := song
	a.current = &s
	a.state = StateLoading
	a.intentionalPause = false
	a.position = 0
	a.duration = domain.ParseDisplayDuration(song.Duration)
	a.lastStart = time.Now()
	a.mu.Unlock()

	a.log.Info().Str("song", song.DisplayTitle()).Str("url", url).Msg("starting playback")
	a.session.UpdateMetadata(songMetadata(&song))
	a.lock.Acquire()

	if err := backend.Start(url, token); err != nil {
		perr := classifyStartError(err)
		a.mu.Lock()
		var cb func(err *PlaybackError)
		if token == a.generation {
			a.resetLocked()
			cb = a.onError
		}
		a.mu.Unlock()
		a.session.Clear()
		a.lock.Release()
		if cb != nil {
			cb(perr)
		}
		return perr
	}
	return nil
}

// Pause pauses the active song. No-op when nothing is active. The pause is
// recorded as intentional so the recovery watchdog leaves it alone.
func (a *Adapter) Pause() {
	a.mu.Lock()
	backend := a.backend
	active := a.current != nil && a.state == StatePlaying
	if active {
		a.intentionalPause = true
	}
	a.mu.Unlock()
	if !active {
		return
	}
	if err := backend.Pause(); err != nil {
		a.log.Warn().Err(err).Msg("pause failed")
	}
}

// Resume resumes a paused song. No-op when nothing is active.
func (a *Adapter) Resume() {
	a.mu.Lock()
	backend := a.backend
	active := a.current != nil && a.state == StatePaused
	if active {
		a.intentionalPause = false
	}
	a.mu.Unlock()
	if !active {
		return
	}
	if err := backend.Resume(); err != nil {
		a.log.Warn().Err(err).Msg("resume failed")
	}
}

// Stop releases the backend's stream, clears the current song and position,
// clears now-playing metadata and releases the wake lock.
func (a *Adapter) Stop() {
	a.mu.Lock()
	backend := a.backend
	had := a.current != nil
	a.resetLocked()
	a.mu.Unlock()

	if had {
		if err := backend.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("stop failed")
		}
	}
	a.session.Clear()
	a.lock.Release()
}

// Seek jumps to an absolute position in seconds. The backend clamps to its
// own bounds; the adapter additionally clamps to [0, duration]. No-op when
// nothing is loaded.
func (a *Adapter) Seek(seconds float64) {
	a.mu.Lock()
	backend := a.backend
	loaded := a.current != nil && a.state != StateStopped && a.state != StateLoading
	if seconds < 0 {
		seconds = 0
	}
	if a.duration > 0 && seconds > a.duration {
		seconds = a.duration
	}
	if loaded {
		a.position = seconds
	}
	pos := a.position
	rate := a.rate
	playing := a.state == StatePlaying
	a.mu.Unlock()
	if !loaded {
		return
	}
	if err := backend.Seek(seconds); err != nil {
		a.log.Warn().Err(err).Msg("seek failed")
		return
	}
	a.updateSessionState(playing, pos, rate)
}

// SeekBy seeks relative to the current position. Used by OS media controls.
func (a *Adapter) SeekBy(offset float64) {
	a.mu.Lock()
	pos := a.position
	a.mu.Unlock()
	a.Seek(pos + offset)
}

// SetVolume sets output volume, clamped to [0, 1].
func (a *Adapter) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	a.mu.Lock()
	backend := a.backend
	a.volume = v
	a.mu.Unlock()
	if err := backend.SetVolume(v); err != nil {
		a.log.Warn().Err(err).Msg("set volume failed")
	}
}

// Volume returns the last volume set, clamped.
func (a *Adapter) Volume() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volume
}

// SetPlaybackRate sets the playback rate, clamped to [0.25, 2]. Rate
// control is unsupported on the beep backend and silently ignored there;
// callers must not assume it always takes effect.
func (a *Adapter) SetPlaybackRate(r float64) {
	if r < 0.25 {
		r = 0.25
	}
	if r > 2 {
		r = 2
	}
	a.mu.Lock()
	backend := a.backend
	a.rate = r
	a.mu.Unlock()
	if err := backend.SetRate(r); err != nil {
		if err == ErrRateUnsupported {
			a.log.Debug().Float64("rate", r).Msg("rate ignored by backend")
			return
		}
		a.log.Warn().Err(err).Msg("set rate failed")
	}
}

// PlaybackRate returns the last rate requested, clamped. It may not be in
// effect on backends without rate control.
func (a *Adapter) PlaybackRate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rate
}

// CurrentSong returns the resident song, or nil.
func (a *Adapter) CurrentSong() *domain.Song {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// State returns the state machine position.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Close stops playback and tears down the backend.
func (a *Adapter) Close() {
	a.Stop()
	a.mu.Lock()
	backend := a.backend
	a.mu.Unlock()
	if backend != nil {
		backend.Close()
	}
	a.session.Close()
}

// resetLocked returns the adapter to the stopped state. Caller holds a.mu.
func (a *Adapter) resetLocked() {
	a.state = StateStopped
	a.current = nil
	a.position = 0
	a.duration = 0
	a.intentionalPause = false
}

func (a *Adapter) updateSessionState(playing bool, position, rate float64) {
	status := media.StatusPaused
	if playing {
		status = media.StatusPlaying
	}
	a.session.UpdatePlaybackState(status, time.Duration(position*float64(time.Second)), rate)
}

// songMetadata maps a song onto now-playing metadata. Thumbnails pass
// through in their given order; the session decides which entries it can
// represent.
func songMetadata(song *domain.Song) media.Metadata {
	artURLs := make([]string, len(song.Thumbnails))
	for i, t := range song.Thumbnails {
		artURLs[i] = t.URL
	}
	return media.Metadata{
		TrackID:  song.VideoID,
		Title:    song.Name,
		Artist:   song.Artist,
		Album:    song.Album,
		ArtURLs:  artURLs,
		Duration: time.Duration(domain.ParseDisplayDuration(song.Duration) * float64(time.Second)),
	}
}

// classifyStartError maps a synchronous backend start failure.
func classifyStartError(err error) *PlaybackError {
	if perr, ok := err.(*PlaybackError); ok {
		return perr
	}
	return wrapPlaybackError(ErrorBackend, err)
}
