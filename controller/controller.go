// Package controller sits between the UI and the playback layer. It owns the
// canonical view of player state and republishes it as immutable snapshots,
// so the UI renders from data it can never race on.
package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tunetui/tunetui/api"
	"github.com/tunetui/tunetui/domain"
	"github.com/tunetui/tunetui/player"
)

// Player is the playback surface the controller drives. *player.Adapter
// satisfies it.
type Player interface {
	Play(song domain.Song) error
	Pause()
	Resume()
	Stop()
	Seek(seconds float64)
	SeekBy(offset float64)
	SetVolume(v float64)
	Volume() float64
	SetPlaybackRate(r float64)
	PlaybackRate() float64
	State() player.State
	CurrentSong() *domain.Song

	OnPlay(fn func())
	OnPause(fn func())
	OnEnded(fn func())
	OnTimeUpdate(fn func(position float64))
	OnLoaded(fn func(duration float64))
	OnError(fn func(err *player.PlaybackError))
}

// Controller mediates search and playback. It subscribes once to the
// player's callbacks at construction; state changes flow out through
// OnChange as value snapshots.
type Controller struct {
	source      api.Source
	player      Player
	log         zerolog.Logger
	searchLimit int

	mu       sync.Mutex
	state    domain.PlayerState
	onChange func(domain.PlayerState)
	onError  func(err *player.PlaybackError)
}

func New(source api.Source, p Player, searchLimit int, log zerolog.Logger) *Controller {
	c := &Controller{
		source:      source,
		player:      p,
		log:         log,
		searchLimit: searchLimit,
	}

	p.OnPlay(c.handlePlay)
	p.OnPause(c.handlePause)
	p.OnEnded(c.handleEnded)
	p.OnTimeUpdate(c.handleTimeUpdate)
	p.OnLoaded(c.handleLoaded)
	p.OnError(c.handleError)
	return c
}

// OnChange registers the snapshot subscriber. Single subscriber; last
// registration wins.
func (c *Controller) OnChange(fn func(domain.PlayerState)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// OnError registers the playback error subscriber.
func (c *Controller) OnError(fn func(err *player.PlaybackError)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller) State() domain.PlayerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Search queries the catalog. An empty or whitespace query returns no
// results without touching the network.
func (c *Controller) Search(ctx context.Context, query string) ([]domain.Song, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	songs, err := c.source.SearchSongs(ctx, query)
	if err != nil {
		return nil, err
	}
	if c.searchLimit > 0 && len(songs) > c.searchLimit {
		songs = songs[:c.searchLimit]
	}
	return songs, nil
}

// CheckHealth reports whether the catalog server answers its health probe.
func (c *Controller) CheckHealth(ctx context.Context) bool {
	return c.source.CheckHealth(ctx)
}

// PlaySong starts playback of song. The snapshot flips to loading
// immediately, before the stream is fetched, so the UI reflects the request
// without waiting on the network.
func (c *Controller) PlaySong(song domain.Song) {
	c.mu.Lock()
	s := song
	c.state = domain.PlayerState{
		CurrentSong: &s,
		IsPlaying:   false,
		IsLoading:   true,
		Position:    0,
		Duration:    domain.ParseDisplayDuration(song.Duration),
	}
	c.mu.Unlock()
	c.publish()

	if err := c.player.Play(song); err != nil {
		// The player fires its error callback for this; handleError already
		// rolled the snapshot back.
		c.log.Warn().Err(err).Str("song", song.DisplayTitle()).Msg("playback request failed")
	}
}

// TogglePlayPause pauses while playing and resumes otherwise. No-op when no
// song is resident.
func (c *Controller) TogglePlayPause() {
	if c.player.State() == player.StatePlaying {
		c.player.Pause()
	} else {
		c.player.Resume()
	}
}

func (c *Controller) Pause() { c.player.Pause() }

func (c *Controller) Resume() { c.player.Resume() }

// Stop ends playback and clears the snapshot.
func (c *Controller) Stop() {
	c.player.Stop()
	c.mu.Lock()
	c.state = domain.PlayerState{}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) Seek(seconds float64) { c.player.Seek(seconds) }

func (c *Controller) SeekBy(offset float64) { c.player.SeekBy(offset) }

// AdjustVolume shifts volume by delta; the player clamps to [0, 1].
func (c *Controller) AdjustVolume(delta float64) float64 {
	c.player.SetVolume(c.player.Volume() + delta)
	return c.player.Volume()
}

// AdjustRate shifts playback rate by delta; the player clamps to [0.25, 2].
func (c *Controller) AdjustRate(delta float64) float64 {
	c.player.SetPlaybackRate(c.player.PlaybackRate() + delta)
	return c.player.PlaybackRate()
}

func (c *Controller) Volume() float64 { return c.player.Volume() }

func (c *Controller) PlaybackRate() float64 { return c.player.PlaybackRate() }

// publish hands the current snapshot to the subscriber, outside the lock.
func (c *Controller) publish() {
	c.mu.Lock()
	fn := c.onChange
	snapshot := c.state
	c.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

// The play/loaded handlers re-assert the player's current song instead of
// trusting the snapshot. A late error event from a superseded song can land
// between PlaySong's optimistic publish and the player switching over; it
// clears the snapshot, and without the re-assertion the next play event
// would mark an empty snapshot as playing.

func (c *Controller) handlePlay() {
	song := c.player.CurrentSong()
	if song == nil {
		return
	}
	c.mu.Lock()
	if !domain.SameSong(c.state.CurrentSong, song) {
		c.state.CurrentSong = song
	}
	c.state.IsPlaying = true
	c.state.IsLoading = false
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) handlePause() {
	c.mu.Lock()
	if c.state.CurrentSong == nil {
		c.mu.Unlock()
		return
	}
	c.state.IsPlaying = false
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) handleEnded() {
	c.mu.Lock()
	c.state = domain.PlayerState{}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) handleTimeUpdate(position float64) {
	c.mu.Lock()
	if c.state.CurrentSong == nil {
		c.mu.Unlock()
		return
	}
	c.state.Position = position
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) handleLoaded(duration float64) {
	song := c.player.CurrentSong()
	if song == nil {
		return
	}
	c.mu.Lock()
	if !domain.SameSong(c.state.CurrentSong, song) {
		c.state.CurrentSong = song
		c.state.Position = 0
	}
	c.state.IsLoading = false
	if duration > 0 {
		c.state.Duration = duration
	}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) handleError(err *player.PlaybackError) {
	c.mu.Lock()
	c.state = domain.PlayerState{}
	errFn := c.onError
	c.mu.Unlock()
	c.publish()
	if errFn != nil {
		errFn(err)
	}
}
