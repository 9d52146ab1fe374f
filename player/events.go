package player

import "github.com/tunetui/tunetui/media"

// Backend event delivery. Every handler drops events whose token no longer
// matches the current generation: a superseded load's late callbacks must
// not mutate state for a song that is no longer current.

func (a *Adapter) HandleLoaded(token uint64, duration float64) {
	a.mu.Lock()
	if token != a.generation || a.current == nil {
		a.mu.Unlock()
		a.log.Debug().Uint64("token", token).Msg("dropping stale loaded event")
		return
	}
	if duration > 0 {
		a.duration = duration
	}
	cb := a.onLoaded
	d := a.duration
	a.mu.Unlock()

	if cb != nil {
		cb(d)
	}
}

func (a *Adapter) HandlePlaying(token uint64) {
	a.mu.Lock()
	if token != a.generation || a.current == nil {
		a.mu.Unlock()
		return
	}
	transition := a.state != StatePlaying
	a.state = StatePlaying
	cb := a.onPlay
	pos := a.position
	rate := a.rate
	a.mu.Unlock()

	if !transition {
		return
	}
	if cb != nil {
		cb()
	}
	a.updateSessionState(true, pos, rate)
}

func (a *Adapter) HandlePaused(token uint64) {
	a.mu.Lock()
	if token != a.generation || a.current == nil || a.state != StatePlaying {
		a.mu.Unlock()
		return
	}
	a.state = StatePaused
	cb := a.onPause
	pos := a.position
	rate := a.rate
	a.mu.Unlock()

	if cb != nil {
		cb()
	}
	a.updateSessionState(false, pos, rate)
}

func (a *Adapter) HandleEnded(token uint64) {
	a.mu.Lock()
	if token != a.generation || a.current == nil {
		a.mu.Unlock()
		return
	}
	song := a.current
	a.resetLocked()
	cb := a.onEnded
	a.mu.Unlock()

	a.log.Info().Str("song", song.DisplayTitle()).Msg("playback ended")
	if cb != nil {
		cb()
	}
	a.session.Clear()
	a.lock.Release()
}

func (a *Adapter) HandlePosition(token uint64, position float64) {
	a.mu.Lock()
	if token != a.generation || a.current == nil || a.state != StatePlaying {
		a.mu.Unlock()
		return
	}
	if a.duration > 0 && position > a.duration {
		position = a.duration
	}
	if position < 0 {
		position = 0
	}
	a.position = position
	cb := a.onTimeUpdate
	a.mu.Unlock()

	if cb != nil {
		cb(position)
	}
}

func (a *Adapter) HandleError(token uint64, code ErrorCode, message string) {
	a.mu.Lock()
	if token != a.generation || a.current == nil {
		a.mu.Unlock()
		a.log.Debug().Uint64("token", token).Str("code", string(code)).Msg("dropping stale error event")
		return
	}
	song := a.current
	a.resetLocked()
	cb := a.onError
	a.mu.Unlock()

	a.log.Warn().Str("song", song.DisplayTitle()).Str("code", string(code)).Str("message", message).Msg("playback error")
	if cb != nil {
		cb(newPlaybackError(code, message))
	}
	a.session.Clear()
	a.lock.Release()
}

// OnMediaCommand dispatches OS media-session commands (lock screen,
// hardware keys) onto the adapter.
func (a *Adapter) OnMediaCommand(cmd media.Command, value float64) {
	switch cmd {
	case media.CmdPlay:
		a.Resume()
	case media.CmdPause:
		a.Pause()
	case media.CmdPlayPause:
		if a.State() == StatePlaying {
			a.Pause()
		} else {
			a.Resume()
		}
	case media.CmdStop:
		a.Stop()
	case media.CmdSeekTo:
		a.Seek(value)
	case media.CmdSeekBy:
		a.SeekBy(value)
	}
}
