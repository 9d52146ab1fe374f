// Package media integrates with the OS now-playing surface, so external
// controls (desktop widgets, hardware media keys) stay consistent with
// in-app state.
package media

import "time"

// PlaybackStatus mirrors the states the OS surface can display.
type PlaybackStatus string

const (
	StatusPlaying PlaybackStatus = "Playing"
	StatusPaused  PlaybackStatus = "Paused"
	StatusStopped PlaybackStatus = "Stopped"
)

// Command is an action requested through the OS media controls.
type Command int

const (
	CmdPlay Command = iota
	CmdPause
	CmdPlayPause
	CmdStop
	CmdSeekTo // value: absolute position in seconds
	CmdSeekBy // value: offset in seconds
)

// CommandHandler receives OS media-control commands.
type CommandHandler interface {
	OnMediaCommand(cmd Command, value float64)
}

// Metadata is the now-playing display payload. ArtURLs are ordered lowest
// to highest resolution; a session keeps whatever its surface can carry.
type Metadata struct {
	TrackID  string
	Title    string
	Artist   string
	Album    string
	ArtURLs  []string
	Duration time.Duration
}

// Session is the now-playing surface. Implementations must tolerate being
// updated from any goroutine and degrade silently when the surface is
// unavailable.
type Session interface {
	UpdateMetadata(meta Metadata)
	UpdatePlaybackState(status PlaybackStatus, position time.Duration, rate float64)
	Clear()
	SetCommandHandler(h CommandHandler)
	Close()
}
