package ui

import (
	"fmt"

	"github.com/tunetui/tunetui/domain"
)

// FormatDuration converts seconds to MM:SS, or H:MM:SS past the hour.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// CreateProgressBar creates a visual progress bar. progress is in [0, 1].
func CreateProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filledWidth := int(progress * float64(width))
	var bar string
	for i := 0; i < width; i++ {
		if i < filledWidth {
			bar += "[lightgreen]▓"
		} else {
			bar += "[darkgray]░"
		}
	}
	return bar + fmt.Sprintf("[white] %.1f%%", progress*100)
}

// FormatNowPlaying renders the status bar for the current player snapshot.
func FormatNowPlaying(state domain.PlayerState, barWidth int, volume, rate float64) string {
	if state.CurrentSong == nil {
		return "[darkgray]Nothing playing. Press / to search."
	}

	song := state.CurrentSong
	var status string
	switch {
	case state.IsLoading:
		status = fmt.Sprintf("[yellow]%s [darkgray](loading...)", song.Name)
	case state.IsPlaying:
		status = fmt.Sprintf("[lightgreen]%s", song.Name)
	default:
		status = fmt.Sprintf("[gray]%s [darkgray](paused)", song.Name)
	}

	var progress float64
	if state.Duration > 0 {
		progress = state.Position / state.Duration
	}

	rateStr := ""
	if rate != 1.0 {
		rateStr = fmt.Sprintf(" [darkgray]rate [white]%.2fx", rate)
	}

	return fmt.Sprintf(`%s
[gray]Artist: [white]%s [gray]Album: [white]%s
%s
[darkgray]%s/%s [darkgray]vol [white]%.0f%%%s`,
		status, song.Artist, song.Album,
		CreateProgressBar(progress, barWidth),
		FormatDuration(state.Position), FormatDuration(state.Duration),
		volume*100, rateStr)
}

// CreateWelcomeMessage creates the idle screen message.
func CreateWelcomeMessage(serverURL string, healthy bool) string {
	health := "[lightgreen]online"
	if !healthy {
		health = "[red]unreachable"
	}
	return fmt.Sprintf(`
[lightgreen] tunetui
[darkgray][source] %s %s

[gray]  / (search) | ENTER (play)
[gray]  SPACE (play/pause) | s (stop)
[gray]  ←/→ (seek) | +/- (volume) | </> (rate)
[gray]  gg (top) | G (bottom) | j/k (row)
[gray]  ? (help) | q or ESC (exit)`, serverURL, health)
}
