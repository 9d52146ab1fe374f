package player

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Watchdog is a best-effort recovery policy: if audio unexpectedly stopped
// while a song is still marked active and the pause was not intentional, it
// nudges the backend to resume. One nudge per playback; this is a heuristic,
// not a guarantee.
type Watchdog struct {
	adapter  *Adapter
	interval time.Duration
	grace    time.Duration
	log      zerolog.Logger
}

// NewWatchdog creates a watchdog for the adapter. grace is how long after a
// play command stalls are ignored, so normal load time is not mistaken for
// a stall.
func NewWatchdog(adapter *Adapter, interval, grace time.Duration, log zerolog.Logger) *Watchdog {
	return &Watchdog{
		adapter:  adapter,
		interval: interval,
		grace:    grace,
		log:      log,
	}
}

// Run polls until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check performs one poll and returns whether a nudge was issued.
func (w *Watchdog) check() bool {
	a := w.adapter

	a.mu.Lock()
	backend := a.backend
	candidate := backend != nil &&
		a.current != nil &&
		a.state == StatePlaying &&
		!a.intentionalPause &&
		time.Since(a.lastStart) >= w.grace &&
		a.nudgedGeneration != a.generation
	gen := a.generation
	a.mu.Unlock()

	if !candidate {
		return false
	}

	_, _, playing := backend.Snapshot()
	if playing {
		return false
	}

	a.mu.Lock()
	if gen != a.generation || a.intentionalPause {
		a.mu.Unlock()
		return false
	}
	a.nudgedGeneration = gen
	a.mu.Unlock()

	w.log.Info().Msg("audio stalled while a song is active, nudging resume")
	if err := backend.Resume(); err != nil {
		w.log.Warn().Err(err).Msg("recovery nudge failed")
	}
	return true
}
