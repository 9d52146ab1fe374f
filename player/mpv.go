package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wildeyedskies/go-mpv/mpv"
)

// MPVBackend drives an embedded libmpv instance. It is the preferred
// backend: gapless streaming, seeking and rate control all come for free.
type MPVBackend struct {
	handler EventHandler
	log     zerolog.Logger

	mu      sync.Mutex
	m       *mpv.Mpv
	token   uint64
	active  bool // a stream is loaded or loading
	loaded  bool // FILE_LOADED seen for the current stream
	paused  bool
	skipEnd int // END_FILE events to ignore (from replace/stop commands)
}

// NewMPVBackend creates and initializes an audio-only mpv instance and
// starts its event loops. ctx cancellation stops the loops.
func NewMPVBackend(ctx context.Context, handler EventHandler, log zerolog.Logger) (*MPVBackend, error) {
	m := mpv.Create()
	m.SetOptionString("audio-display", "no")
	m.SetOptionString("video", "no")
	m.SetOptionString("terminal", "no")

	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("failed to initialize mpv: %w", err)
	}

	b := &MPVBackend{
		handler: handler,
		log:     log,
		m:       m,
	}
	go b.eventLoop(ctx)
	go b.positionLoop(ctx)
	return b, nil
}

func (b *MPVBackend) Name() string { return "mpv" }

func (b *MPVBackend) Start(url string, token uint64) error {
	b.mu.Lock()
	if b.active {
		// The replace below ends the previous file; its END_FILE must not
		// be taken for the new stream.
		b.skipEnd++
	}
	b.token = token
	b.active = true
	b.loaded = false
	b.paused = false
	b.mu.Unlock()

	if err := b.m.Command([]string{"loadfile", url, "replace"}); err != nil {
		b.mu.Lock()
		b.active = false
		b.mu.Unlock()
		return wrapPlaybackError(ErrorBackend, err)
	}
	return b.m.Command([]string{"set", "pause", "no"})
}

func (b *MPVBackend) Pause() error {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return nil
	}
	b.paused = true
	token := b.token
	b.mu.Unlock()

	if err := b.m.Command([]string{"set", "pause", "yes"}); err != nil {
		return err
	}
	b.handler.HandlePaused(token)
	return nil
}

func (b *MPVBackend) Resume() error {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return nil
	}
	b.paused = false
	token := b.token
	b.mu.Unlock()

	if err := b.m.Command([]string{"set", "pause", "no"}); err != nil {
		return err
	}
	b.handler.HandlePlaying(token)
	return nil
}

func (b *MPVBackend) Stop() error {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return nil
	}
	b.active = false
	b.loaded = false
	b.skipEnd++
	b.mu.Unlock()

	return b.m.Command([]string{"stop"})
}

func (b *MPVBackend) Seek(seconds float64) error {
	b.mu.Lock()
	active := b.active
	b.mu.Unlock()
	if !active {
		return nil
	}
	return b.m.Command([]string{"seek", fmt.Sprintf("%.3f", seconds), "absolute"})
}

func (b *MPVBackend) SetVolume(v float64) error {
	return b.m.Command([]string{"set", "volume", fmt.Sprintf("%.0f", v*100)})
}

func (b *MPVBackend) SetRate(r float64) error {
	return b.m.Command([]string{"set", "speed", fmt.Sprintf("%.2f", r)})
}

func (b *MPVBackend) Snapshot() (position, duration float64, playing bool) {
	b.mu.Lock()
	active := b.active
	loaded := b.loaded
	paused := b.paused
	b.mu.Unlock()

	if !active {
		return 0, 0, false
	}
	if pos, err := b.m.GetProperty("time-pos", mpv.FORMAT_DOUBLE); err == nil {
		position, _ = pos.(float64)
	}
	if dur, err := b.m.GetProperty("duration", mpv.FORMAT_DOUBLE); err == nil {
		duration, _ = dur.(float64)
	}
	return position, duration, loaded && !paused
}

func (b *MPVBackend) Close() {
	b.m.Command([]string{"quit"})
	b.m.TerminateDestroy()
}

// eventLoop drains mpv events and translates them into handler calls.
func (b *MPVBackend) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e := b.m.WaitEvent(1)
		if e == nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		switch e.Event_Id {
		case mpv.EVENT_FILE_LOADED:
			b.mu.Lock()
			b.loaded = true
			token := b.token
			b.mu.Unlock()

			duration := 0.0
			if dur, err := b.m.GetProperty("duration", mpv.FORMAT_DOUBLE); err == nil {
				duration, _ = dur.(float64)
			}
			b.handler.HandleLoaded(token, duration)
			b.handler.HandlePlaying(token)

		case mpv.EVENT_END_FILE:
			b.mu.Lock()
			if b.skipEnd > 0 {
				b.skipEnd--
				b.mu.Unlock()
				continue
			}
			token := b.token
			loaded := b.loaded
			b.active = false
			b.loaded = false
			b.mu.Unlock()

			if !loaded {
				b.handler.HandleError(token, ErrorNetwork, "stream ended before it finished loading")
			} else {
				b.handler.HandleEnded(token)
			}

		case mpv.EVENT_SHUTDOWN:
			return
		}
	}
}

// positionLoop polls time-pos once a second while a stream is playing.
// mpv has no push-style time event, so this is where time updates originate.
func (b *MPVBackend) positionLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.mu.Lock()
			ready := b.active && b.loaded && !b.paused
			token := b.token
			b.mu.Unlock()
			if !ready {
				continue
			}
			pos, err := b.m.GetProperty("time-pos", mpv.FORMAT_DOUBLE)
			if err != nil {
				continue
			}
			if p, ok := pos.(float64); ok && p >= 0 {
				b.handler.HandlePosition(token, p)
			}
		}
	}
}
