package player

import (
	"context"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/rs/zerolog"
)

const speakerBufferSize = 200 * time.Millisecond

// BeepBackend plays streams through an in-process decoder chain when no
// libmpv is wanted. The stream is fetched into a temp file first so the
// decoder has a seekable source; rate control is not supported here.
type BeepBackend struct {
	handler          EventHandler
	httpClient       *http.Client
	log              zerolog.Logger
	positionInterval time.Duration

	// token is atomic: the end-of-stream callback runs inside the speaker
	// mixer's lock and must not take mu.
	token atomic.Uint64

	mu          sync.Mutex
	cancelLoad  context.CancelFunc
	streamer    beep.StreamSeekCloser
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	format      beep.Format
	tmpPath     string
	volumeLevel float64
	speakerRate beep.SampleRate
	speakerInit bool
}

// NewBeepBackend creates the beep backend and starts its position ticker.
func NewBeepBackend(ctx context.Context, handler EventHandler, log zerolog.Logger) (*BeepBackend, error) {
	b := &BeepBackend{
		handler: handler,
		httpClient: &http.Client{
			// Streams are fetched whole; the transport timeout would cut
			// long songs off, so rely on context cancellation instead.
			Timeout: 0,
		},
		log:              log,
		volumeLevel:      1.0,
		positionInterval: time.Second,
	}
	go b.positionLoop(ctx)
	return b, nil
}

func (b *BeepBackend) Name() string { return "beep" }

func (b *BeepBackend) Start(url string, token uint64) error {
	b.mu.Lock()
	b.teardownLocked()
	b.token.Store(token)
	ctx, cancel := context.WithCancel(context.Background())
	b.cancelLoad = cancel
	b.mu.Unlock()

	go b.load(ctx, url, token)
	return nil
}

// load fetches the stream to a temp file, decodes it and hands it to the
// speaker. Runs off the caller's goroutine; all outcomes are delivered
// through the event handler with the capturing token.
func (b *BeepBackend) load(ctx context.Context, url string, token uint64) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		b.fail(token, ErrorNetwork, err.Error())
		return
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return // superseded, stay quiet
		}
		b.fail(token, ErrorNetwork, err.Error())
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.fail(token, ErrorNetwork, "stream request failed with status "+resp.Status)
		return
	}

	tmp, err := os.CreateTemp("", "tunetui-*.mp3")
	if err != nil {
		b.fail(token, ErrorBackend, err.Error())
		return
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		if ctx.Err() != nil {
			return
		}
		b.fail(token, ErrorNetwork, err.Error())
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		b.fail(token, ErrorBackend, err.Error())
		return
	}

	streamer, format, err := mp3.Decode(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		b.fail(token, ErrorDecode, err.Error())
		return
	}

	b.mu.Lock()
	if token != b.token.Load() {
		// A newer Start superseded this load while it was downloading.
		b.mu.Unlock()
		streamer.Close()
		os.Remove(tmp.Name())
		return
	}

	if !b.speakerInit || b.speakerRate != format.SampleRate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferSize)); err != nil {
			b.mu.Unlock()
			streamer.Close()
			os.Remove(tmp.Name())
			b.fail(token, ErrorBackend, err.Error())
			return
		}
		b.speakerRate = format.SampleRate
		b.speakerInit = true
	}

	ctrl := &beep.Ctrl{Streamer: streamer}
	volume := &effects.Volume{
		Streamer: ctrl,
		Base:     2,
		Volume:   levelToVolume(b.volumeLevel),
		Silent:   b.volumeLevel == 0,
	}
	b.streamer = streamer
	b.ctrl = ctrl
	b.volume = volume
	b.format = format
	b.tmpPath = tmp.Name()
	duration := format.SampleRate.D(streamer.Len()).Seconds()
	b.mu.Unlock()

	b.handler.HandleLoaded(token, duration)

	speaker.Play(beep.Seq(volume, beep.Callback(func() {
		// Runs inside the speaker mixer; only the atomic token may be read
		// here, and the handler must not reach back into the speaker.
		if token == b.token.Load() {
			b.handler.HandleEnded(token)
		}
	})))

	b.handler.HandlePlaying(token)
	b.log.Debug().Str("tmp", tmp.Name()).Float64("duration", duration).Msg("beep stream started")
}

func (b *BeepBackend) fail(token uint64, code ErrorCode, message string) {
	if token != b.token.Load() {
		return
	}
	b.handler.HandleError(token, code, message)
}

func (b *BeepBackend) Pause() error {
	b.mu.Lock()
	ctrl := b.ctrl
	token := b.token.Load()
	b.mu.Unlock()
	if ctrl == nil {
		return nil
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
	b.handler.HandlePaused(token)
	return nil
}

func (b *BeepBackend) Resume() error {
	b.mu.Lock()
	ctrl := b.ctrl
	token := b.token.Load()
	b.mu.Unlock()
	if ctrl == nil {
		return nil
	}
	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
	b.handler.HandlePlaying(token)
	return nil
}

func (b *BeepBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teardownLocked()
	return nil
}

// teardownLocked cancels any in-flight load and releases the active
// stream's resources. Caller holds b.mu.
func (b *BeepBackend) teardownLocked() {
	if b.cancelLoad != nil {
		b.cancelLoad()
		b.cancelLoad = nil
	}
	if b.ctrl != nil {
		speaker.Clear()
	}
	if b.streamer != nil {
		b.streamer.Close()
		b.streamer = nil
	}
	if b.tmpPath != "" {
		os.Remove(b.tmpPath)
		b.tmpPath = ""
	}
	b.ctrl = nil
	b.volume = nil
}

func (b *BeepBackend) Seek(seconds float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return nil
	}
	n := b.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if max := b.streamer.Len() - 1; n > max {
		n = max
	}
	// After the upper clamp: an empty stream has Len()-1 == -1.
	if n < 0 {
		n = 0
	}
	speaker.Lock()
	err := b.streamer.Seek(n)
	speaker.Unlock()
	return err
}

func (b *BeepBackend) SetVolume(v float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volumeLevel = v
	if b.volume == nil {
		return nil
	}
	speaker.Lock()
	b.volume.Volume = levelToVolume(v)
	b.volume.Silent = v == 0
	speaker.Unlock()
	return nil
}

// SetRate is unsupported: the decoder chain has no resampler, so rate
// changes are silently ignored by the adapter.
func (b *BeepBackend) SetRate(r float64) error {
	return ErrRateUnsupported
}

func (b *BeepBackend) Snapshot() (position, duration float64, playing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0, 0, false
	}
	speaker.Lock()
	position = b.format.SampleRate.D(b.streamer.Position()).Seconds()
	duration = b.format.SampleRate.D(b.streamer.Len()).Seconds()
	paused := b.ctrl != nil && b.ctrl.Paused
	speaker.Unlock()
	return position, duration, !paused
}

func (b *BeepBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teardownLocked()
}

func (b *BeepBackend) positionLoop(ctx context.Context) {
	ticker := time.NewTicker(b.positionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.mu.Lock()
			ready := b.streamer != nil && b.ctrl != nil
			token := b.token.Load()
			var pos float64
			paused := false
			if ready {
				// ctrl.Paused belongs to the mixer; read it under the
				// speaker lock like Pause/Resume write it.
				speaker.Lock()
				paused = b.ctrl.Paused
				pos = b.format.SampleRate.D(b.streamer.Position()).Seconds()
				speaker.Unlock()
			}
			b.mu.Unlock()
			if ready && !paused {
				b.handler.HandlePosition(token, pos)
			}
		}
	}
}

// levelToVolume maps a 0..1 level onto beep's logarithmic volume scale,
// where 0 is unity gain.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
