package player

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tunetui/tunetui/domain"
	"github.com/tunetui/tunetui/media"
	"github.com/tunetui/tunetui/wakelock"
)

type fakeResolver struct{}

func (fakeResolver) StreamURL(videoID string) string {
	return "http://localhost:8080/api/stream/" + videoID
}

// fakeBackend records calls and lets tests drive events by hand.
type fakeBackend struct {
	startErr   error
	rateErr    error
	lastURL    string
	lastToken  uint64
	stops      int
	pauses     int
	resumes    int
	seeks      []float64
	volumes    []float64
	rates      []float64
	snapshotOK bool
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Start(url string, token uint64) error {
	if b.startErr != nil {
		return b.startErr
	}
	b.lastURL = url
	b.lastToken = token
	return nil
}

func (b *fakeBackend) Pause() error  { b.pauses++; return nil }
func (b *fakeBackend) Resume() error { b.resumes++; return nil }
func (b *fakeBackend) Stop() error   { b.stops++; return nil }

func (b *fakeBackend) Seek(seconds float64) error {
	b.seeks = append(b.seeks, seconds)
	return nil
}

func (b *fakeBackend) SetVolume(v float64) error {
	b.volumes = append(b.volumes, v)
	return nil
}

func (b *fakeBackend) SetRate(r float64) error {
	if b.rateErr != nil {
		return b.rateErr
	}
	b.rates = append(b.rates, r)
	return nil
}

func (b *fakeBackend) Snapshot() (float64, float64, bool) {
	return 0, 0, b.snapshotOK
}

func (b *fakeBackend) Close() {}

func newTestAdapter() (*Adapter, *fakeBackend) {
	a := NewAdapter(fakeResolver{}, media.NewNoopSession(), wakelock.New(zerolog.Nop()), zerolog.Nop())
	b := &fakeBackend{}
	a.AttachBackend(b)
	return a, b
}

func testSong(id string) domain.Song {
	return domain.Song{
		Name:     "Song " + id,
		Artist:   "Artist",
		VideoID:  id,
		Duration: "3:00",
	}
}

func TestPlayGoesThroughLoadingToPlaying(t *testing.T) {
	a, b := newTestAdapter()

	played := 0
	var loadedDuration float64
	a.OnPlay(func() { played++ })
	a.OnLoaded(func(d float64) { loadedDuration = d })

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if a.State() != StateLoading {
		t.Errorf("Expected loading after Play, got %s", a.State())
	}
	if b.lastURL != "http://localhost:8080/api/stream/v1" {
		t.Errorf("Unexpected stream URL %s", b.lastURL)
	}

	a.HandleLoaded(b.lastToken, 185)
	a.HandlePlaying(b.lastToken)

	if a.State() != StatePlaying {
		t.Errorf("Expected playing, got %s", a.State())
	}
	if played != 1 {
		t.Errorf("Expected exactly one play callback, got %d", played)
	}
	if loadedDuration != 185 {
		t.Errorf("Expected loaded duration 185, got %f", loadedDuration)
	}
}

func TestPlaySupersedesPreviousLoad(t *testing.T) {
	a, b := newTestAdapter()

	errors := 0
	loads := 0
	a.OnError(func(*PlaybackError) { errors++ })
	a.OnLoaded(func(float64) { loads++ })

	if err := a.Play(testSong("old")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	oldToken := b.lastToken
	if err := a.Play(testSong("new")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	// Late events from the superseded load must be dropped.
	a.HandleLoaded(oldToken, 120)
	a.HandleError(oldToken, ErrorNetwork, "stream reset")

	if loads != 0 {
		t.Errorf("Expected stale loaded event to be dropped, got %d callbacks", loads)
	}
	if errors != 0 {
		t.Errorf("Expected stale error event to be dropped, got %d callbacks", errors)
	}
	if song := a.CurrentSong(); song == nil || song.VideoID != "new" {
		t.Errorf("Expected the newer song to stay current, got %v", song)
	}
	if a.State() != StateLoading {
		t.Errorf("Expected the newer load to remain in flight, got %s", a.State())
	}
}

func TestStopClearsEverything(t *testing.T) {
	a, b := newTestAdapter()

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	a.HandleLoaded(b.lastToken, 180)
	a.HandlePlaying(b.lastToken)
	a.HandlePosition(b.lastToken, 42)

	a.Stop()

	if a.State() != StateStopped {
		t.Errorf("Expected stopped, got %s", a.State())
	}
	if a.CurrentSong() != nil {
		t.Error("Expected no current song after Stop")
	}
	if b.stops != 1 {
		t.Errorf("Expected one backend stop, got %d", b.stops)
	}
	a.mu.Lock()
	pos := a.position
	a.mu.Unlock()
	if pos != 0 {
		t.Errorf("Expected position reset to 0, got %f", pos)
	}
}

func TestStopWithoutSongSkipsBackend(t *testing.T) {
	a, b := newTestAdapter()
	a.Stop()
	if b.stops != 0 {
		t.Errorf("Expected no backend stop when idle, got %d", b.stops)
	}
}

func TestPauseResumeOnlyWhenActive(t *testing.T) {
	a, b := newTestAdapter()

	a.Pause()
	a.Resume()
	if b.pauses != 0 || b.resumes != 0 {
		t.Errorf("Expected pause/resume to be no-ops while stopped, got %d/%d", b.pauses, b.resumes)
	}

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	a.HandleLoaded(b.lastToken, 180)
	a.HandlePlaying(b.lastToken)

	a.Pause()
	if b.pauses != 1 {
		t.Errorf("Expected one backend pause, got %d", b.pauses)
	}
	a.HandlePaused(b.lastToken)
	if a.State() != StatePaused {
		t.Errorf("Expected paused, got %s", a.State())
	}

	a.Resume()
	if b.resumes != 1 {
		t.Errorf("Expected one backend resume, got %d", b.resumes)
	}
}

func TestEndedResetsState(t *testing.T) {
	a, b := newTestAdapter()

	ended := 0
	a.OnEnded(func() { ended++ })

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	a.HandleLoaded(b.lastToken, 180)
	a.HandlePlaying(b.lastToken)
	a.HandleEnded(b.lastToken)

	if ended != 1 {
		t.Errorf("Expected one ended callback, got %d", ended)
	}
	if a.State() != StateStopped || a.CurrentSong() != nil {
		t.Errorf("Expected stopped and empty after end, got %s / %v", a.State(), a.CurrentSong())
	}

	// A duplicate end from the backend must not fire again.
	a.HandleEnded(b.lastToken)
	if ended != 1 {
		t.Errorf("Expected duplicate end to be ignored, got %d callbacks", ended)
	}
}

func TestErrorFiresOnceAndResets(t *testing.T) {
	a, b := newTestAdapter()

	var got []*PlaybackError
	a.OnError(func(e *PlaybackError) { got = append(got, e) })

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	a.HandleError(b.lastToken, ErrorDecode, "bad frame")
	a.HandleError(b.lastToken, ErrorDecode, "bad frame")

	if len(got) != 1 {
		t.Fatalf("Expected exactly one error callback, got %d", len(got))
	}
	if got[0].Code != ErrorDecode {
		t.Errorf("Expected decode error, got %s", got[0].Code)
	}
	if a.CurrentSong() != nil || a.State() != StateStopped {
		t.Errorf("Expected error to clear the current song, got %s / %v", a.State(), a.CurrentSong())
	}
}

func TestPlayStartFailure(t *testing.T) {
	a, b := newTestAdapter()
	b.startErr = fmt.Errorf("no audio device")

	errors := 0
	a.OnError(func(*PlaybackError) { errors++ })

	if err := a.Play(testSong("v1")); err == nil {
		t.Fatal("Expected Play to fail")
	}
	if errors != 1 {
		t.Errorf("Expected one error callback, got %d", errors)
	}
	if a.State() != StateStopped || a.CurrentSong() != nil {
		t.Errorf("Expected adapter reset after start failure, got %s / %v", a.State(), a.CurrentSong())
	}
}

func TestVolumeClamped(t *testing.T) {
	a, b := newTestAdapter()

	a.SetVolume(-0.5)
	if a.Volume() != 0 {
		t.Errorf("Expected volume clamped to 0, got %f", a.Volume())
	}
	a.SetVolume(5)
	if a.Volume() != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", a.Volume())
	}
	if len(b.volumes) != 2 || b.volumes[0] != 0 || b.volumes[1] != 1 {
		t.Errorf("Expected clamped values forwarded to backend, got %v", b.volumes)
	}
}

func TestRateClampedAndUnsupportedIgnored(t *testing.T) {
	a, _ := newTestAdapter()

	a.SetPlaybackRate(0.1)
	if a.PlaybackRate() != 0.25 {
		t.Errorf("Expected rate clamped to 0.25, got %f", a.PlaybackRate())
	}
	a.SetPlaybackRate(10)
	if a.PlaybackRate() != 2 {
		t.Errorf("Expected rate clamped to 2, got %f", a.PlaybackRate())
	}

	// A backend without rate control must not surface an error.
	a2, b2 := newTestAdapter()
	b2.rateErr = ErrRateUnsupported
	a2.SetPlaybackRate(1.5)
	if a2.PlaybackRate() != 1.5 {
		t.Errorf("Expected requested rate recorded even when unsupported, got %f", a2.PlaybackRate())
	}
}

func TestSeekClampedAndGuarded(t *testing.T) {
	a, b := newTestAdapter()

	// Nothing loaded: no backend call.
	a.Seek(30)
	if len(b.seeks) != 0 {
		t.Errorf("Expected seek to be a no-op while stopped, got %v", b.seeks)
	}

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	// Still loading: position jumps wait until the stream is ready.
	a.Seek(30)
	if len(b.seeks) != 0 {
		t.Errorf("Expected seek to be a no-op while loading, got %v", b.seeks)
	}

	a.HandleLoaded(b.lastToken, 180)
	a.HandlePlaying(b.lastToken)

	a.Seek(500)
	a.Seek(-10)
	if len(b.seeks) != 2 || b.seeks[0] != 180 || b.seeks[1] != 0 {
		t.Errorf("Expected seeks clamped to [0, duration], got %v", b.seeks)
	}
}

func TestPositionEventsClampedToDuration(t *testing.T) {
	a, b := newTestAdapter()

	var positions []float64
	a.OnTimeUpdate(func(p float64) { positions = append(positions, p) })

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	a.HandleLoaded(b.lastToken, 180)
	a.HandlePlaying(b.lastToken)

	a.HandlePosition(b.lastToken, 90)
	a.HandlePosition(b.lastToken, 900)

	if len(positions) != 2 || positions[0] != 90 || positions[1] != 180 {
		t.Errorf("Expected positions clamped to duration, got %v", positions)
	}
}

func TestMediaCommandsDispatch(t *testing.T) {
	a, b := newTestAdapter()

	if err := a.Play(testSong("v1")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	a.HandleLoaded(b.lastToken, 180)
	a.HandlePlaying(b.lastToken)

	a.OnMediaCommand(media.CmdPause, 0)
	if b.pauses != 1 {
		t.Errorf("Expected media pause to reach backend, got %d", b.pauses)
	}
	a.HandlePaused(b.lastToken)

	a.OnMediaCommand(media.CmdPlayPause, 0)
	if b.resumes != 1 {
		t.Errorf("Expected play/pause to resume while paused, got %d", b.resumes)
	}
	a.HandlePlaying(b.lastToken)

	a.OnMediaCommand(media.CmdSeekTo, 60)
	if len(b.seeks) != 1 || b.seeks[0] != 60 {
		t.Errorf("Expected media seek at 60, got %v", b.seeks)
	}

	a.OnMediaCommand(media.CmdStop, 0)
	if b.stops != 1 {
		t.Errorf("Expected media stop to reach backend, got %d", b.stops)
	}
}
