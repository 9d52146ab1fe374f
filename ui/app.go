// Package ui is the tview terminal frontend. It renders from controller
// snapshots and never touches the playback backends directly.
package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/tunetui/tunetui/config"
	"github.com/tunetui/tunetui/controller"
	"github.com/tunetui/tunetui/coverart"
	"github.com/tunetui/tunetui/domain"
	"github.com/tunetui/tunetui/player"
)

// App represents the TUI application
type App struct {
	tviewApp   *tview.Application
	cfg        *config.Config
	controller *controller.Controller
	cover      *coverart.Renderer
	log        zerolog.Logger
	ctx        context.Context

	rootFlex   *tview.Flex
	searchView *SearchView
	statusBar  *tview.TextView
	helpView   *HelpView
	keys       *KeyBindingManager

	covers coverCache
}

// NewApp creates a new TUI application with dependency injection
func NewApp(ctx context.Context, cfg *config.Config, ctrl *controller.Controller, log zerolog.Logger) *App {
	return &App{
		tviewApp:   tview.NewApplication(),
		cfg:        cfg,
		controller: ctrl,
		cover:      coverart.NewRenderer(25, 12),
		log:        log,
		ctx:        ctx,
	}
}

// Run starts the application
func (a *App) Run() error {
	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	a.statusBar.SetBorder(true).SetTitle(" Now Playing ")

	a.searchView = NewSearchView(a)
	a.helpView = NewHelpView(a)

	a.rootFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.searchView.GetContainer(), 0, 1, true).
		AddItem(a.statusBar, 8, 0, false)

	a.statusBar.SetText(CreateWelcomeMessage(a.cfg.Server.URL, true))

	a.registerKeyBindings()
	a.tviewApp.SetInputCapture(a.handleGlobalKey)

	a.controller.OnChange(a.handleStateChange)
	a.controller.OnError(a.handlePlaybackError)

	go a.checkServerHealth()

	a.tviewApp.SetRoot(a.rootFlex, true)
	a.tviewApp.SetFocus(a.searchView.inputField)

	a.log.Info().Msg("starting ui")
	return a.tviewApp.Run()
}

// Stop stops the application
func (a *App) Stop() {
	if a.tviewApp != nil {
		a.tviewApp.Stop()
	}
}

// checkServerHealth probes the catalog server once at startup.
func (a *App) checkServerHealth() {
	healthy := a.controller.CheckHealth(a.ctx)
	if healthy {
		return
	}
	a.log.Warn().Str("url", a.cfg.Server.URL).Msg("server health check failed")
	a.tviewApp.QueueUpdateDraw(func() {
		a.statusBar.SetText(CreateWelcomeMessage(a.cfg.Server.URL, false))
	})
}

// handleStateChange renders a fresh snapshot. Called from playback
// goroutines, never from the UI event loop; controller operations issued by
// key handlers run on their own goroutines for that reason. The cover cache
// is only touched inside the queued closure, so the UI goroutine owns it.
func (a *App) handleStateChange(state domain.PlayerState) {
	a.tviewApp.QueueUpdateDraw(func() {
		a.maybeLoadCover(state.CurrentSong)
		a.renderStatus(state)
	})
}

// maybeLoadCover starts a cover fetch for the song unless the cache already
// holds or is loading it. Runs on the UI goroutine.
func (a *App) maybeLoadCover(song *domain.Song) {
	if song == nil || !a.covers.needsLoad(song.VideoID) {
		return
	}
	a.covers.beginLoad(song.VideoID)
	go a.loadCoverArt(*song)
}

func (a *App) handlePlaybackError(err *player.PlaybackError) {
	a.tviewApp.QueueUpdateDraw(func() {
		a.statusBar.SetText("[red]" + err.Error() + "\n\n[darkgray]Press / to search for another song.")
	})
}

func (a *App) renderStatus(state domain.PlayerState) {
	text := FormatNowPlaying(state, a.cfg.UI.ProgressBarWidth, a.controller.Volume(), a.controller.PlaybackRate())
	if state.CurrentSong == nil {
		a.statusBar.SetText(text)
		return
	}
	if art, ok := a.covers.get(state.CurrentSong.VideoID); ok {
		text = art + "\n" + text
	}
	a.statusBar.SetText(text)
}

// loadCoverArt fetches ASCII art for the song, then hands it to the UI
// goroutine, which stores it and re-renders.
func (a *App) loadCoverArt(song domain.Song) {
	ascii, err := a.cover.RenderSong(a.ctx, &song)
	if err != nil {
		a.log.Debug().Err(err).Str("song", song.DisplayTitle()).Msg("cover art unavailable")
	}
	a.tviewApp.QueueUpdateDraw(func() {
		a.covers.store(song.VideoID, ascii)
		state := a.controller.State()
		if state.CurrentSong != nil && state.CurrentSong.VideoID == song.VideoID {
			a.renderStatus(state)
		}
	})
}

func (a *App) registerKeyBindings() {
	a.keys = NewKeyBindingManager()

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "togglePlayPause",
		handler: func() { go a.controller.TogglePlayPause() },
	}, []tcell.Key{}, []rune{' '})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "stop",
		handler: func() { go a.controller.Stop() },
	}, []tcell.Key{}, []rune{'s'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "openSearch",
		handler: func() { a.searchView.Focus() },
	}, []tcell.Key{}, []rune{'/'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "volumeUp",
		handler: func() { go a.adjustVolume(0.05) },
	}, []tcell.Key{}, []rune{'+', '='})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "volumeDown",
		handler: func() { go a.adjustVolume(-0.05) },
	}, []tcell.Key{}, []rune{'-'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "rateUp",
		handler: func() { go a.adjustRate(0.25) },
	}, []tcell.Key{}, []rune{'>'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "rateDown",
		handler: func() { go a.adjustRate(-0.25) },
	}, []tcell.Key{}, []rune{'<'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "seekForward",
		handler: func() { go a.controller.SeekBy(5) },
	}, []tcell.Key{tcell.KeyRight}, []rune{})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "seekBack",
		handler: func() { go a.controller.SeekBy(-5) },
	}, []tcell.Key{tcell.KeyLeft}, []rune{})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "help",
		handler: func() { a.showHelp() },
	}, []tcell.Key{}, []rune{'?'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "quit",
		handler: func() { a.Stop() },
	}, []tcell.Key{}, []rune{'q'})

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "goEnd",
		handler: func() { a.searchView.SelectLast() },
	}, []tcell.Key{}, []rune{'G'})

	a.keys.RegisterSequence("gg", KeyAction{
		name:    "goStart",
		handler: func() { a.searchView.SelectFirst() },
	})
}

// handleGlobalKey runs before any widget sees the event. While the search
// input has focus only ESC and Tab are intercepted, so typing works.
func (a *App) handleGlobalKey(event *tcell.EventKey) *tcell.EventKey {
	if a.helpView.IsActive() {
		if event.Key() == tcell.KeyEscape || event.Rune() == '?' || event.Rune() == 'q' {
			a.helpView.Close()
			return nil
		}
		return event
	}

	if a.searchView.InputFocused() {
		switch event.Key() {
		case tcell.KeyEscape:
			a.searchView.Blur()
			return nil
		case tcell.KeyTab:
			a.searchView.FocusResults()
			return nil
		}
		return event
	}

	if event.Key() == tcell.KeyEscape {
		a.Stop()
		return nil
	}
	if a.keys.HandleKey(event) {
		return nil
	}
	return event
}

func (a *App) adjustVolume(delta float64) {
	v := a.controller.AdjustVolume(delta)
	a.log.Debug().Float64("volume", v).Msg("volume adjusted")
	a.refreshStatus()
}

func (a *App) adjustRate(delta float64) {
	r := a.controller.AdjustRate(delta)
	a.log.Debug().Float64("rate", r).Msg("rate adjusted")
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	state := a.controller.State()
	if state.CurrentSong == nil {
		return
	}
	a.tviewApp.QueueUpdateDraw(func() {
		a.renderStatus(state)
	})
}

func (a *App) showHelp() {
	a.helpView.Show()
}
