package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tunetui/tunetui/api"
	"github.com/tunetui/tunetui/config"
	"github.com/tunetui/tunetui/controller"
	"github.com/tunetui/tunetui/logging"
	"github.com/tunetui/tunetui/media"
	"github.com/tunetui/tunetui/player"
	"github.com/tunetui/tunetui/ui"
	"github.com/tunetui/tunetui/wakelock"
)

const appName = "tunetui"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.Server.URL, cfg.Server.GetHTTPTimeout(), logger)

	var session media.Session
	if mpris, err := media.NewMPRISSession(appName, logger); err != nil {
		logger.Warn().Err(err).Msg("mpris unavailable, media keys disabled")
		session = media.NewNoopSession()
	} else {
		session = mpris
	}

	adapter := player.NewAdapter(client, session, wakelock.New(logger), logger)

	backend, err := player.SelectBackend(ctx, cfg.Player.Backend, adapter, logger)
	if err != nil {
		return err
	}
	adapter.AttachBackend(backend)
	adapter.SetVolume(cfg.Player.Volume)
	defer adapter.Close()

	watchdog := player.NewWatchdog(adapter, 3*time.Second, 10*time.Second, logger)
	go watchdog.Run(ctx)

	ctrl := controller.New(client, adapter, cfg.UI.SearchLimit, logger)

	app := ui.NewApp(ctx, cfg, ctrl, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			app.Stop()
		case <-ctx.Done():
		}
	}()

	logger.Info().Str("server", cfg.Server.URL).Str("backend", backend.Name()).Msg("starting")
	return app.Run()
}
