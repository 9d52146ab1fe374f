package player

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SelectBackend builds the audio backend named in configuration. "auto"
// prefers libmpv and falls back to the pure-Go decoder when mpv is not
// available on the host.
func SelectBackend(ctx context.Context, name string, handler EventHandler, log zerolog.Logger) (Backend, error) {
	switch name {
	case "mpv":
		return NewMPVBackend(ctx, handler, log)
	case "beep":
		return NewBeepBackend(ctx, handler, log)
	case "auto", "":
		backend, err := NewMPVBackend(ctx, handler, log)
		if err == nil {
			return backend, nil
		}
		log.Warn().Err(err).Msg("mpv backend unavailable, falling back to beep")
		return NewBeepBackend(ctx, handler, log)
	default:
		return nil, errors.Errorf("unknown audio backend %q", name)
	}
}
