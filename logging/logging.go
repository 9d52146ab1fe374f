// Package logging sets up the application logger. The TUI owns the
// terminal, so logs always go to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tunetui/tunetui/config"
)

// Setup opens the log file and returns a configured logger plus a closer
// for the underlying file.
func Setup(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		path = defaultLogPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, file, nil
}

func defaultLogPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tunetui.log")
	}
	return filepath.Join(configDir, "tunetui", "tunetui.log")
}
