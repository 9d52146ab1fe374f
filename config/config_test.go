package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Server.URL != defaults.Server.URL {
		t.Errorf("Expected server URL %s, got %s", defaults.Server.URL, cfg.Server.URL)
	}
	if cfg.Player.Backend != "auto" {
		t.Errorf("Expected backend auto, got %s", cfg.Player.Backend)
	}
	if cfg.Player.Volume != 1.0 {
		t.Errorf("Expected volume 1.0, got %v", cfg.Player.Volume)
	}
	if cfg.Server.HTTPTimeout != 15 {
		t.Errorf("Expected http timeout 15, got %d", cfg.Server.HTTPTimeout)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	os.Setenv("TUNETUI_SERVER_URL", "http://music.example.com:9000")
	os.Setenv("TUNETUI_PLAYER_BACKEND", "beep")
	defer func() {
		os.Unsetenv("TUNETUI_SERVER_URL")
		os.Unsetenv("TUNETUI_PLAYER_BACKEND")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.URL != "http://music.example.com:9000" {
		t.Errorf("Expected env server URL, got %s", cfg.Server.URL)
	}
	if cfg.Player.Backend != "beep" {
		t.Errorf("Expected env backend beep, got %s", cfg.Player.Backend)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Server.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected empty server URL to fail validation")
	}

	cfg = DefaultConfig()
	cfg.Player.Backend = "vlc"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected unknown backend to fail validation")
	}

	cfg = DefaultConfig()
	cfg.Player.Volume = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("Expected out-of-range volume to fail validation")
	}
}
