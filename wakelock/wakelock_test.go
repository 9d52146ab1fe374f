package wakelock

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestInhibitCommandLinux(t *testing.T) {
	name, args := inhibitCommand("linux")
	if name != "systemd-inhibit" {
		t.Errorf("Expected systemd-inhibit on linux, got %s", name)
	}
	if len(args) == 0 || args[len(args)-1] != "infinity" {
		t.Errorf("Expected inhibitor to hold a sleep infinity child, got %v", args)
	}
}

func TestInhibitCommandDarwin(t *testing.T) {
	name, args := inhibitCommand("darwin")
	if name != "caffeinate" {
		t.Errorf("Expected caffeinate on darwin, got %s", name)
	}
	if len(args) != 1 || args[0] != "-di" {
		t.Errorf("Expected caffeinate -di, got %v", args)
	}
}

func TestInhibitCommandUnknownPlatform(t *testing.T) {
	name, _ := inhibitCommand("windows")
	if name != "" {
		t.Errorf("Expected no inhibitor on windows, got %s", name)
	}
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := New(zerolog.Nop())
	// Must not panic.
	l.Release()
	l.Release()
}
