// Package wakelock keeps the machine from sleeping while audio plays by
// holding a platform inhibitor process for the duration of playback.
package wakelock

import (
	"os/exec"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// Lock holds a sleep inhibitor while acquired. Acquire and Release are
// idempotent; on platforms without a known inhibitor every call is a no-op.
type Lock struct {
	mu  sync.Mutex
	cmd *exec.Cmd
	log zerolog.Logger
}

func New(log zerolog.Logger) *Lock {
	return &Lock{log: log}
}

// Acquire starts the inhibitor process if one is not already running.
// Failure to inhibit is logged and otherwise ignored; playback must not
// depend on it.
func (l *Lock) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd != nil {
		return
	}

	name, args := inhibitCommand(runtime.GOOS)
	if name == "" {
		return
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		l.log.Debug().Str("command", name).Err(err).Msg("sleep inhibitor unavailable")
		return
	}
	l.cmd = cmd
	l.log.Debug().Str("command", name).Int("pid", cmd.Process.Pid).Msg("sleep inhibitor acquired")
}

// Release stops the inhibitor process if one is running.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil {
		return
	}

	if err := l.cmd.Process.Kill(); err != nil {
		l.log.Debug().Err(err).Msg("killing sleep inhibitor failed")
	}
	// Reap the process so it does not linger as a zombie.
	_ = l.cmd.Wait()
	l.cmd = nil
	l.log.Debug().Msg("sleep inhibitor released")
}

// inhibitCommand returns the inhibitor command line for the platform, or an
// empty name when there is none.
func inhibitCommand(goos string) (string, []string) {
	switch goos {
	case "linux":
		return "systemd-inhibit", []string{
			"--what=idle:sleep",
			"--who=tunetui",
			"--why=audio playback",
			"--mode=block",
			"sleep", "infinity",
		}
	case "darwin":
		return "caffeinate", []string{"-di"}
	default:
		return "", nil
	}
}
