package ui

import (
	"github.com/gdamore/tcell/v2"
)

// KeyAction represents an action that can be triggered by keybindings
type KeyAction struct {
	name    string
	handler func()
}

// KeyBindingManager maps keys to actions and dispatches events. Multi-key
// sequences starting with 'g' (vim-style gg) are tracked via pending.
type KeyBindingManager struct {
	bindings  map[tcell.Key]KeyAction
	runeMap   map[rune]KeyAction
	sequences map[string]KeyAction
	pending   string
}

func NewKeyBindingManager() *KeyBindingManager {
	return &KeyBindingManager{
		bindings:  make(map[tcell.Key]KeyAction),
		runeMap:   make(map[rune]KeyAction),
		sequences: make(map[string]KeyAction),
	}
}

// RegisterKeyBinding registers an action for special keys and/or runes.
func (km *KeyBindingManager) RegisterKeyBinding(action KeyAction, keys []tcell.Key, runes []rune) {
	for _, key := range keys {
		km.bindings[key] = action
	}
	for _, r := range runes {
		km.runeMap[r] = action
	}
}

// RegisterSequence registers a two-rune sequence such as "gg". The first
// rune of a sequence is consumed as pending and must not also carry a
// single-rune binding.
func (km *KeyBindingManager) RegisterSequence(seq string, action KeyAction) {
	km.sequences[seq] = action
}

// HandleKey handles a keyboard event and returns true if it was consumed.
func (km *KeyBindingManager) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyRune {
		km.pending = ""
		if action, ok := km.bindings[event.Key()]; ok {
			action.handler()
			return true
		}
		return false
	}

	r := event.Rune()

	if km.pending != "" {
		seq := km.pending + string(r)
		km.pending = ""
		if action, ok := km.sequences[seq]; ok {
			action.handler()
			return true
		}
		// Not a sequence; fall through to a standalone binding.
		if action, ok := km.runeMap[r]; ok {
			action.handler()
			return true
		}
		return false
	}

	// A rune that starts any registered sequence is held as pending.
	for seq := range km.sequences {
		if rune(seq[0]) == r {
			km.pending = string(r)
			return true
		}
	}

	if action, ok := km.runeMap[r]; ok {
		action.handler()
		return true
	}
	return false
}

// ResetPending resets the pending key sequence.
func (km *KeyBindingManager) ResetPending() {
	km.pending = ""
}
