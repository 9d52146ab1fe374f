package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestKeyBindingManagerSingleRune(t *testing.T) {
	km := NewKeyBindingManager()

	handledSpace := false
	km.RegisterKeyBinding(
		KeyAction{
			name:    "toggle",
			handler: func() { handledSpace = true },
		},
		[]tcell.Key{},
		[]rune{' '},
	)

	event := tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)
	if !km.HandleKey(event) {
		t.Errorf("Expected space key to be handled")
	}
	if !handledSpace {
		t.Errorf("Expected handler to be called")
	}
}

func TestKeyBindingManagerSequence(t *testing.T) {
	km := NewKeyBindingManager()

	goStartCalled := false
	km.RegisterSequence("gg", KeyAction{
		name:    "goStart",
		handler: func() { goStartCalled = true },
	})

	// First 'g' is held as a pending sequence.
	event1 := tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone)
	if !km.HandleKey(event1) {
		t.Errorf("Expected first 'g' to be consumed")
	}
	if goStartCalled {
		t.Errorf("Handler should not be called yet")
	}

	// Second 'g' completes the sequence.
	event2 := tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone)
	if !km.HandleKey(event2) {
		t.Errorf("Expected 'gg' sequence to be handled")
	}
	if !goStartCalled {
		t.Errorf("Expected handler to be called for 'gg'")
	}
}

func TestKeyBindingManagerSequenceFallthrough(t *testing.T) {
	km := NewKeyBindingManager()

	km.RegisterSequence("gg", KeyAction{name: "goStart", handler: func() {}})

	handleOtherCalled := false
	km.RegisterKeyBinding(
		KeyAction{
			name:    "other",
			handler: func() { handleOtherCalled = true },
		},
		[]tcell.Key{},
		[]rune{'h'},
	)

	// 'g' then 'h' is not a sequence; 'h' still fires its own binding.
	km.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	if !km.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone)) {
		t.Errorf("Expected 'h' to be handled")
	}
	if !handleOtherCalled {
		t.Errorf("Expected 'h' handler to be called")
	}
}

func TestKeyBindingManagerSpecialKeys(t *testing.T) {
	km := NewKeyBindingManager()

	seeked := false
	km.RegisterKeyBinding(
		KeyAction{
			name:    "seekForward",
			handler: func() { seeked = true },
		},
		[]tcell.Key{tcell.KeyRight},
		[]rune{},
	)

	event := tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)
	if !km.HandleKey(event) {
		t.Errorf("Expected right arrow to be handled")
	}
	if !seeked {
		t.Errorf("Expected seek handler to be called")
	}

	// A special key cancels any pending sequence.
	km.RegisterSequence("gg", KeyAction{name: "goStart", handler: func() {}})
	km.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	km.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if km.pending != "" {
		t.Errorf("Expected pending sequence to be reset, got %q", km.pending)
	}
}
