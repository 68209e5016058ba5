// Package input turns frontend events into loop input
package input

import (
	"github.com/lixenwraith/twister/engine"
	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/terminal"
)

// Adapter normalizes raw terminal events
// Starts latched: key presses toggle until the terminal proves it reports releases
type Adapter struct {
	latched bool
}

// NewAdapter creates an adapter in latched mode
func NewAdapter() *Adapter {
	return &Adapter{latched: true}
}

// SetLatched forces the mode
func (a *Adapter) SetLatched(latched bool) { a.latched = latched }

// Latched reports whether presses are translated as toggles
func (a *Adapter) Latched() bool { return a.latched }

// Process translates one terminal event, false when it carries nothing for the game
func (a *Adapter) Process(ev terminal.Event) (engine.Input, bool) {
	switch ev.Type {
	case terminal.EventResize:
		return engine.Input{Kind: engine.InputResize, Width: ev.Width, Height: ev.Height}, true
	case terminal.EventClosed, terminal.EventError:
		return engine.Input{Kind: engine.InputQuit}, true
	case terminal.EventKeyboardFlags:
		a.latched = ev.Flags&terminal.KeyboardEventTypes == 0
		return engine.Input{}, false
	case terminal.EventKey:
		return a.processKey(ev)
	}
	return engine.Input{}, false
}

func (a *Adapter) processKey(ev terminal.Event) (engine.Input, bool) {
	if ev.Action == terminal.ActionRelease && a.latched {
		// A release on the wire proves the terminal reports them
		a.latched = false
	}
	if ev.Action == terminal.ActionRepeat {
		return engine.Input{}, false
	}

	if in, ok := control(ev.Key, ev.Action == terminal.ActionPress); ok {
		return in, true
	}
	if ev.Key == terminal.KeyEscape || ev.Key == terminal.KeyCtrlC || ev.Key == terminal.KeyEnter {
		return engine.Input{}, false
	}

	var k keyboard.Key
	if ev.Key == terminal.KeyRune {
		// Keys outside the alphabet stay None; they only serve as a starting input
		k, _ = keyboard.Normalize(ev.Rune)
	}

	if a.latched {
		return engine.Input{Kind: engine.InputToggle, Key: game.KeyEvent{Key: k}}, true
	}

	action := game.KeyDown
	if ev.Action == terminal.ActionRelease {
		action = game.KeyUp
	}
	return engine.Input{Kind: engine.InputKey, Key: game.KeyEvent{Action: action, Key: k}}, true
}

// control maps quit and restart keys; only presses act
func control(k terminal.Key, press bool) (engine.Input, bool) {
	if !press {
		return engine.Input{}, false
	}
	switch k {
	case terminal.KeyEscape, terminal.KeyCtrlC:
		return engine.Input{Kind: engine.InputQuit}, true
	case terminal.KeyEnter:
		return engine.Input{Kind: engine.InputRestart}, true
	}
	return engine.Input{}, false
}
