package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/twister/engine"
	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/keyboard"
)

// FromTcell translates a tcell event
// tcell reports presses only, so every game key becomes a toggle
func FromTcell(ev tcell.Event) (engine.Input, bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		return engine.Input{Kind: engine.InputResize, Width: w, Height: h}, true
	case *tcell.EventKey:
		return tcellKey(ev.Key(), ev.Rune())
	}
	return engine.Input{}, false
}

func tcellKey(k tcell.Key, r rune) (engine.Input, bool) {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return engine.Input{Kind: engine.InputQuit}, true
	case tcell.KeyEnter:
		return engine.Input{Kind: engine.InputRestart}, true
	}

	var key keyboard.Key
	if k == tcell.KeyRune {
		key, _ = keyboard.Normalize(r)
	}
	return engine.Input{Kind: engine.InputToggle, Key: game.KeyEvent{Key: key}}, true
}
