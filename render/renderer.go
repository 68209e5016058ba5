// Package render draws game snapshots onto a cell surface
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/parameter"
	"github.com/lixenwraith/twister/terminal"
)

// Layout rows, relative to the top of the screen
const (
	rowTitle       = 1
	rowHeader      = 3
	rowInstruction = 5
	rowTimer       = 6
	rowKeyboard    = 8
	rowPanel       = 17

	keyPitchX = 4 // Cells per layout unit horizontally
	keyPitchY = 2 // Screen rows per keyboard row
	keyWidth  = 3

	timerWidth = 40
)

// Renderer turns snapshots into frames
// Implements engine.FrameSink and engine.Resizer
type Renderer struct {
	surface Surface
	hint    string
	inPool  map[keyboard.Key]bool
}

// NewRenderer creates a renderer drawing on surface
func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

// SetHint sets an extra help line note, e.g. the latched key mode
func (r *Renderer) SetHint(hint string) { r.hint = hint }

// Resize repaints the whole surface on the next frame
func (r *Renderer) Resize(width, height int) {
	if s, ok := r.surface.(interface{ Sync() }); ok {
		s.Sync()
	}
}

// Frame draws one snapshot and presents it
func (r *Renderer) Frame(snap game.Snapshot) {
	r.Draw(snap)
	r.surface.Show()
}

// Draw composes the snapshot without presenting it
func (r *Renderer) Draw(snap game.Snapshot) {
	w, h := r.surface.Size()
	bg := background(snap)
	r.surface.Clear(bg)

	r.center(w, rowTitle, "T W I S T E R", RgbTitle, bg, terminal.AttrBold)
	r.drawHeader(w, snap, bg)
	r.drawInstruction(w, snap, bg)
	if snap.State == game.StatePressing || snap.State == game.StateReleasing {
		r.drawTimer(w, snap, bg)
	}
	r.drawKeyboard(w, snap, bg)
	r.drawPanel(w, snap, bg)
	r.drawHelp(w, h, bg)
}

// background tints toward red while a penalty flash is active
func background(snap game.Snapshot) RGB {
	if !flashActive(snap.LastPenalty, snap.Now) {
		return RgbBackground
	}
	fade := 1 - float64(snap.Now.Sub(snap.LastPenalty))/float64(parameter.FlashDuration)
	return Blend(RgbBackground, RgbFlash, fade)
}

func (r *Renderer) drawHeader(w int, snap game.Snapshot, bg RGB) {
	r.text(2, rowHeader, fmt.Sprintf("Score: %d", snap.Score), RgbText, bg, terminal.AttrBold)

	hearts := Hearts(snap.Lives, snap.MaxLives)
	x := w - 2 - utf8.RuneCountInString(hearts) - len("Lives ")
	x = r.text(x, rowHeader, "Lives ", RgbText, bg, 0)
	for i, h := range []rune(hearts) {
		fg := RgbHeart
		if i >= snap.Lives {
			fg = RgbHeartLost
		}
		r.surface.SetCell(x+i, rowHeader, h, fg, bg, 0)
	}
}

// Hearts renders remaining lives as filled hearts followed by lost ones
func Hearts(lives, maxLives int) string {
	if maxLives < lives {
		maxLives = lives
	}
	if lives < 0 {
		lives = 0
	}
	return strings.Repeat("♥", lives) + strings.Repeat("♡", maxLives-lives)
}

// Instruction returns the instruction line and its color
func Instruction(snap game.Snapshot) (string, RGB) {
	switch snap.State {
	case game.StateIdle:
		return parameter.MessageIdle, RgbText
	case game.StatePressing:
		return "Press & HOLD: " + snap.Target.String(), RgbPress
	case game.StateReleasing:
		return "RELEASE: " + snap.Target.String(), RgbRelease
	case game.StateGameOver:
		return "GAME OVER", RgbGameOver
	case game.StateWin:
		return "YOU WIN", RgbWin
	}
	return "", RgbText
}

func (r *Renderer) drawInstruction(w int, snap game.Snapshot, bg RGB) {
	msg, fg := Instruction(snap)
	r.center(w, rowInstruction, msg, fg, bg, terminal.AttrBold)
}

// TimerColor picks the countdown color for the remaining fraction
func TimerColor(fraction float64) RGB {
	switch {
	case fraction > parameter.TimerWarnFraction:
		return RgbTimerGood
	case fraction > parameter.TimerDangerFraction:
		return RgbTimerWarn
	}
	return RgbTimerDanger
}

func (r *Renderer) drawTimer(w int, snap game.Snapshot, bg RGB) {
	frac := snap.RemainingFraction()
	barW := min(timerWidth, w-12)
	if barW <= 0 {
		return
	}
	filled := int(frac*float64(barW) + 0.5)
	color := TimerColor(frac)

	x0 := (w - barW - 7) / 2
	for i := 0; i < barW; i++ {
		c := RgbTimerTrack
		if i < filled {
			c = color
		}
		r.surface.SetCell(x0+i, rowTimer, ' ', c, c, 0)
	}
	r.text(x0+barW+1, rowTimer, fmt.Sprintf("%4.2fs", snap.Remaining.Seconds()), color, bg, 0)
}

func (r *Renderer) drawKeyboard(w int, snap game.Snapshot, bg RGB) {
	inPool := r.poolSet(snap.Pool)
	held := make(map[keyboard.Key]bool, len(snap.Held))
	for _, k := range snap.Held {
		held[k] = true
	}
	active := snap.State == game.StatePressing || snap.State == game.StateReleasing

	ox := (w - keyboardWidth()) / 2
	for _, row := range keyboard.Rows() {
		for _, k := range row {
			p, _ := keyboard.Position(k)
			x := ox + int(p.X*keyPitchX)
			y := rowKeyboard + int(p.Y)*keyPitchY

			fg, kbg, attrs := RgbKeyIdleFg, RgbKeyIdleBg, terminal.AttrNone
			switch {
			case active && k == snap.Target:
				fg, attrs = RgbKeyTargetFg, terminal.AttrBold
				kbg = RgbPress
				if snap.Phase == game.PhaseReleasing {
					kbg = RgbRelease
				}
			case held[k]:
				fg, kbg, attrs = RgbKeyHeldFg, RgbKeyHeldBg, terminal.AttrBold
			case !inPool[k]:
				fg, kbg, attrs = RgbMuted, bg, terminal.AttrDim
			}

			r.surface.SetCell(x, y, ' ', fg, kbg, attrs)
			r.surface.SetCell(x+1, y, rune(k), fg, kbg, attrs)
			r.surface.SetCell(x+2, y, ' ', fg, kbg, attrs)
		}
	}
}

// keyboardWidth is the span of the diagram in cells
func keyboardWidth() int {
	maxX := 0.0
	for _, row := range keyboard.Rows() {
		for _, k := range row {
			if p, _ := keyboard.Position(k); p.X > maxX {
				maxX = p.X
			}
		}
	}
	return int(maxX*keyPitchX) + keyWidth
}

func (r *Renderer) poolSet(pool []keyboard.Key) map[keyboard.Key]bool {
	if r.inPool != nil && len(r.inPool) == len(pool) {
		return r.inPool
	}
	r.inPool = make(map[keyboard.Key]bool, len(pool))
	for _, k := range pool {
		r.inPool[k] = true
	}
	return r.inPool
}

func (r *Renderer) drawPanel(w int, snap game.Snapshot, bg RGB) {
	var title, detail string
	var fg RGB
	switch snap.State {
	case game.StateGameOver:
		title, fg = "GAME OVER", RgbGameOver
		detail = snap.Reason.String()
		if detail == "" {
			detail = parameter.MessageGameOver
		}
	case game.StateWin:
		title, fg = "YOU WIN", RgbWin
		detail = parameter.MessageWin
	default:
		return
	}

	r.center(w, rowPanel, title, fg, bg, terminal.AttrBold)
	r.center(w, rowPanel+1, detail, RgbText, bg, 0)
	r.center(w, rowPanel+2, fmt.Sprintf("Final score: %d", snap.Score), RgbText, bg, terminal.AttrBold)
	r.center(w, rowPanel+4, "Press ENTER to play again", RgbMuted, bg, 0)
}

func (r *Renderer) drawHelp(w, h int, bg RGB) {
	help := "ESC quit   ENTER restart"
	if r.hint != "" {
		help += "   " + r.hint
	}
	r.center(w, h-1, help, RgbMuted, bg, terminal.AttrDim)
}

// text draws s at x, y and returns the column after it
func (r *Renderer) text(x, y int, s string, fg, bg RGB, attrs terminal.Attr) int {
	for _, ch := range s {
		r.surface.SetCell(x, y, ch, fg, bg, attrs)
		x++
	}
	return x
}

func (r *Renderer) center(w, y int, s string, fg, bg RGB, attrs terminal.Attr) {
	x := (w - utf8.RuneCountInString(s)) / 2
	if x < 0 {
		x = 0
	}
	r.text(x, y, s, fg, bg, attrs)
}

// flashActive reports whether a penalty flash is visible at now
func flashActive(last, now time.Time) bool {
	return !last.IsZero() && now.Sub(last) >= 0 && now.Sub(last) < parameter.FlashDuration
}
