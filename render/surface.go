package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/twister/terminal"
)

// Surface is a drawable screen
type Surface interface {
	Size() (width, height int)
	Clear(bg RGB)
	SetCell(x, y int, r rune, fg, bg RGB, attrs terminal.Attr)
	Show()
}

// CellSurface composes into a cell buffer and flushes it to a raw terminal
type CellSurface struct {
	term terminal.Terminal
	buf  *Buffer
}

// NewCellSurface creates a surface sized to the terminal
func NewCellSurface(term terminal.Terminal) *CellSurface {
	w, h := term.Size()
	return &CellSurface{term: term, buf: NewBuffer(w, h)}
}

// Size tracks the live terminal size so a resize takes effect on the next frame
func (s *CellSurface) Size() (int, int) {
	w, h := s.term.Size()
	if bw, bh := s.buf.Size(); bw != w || bh != h {
		s.buf.Resize(w, h)
	}
	return w, h
}

func (s *CellSurface) Clear(bg RGB) { s.buf.Fill(bg) }

func (s *CellSurface) SetCell(x, y int, r rune, fg, bg RGB, attrs terminal.Attr) {
	s.buf.Set(x, y, r, fg, bg, attrs)
}

func (s *CellSurface) Show() {
	w, h := s.buf.Size()
	s.term.Flush(s.buf.Cells(), w, h)
}

// TcellSurface draws on a tcell screen
type TcellSurface struct {
	screen tcell.Screen
}

// NewTcellSurface wraps an initialized screen
func NewTcellSurface(screen tcell.Screen) *TcellSurface {
	return &TcellSurface{screen: screen}
}

func (s *TcellSurface) Size() (int, int) { return s.screen.Size() }

func (s *TcellSurface) Clear(bg RGB) {
	s.screen.SetStyle(tcell.StyleDefault.Background(tcellColor(bg)))
	s.screen.Clear()
}

func (s *TcellSurface) SetCell(x, y int, r rune, fg, bg RGB, attrs terminal.Attr) {
	s.screen.SetContent(x, y, r, nil, tcellStyle(fg, bg, attrs))
}

func (s *TcellSurface) Show() { s.screen.Show() }

func tcellColor(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func tcellStyle(fg, bg RGB, attrs terminal.Attr) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(fg)).
		Background(tcellColor(bg)).
		Bold(attrs&terminal.AttrBold != 0).
		Dim(attrs&terminal.AttrDim != 0).
		Reverse(attrs&terminal.AttrReverse != 0)
}

// Sync forces a full repaint after a resize
func (s *CellSurface) Sync() { s.term.Sync() }

// Sync forces a full repaint after a resize
func (s *TcellSurface) Sync() { s.screen.Sync() }
