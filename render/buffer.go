package render

import "github.com/lixenwraith/twister/terminal"

// Buffer is a row-major grid of terminal cells exported without copying
type Buffer struct {
	cells  []terminal.Cell
	width  int
	height int
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Fill(RGBBlack)
}

// RGBBlack is the cleared background
var RGBBlack = terminal.RGBBlack

// Fill sets every cell to a blank with background bg using exponential copy
func (b *Buffer) Fill(bg RGB) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = terminal.Cell{Rune: ' ', Bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Set writes one cell, ignoring out-of-bounds coordinates
func (b *Buffer) Set(x, y int, r rune, fg, bg RGB, attrs terminal.Attr) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = terminal.Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs}
}

// Get returns the cell at x, y or a zero cell out of bounds
func (b *Buffer) Get(x, y int) terminal.Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return terminal.Cell{}
	}
	return b.cells[y*b.width+x]
}

// Cells returns the backing slice
func (b *Buffer) Cells() []terminal.Cell { return b.cells }

// Size returns the dimensions
func (b *Buffer) Size() (int, int) { return b.width, b.height }
