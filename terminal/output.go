package terminal

import (
	"bufio"
	"io"
)

// outputBuffer manages double-buffered terminal output with diffing
type outputBuffer struct {
	front     []Cell
	width     int
	height    int
	colorMode ColorMode
	writer    *bufio.Writer

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool
}

func newOutputBuffer(w io.Writer, colorMode ColorMode) *outputBuffer {
	return &outputBuffer{
		writer:    bufio.NewWriterSize(w, 32768),
		colorMode: colorMode,
	}
}

// resize updates buffer dimensions and invalidates the front buffer
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if cap(o.front) < size {
		o.front = make([]Cell, size)
	} else {
		o.front = o.front[:size]
	}
	o.width = width
	o.height = height
	o.forceFullRedraw()
}

// cellEqual compares two cells; blank cells ignore foreground
func cellEqual(a, b Cell) bool {
	if a.Rune != b.Rune || a.Attrs != b.Attrs || a.Bg != b.Bg {
		return false
	}
	if a.Rune == 0 || a.Rune == ' ' {
		return true
	}
	return a.Fg == b.Fg
}

// flush writes cells to the terminal, diffing against the front buffer
func (o *outputBuffer) flush(cells []Cell, width, height int) {
	if width != o.width || height != o.height {
		o.resize(width, height)
	}
	if len(cells) < width*height {
		return
	}

	w := o.writer
	dirty := false

	for y := 0; y < height; y++ {
		rowStart := y * width
		for x := 0; x < width; x++ {
			idx := rowStart + x
			c := cells[idx]
			if cellEqual(c, o.front[idx]) {
				continue
			}
			dirty = true

			if !o.cursorValid || x != o.cursorX || y != o.cursorY {
				if o.cursorValid && y == o.cursorY && x > o.cursorX {
					writeCursorForward(w, x-o.cursorX)
				} else {
					writeCursorPos(w, x, y)
				}
				o.cursorX, o.cursorY = x, y
				o.cursorValid = true
			}

			o.writeStyle(w, c.Fg, c.Bg, c.Attrs)

			r := c.Rune
			if r == 0 {
				r = ' '
			}
			if r < 0x80 {
				w.WriteByte(byte(r))
			} else {
				w.WriteRune(r)
			}
			o.front[idx] = c
			o.cursorX++
		}
	}

	if !dirty {
		return
	}
	w.Write(csiSGR0)
	o.lastValid = false
	w.Flush()
}

// writeStyle emits one combined SGR sequence when style changes
func (o *outputBuffer) writeStyle(w *bufio.Writer, fg, bg RGB, attr Attr) {
	if o.lastValid && fg == o.lastFg && bg == o.lastBg && attr == o.lastAttr {
		return
	}

	if !o.lastValid || attr != o.lastAttr {
		w.Write(csi)
		w.WriteByte('0')
		for _, a := range [...]struct {
			bit  Attr
			code byte
		}{{AttrBold, '1'}, {AttrDim, '2'}, {AttrItalic, '3'}, {AttrUnderline, '4'}, {AttrBlink, '5'}, {AttrReverse, '7'}} {
			if attr&a.bit != 0 {
				w.WriteByte(';')
				w.WriteByte(a.code)
			}
		}
		w.WriteByte('m')
		o.writeColor(w, fg, csiFgRGB, csiFg256)
		o.writeColor(w, bg, csiBgRGB, csiBg256)
	} else {
		if fg != o.lastFg {
			o.writeColor(w, fg, csiFgRGB, csiFg256)
		}
		if bg != o.lastBg {
			o.writeColor(w, bg, csiBgRGB, csiBg256)
		}
	}

	o.lastFg, o.lastBg, o.lastAttr = fg, bg, attr
	o.lastValid = true
}

func (o *outputBuffer) writeColor(w *bufio.Writer, c RGB, rgbPrefix, palettePrefix []byte) {
	if o.colorMode == ColorModeTrueColor {
		w.Write(rgbPrefix)
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
	} else {
		w.Write(palettePrefix)
		writeInt(w, int(RGBTo256(c)))
	}
	w.WriteByte('m')
}

// forceFullRedraw clears front buffer to force complete redraw
func (o *outputBuffer) forceFullRedraw() {
	for i := range o.front {
		o.front[i] = Cell{Rune: -1}
	}
	o.lastValid = false
	o.cursorValid = false
}

// clear writes a clear screen with specified background
func (o *outputBuffer) clear(bg RGB) {
	w := o.writer
	w.Write(csiSGR0)
	o.writeColor(w, bg, csiBgRGB, csiBg256)
	w.Write(csiClear)
	w.Flush()

	o.lastValid = false
	o.cursorValid = false
	for i := range o.front {
		o.front[i] = Cell{Rune: ' ', Bg: bg}
	}
}
