// Package display implements the status panel: a bit-packed 84x48
// framebuffer laid out in PCD8544 pages, a scalable 5x7 text renderer,
// line primitives and the full-frame transfer to the panel controller.
package display

import (
	"fmt"
	"image/color"
)

const (
	Width  = 84
	Height = 48
	Pages  = Height / 8
)

// Transport is the byte channel to the panel controller. Command bytes
// and data bytes are told apart by the controller's D/C line.
type Transport interface {
	Command(cmd ...byte) error
	Data(b []byte) error
}

// Display owns the framebuffer and the text cursor.
//
// Every drawing call clips to the panel; nothing outside [0,Width)x[0,Height)
// is ever touched. Display is not safe for concurrent use.
type Display struct {
	buf [Pages][Width]byte

	cx, cy int

	t Transport
}

// New returns a cleared display that renders to t. t may be nil, in which
// case Display (the drivers.Displayer method) is a no-op.
func New(t Transport) *Display {
	return &Display{t: t}
}

// Clear zeroes the framebuffer and homes the cursor. The panel keeps its
// content until the next Render.
func (d *Display) Clear() {
	d.buf = [Pages][Width]byte{}
	d.cx, d.cy = 0, 0
}

// Buffer returns a copy of the packed framebuffer.
func (d *Display) Buffer() [Pages][Width]byte { return d.buf }

// SetCursor moves the text cursor, clamping to the panel.
func (d *Display) SetCursor(x, y int) {
	d.cx = clamp(x, 0, Width-1)
	d.cy = clamp(y, 0, Height-1)
}

// Cursor returns the text cursor position in pixels.
func (d *Display) Cursor() (x, y int) { return d.cx, d.cy }

// SetPixel sets or clears one pixel. Out of range coordinates are ignored.
func (d *Display) SetPixel(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	mask := byte(1) << (y & 7)
	if on {
		d.buf[y>>3][x] |= mask
	} else {
		d.buf[y>>3][x] &^= mask
	}
}

// Pixel reports whether a pixel is set. Out of range pixels read as off.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d.buf[y>>3][x]&(1<<(y&7)) != 0
}

// WriteChar draws c at the cursor, replicating every font pixel into a
// scale x scale block, and advances the cursor by the scaled glyph width.
// '\n' moves to the start of the next text row.
func (d *Display) WriteChar(c byte, scale int) {
	if scale < 1 {
		scale = 1
	}
	if c == '\n' {
		d.cx = 0
		d.cy = clamp(d.cy+lineAdvance*scale, 0, Height-1)
		return
	}
	cols := glyph(c)
	for col := 0; col < glyphWidth; col++ {
		bits := cols[col]
		for row := 0; row < glyphHeight; row++ {
			if bits&(1<<row) == 0 {
				continue
			}
			d.fillBlock(d.cx+col*scale, d.cy+row*scale, scale)
		}
	}
	d.cx += glyphAdvance * scale
}

func (d *Display) fillBlock(x, y, scale int) {
	x0, x1 := clamp(x, 0, Width), clamp(x+scale, 0, Width)
	y0, y1 := clamp(y, 0, Height), clamp(y+scale, 0, Height)
	for py := y0; py < y1; py++ {
		mask := byte(1) << (py & 7)
		row := &d.buf[py>>3]
		for px := x0; px < x1; px++ {
			row[px] |= mask
		}
	}
}

// WriteString draws s starting at the cursor.
func (d *Display) WriteString(s string, scale int) {
	for i := 0; i < len(s); i++ {
		d.WriteChar(s[i], scale)
	}
}

// WriteBytes draws b up to the first NUL byte, the way a fixed-size text
// buffer filled by a number formatter is terminated.
func (d *Display) WriteBytes(b []byte, scale int) {
	for _, c := range b {
		if c == 0 {
			return
		}
		d.WriteChar(c, scale)
	}
}

// Render pushes the whole framebuffer to the panel, one page at a time.
// This is the only point where the panel content changes.
func (d *Display) Render(t Transport) error {
	if t == nil {
		return nil
	}
	for page := 0; page < Pages; page++ {
		if err := t.Command(CmdSetY|byte(page), CmdSetX|0); err != nil {
			return fmt.Errorf("render page %d: %w", page, err)
		}
		if err := t.Data(d.buf[page][:]); err != nil {
			return fmt.Errorf("render page %d: %w", page, err)
		}
	}
	return nil
}

// Adapter is a drivers.Displayer view of a Display, used to draw with
// tinyfont. Any opaque non-black color sets a pixel, everything else
// clears it.
type Adapter struct {
	d *Display
}

// Adapter returns the drivers.Displayer view of d.
func (d *Display) Adapter() Adapter { return Adapter{d: d} }

func (a Adapter) Size() (x, y int16) { return Width, Height }

func (a Adapter) SetPixel(x, y int16, c color.RGBA) {
	a.d.SetPixel(int(x), int(y), c.A != 0 && (c.R|c.G|c.B) != 0)
}

func (a Adapter) Display() error { return a.d.Render(a.d.t) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
