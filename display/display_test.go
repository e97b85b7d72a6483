package display

import (
	"errors"
	"image/color"
	"testing"

	"tinygo.org/x/tinyfont"
)

func countPixels(d *Display) int {
	n := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if d.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestSetPixelPacking(t *testing.T) {
	d := New(nil)
	d.SetPixel(5, 0, true)
	d.SetPixel(5, 7, true)
	d.SetPixel(5, 8, true)
	d.SetPixel(83, 47, true)

	buf := d.Buffer()
	if got := buf[0][5]; got != 0x81 {
		t.Fatalf("page 0 col 5 = %#x, want 0x81", got)
	}
	if got := buf[1][5]; got != 0x01 {
		t.Fatalf("page 1 col 5 = %#x, want 0x01", got)
	}
	if got := buf[5][83]; got != 0x80 {
		t.Fatalf("page 5 col 83 = %#x, want 0x80", got)
	}

	d.SetPixel(5, 7, false)
	if d.Pixel(5, 7) {
		t.Fatalf("Pixel(5,7) = true after clear")
	}
	if !d.Pixel(5, 0) {
		t.Fatalf("Pixel(5,0) = false, clearing a neighbour touched it")
	}
}

func TestClipping(t *testing.T) {
	coords := []int{-1000, -17, -1, 0, 1, 40, 82, 83, 84, 85, 1000}
	lengths := []int{-5, 0, 1, 16, 200}

	for _, x := range coords {
		for _, y := range coords {
			d := New(nil)
			d.SetPixel(x, y, true)
			d.SetCursor(x, y)
			d.WriteString("Hello, 123", 3)
			for _, n := range lengths {
				d.DrawHLine(x, y, n)
				d.DrawVLine(x, y, n)
			}
			for _, x2 := range coords {
				d.DrawLine(x, y, x2, -y)
			}
			// Nothing to check beyond "no panic": the buffer has no
			// storage outside the panel.
			_ = countPixels(d)
		}
	}
}

func TestSetCursorClamps(t *testing.T) {
	d := New(nil)
	d.SetCursor(-3, 100)
	if x, y := d.Cursor(); x != 0 || y != Height-1 {
		t.Fatalf("Cursor() = %d,%d, want 0,%d", x, y, Height-1)
	}
	d.SetCursor(500, -1)
	if x, y := d.Cursor(); x != Width-1 || y != 0 {
		t.Fatalf("Cursor() = %d,%d, want %d,0", x, y, Width-1)
	}
}

func TestWriteChar(t *testing.T) {
	d := New(nil)
	d.WriteChar('A', 1)

	buf := d.Buffer()
	want := []byte{0x7e, 0x11, 0x11, 0x11, 0x7e, 0x00}
	for col, w := range want {
		if buf[0][col] != w {
			t.Fatalf("col %d = %#x, want %#x", col, buf[0][col], w)
		}
	}
	if x, y := d.Cursor(); x != 6 || y != 0 {
		t.Fatalf("Cursor() = %d,%d, want 6,0", x, y)
	}
}

func TestWriteCharScaled(t *testing.T) {
	d := New(nil)
	d.SetCursor(0, 10)
	d.WriteChar('|', 3) // single full-height column in the middle

	cols := glyph('|')
	for col := 0; col < glyphWidth; col++ {
		for row := 0; row < glyphHeight; row++ {
			on := cols[col]&(1<<row) != 0
			for dy := 0; dy < 3; dy++ {
				for dx := 0; dx < 3; dx++ {
					x, y := col*3+dx, 10+row*3+dy
					if got := d.Pixel(x, y); got != on {
						t.Fatalf("Pixel(%d,%d) = %v, want %v", x, y, got, on)
					}
				}
			}
		}
	}
	if x, _ := d.Cursor(); x != 18 {
		t.Fatalf("cursor x = %d, want 18", x)
	}
}

func TestWriteCharUnknownUsesQuestionMark(t *testing.T) {
	a, b := New(nil), New(nil)
	a.WriteChar(0x1f, 1)
	b.WriteChar('?', 1)
	if a.Buffer() != b.Buffer() {
		t.Fatalf("0x1f rendered differently from '?'")
	}
	a.Clear()
	a.WriteChar(0xc8, 1)
	if a.Buffer() != b.Buffer() {
		t.Fatalf("0xc8 rendered differently from '?'")
	}
}

func TestWriteStringNewline(t *testing.T) {
	d := New(nil)
	d.WriteString("ab\nc", 1)
	if x, y := d.Cursor(); x != 6 || y != 8 {
		t.Fatalf("Cursor() = %d,%d, want 6,8", x, y)
	}
}

func TestWriteBytesStopsAtNUL(t *testing.T) {
	d := New(nil)
	d.WriteBytes([]byte{'9', '0', 0, '7', '7'}, 1)
	if x, _ := d.Cursor(); x != 12 {
		t.Fatalf("cursor x = %d, want 12", x)
	}
}

func TestClear(t *testing.T) {
	d := New(nil)
	d.SetCursor(10, 10)
	d.WriteString("meArm", 2)
	d.Clear()
	if n := countPixels(d); n != 0 {
		t.Fatalf("%d pixels set after Clear", n)
	}
	if x, y := d.Cursor(); x != 0 || y != 0 {
		t.Fatalf("Cursor() = %d,%d after Clear, want 0,0", x, y)
	}
}

func TestAxisLines(t *testing.T) {
	d := New(nil)
	d.DrawHLine(60, 7, 16)
	for x := 60; x < 76; x++ {
		if !d.Pixel(x, 7) {
			t.Fatalf("Pixel(%d,7) = false", x)
		}
	}
	if d.Pixel(76, 7) || d.Pixel(59, 7) {
		t.Fatalf("hline drew past its ends")
	}
	if n := countPixels(d); n != 16 {
		t.Fatalf("%d pixels set, want 16", n)
	}

	d.Clear()
	d.DrawVLine(68, 40, 16)
	if n := countPixels(d); n != 8 {
		t.Fatalf("clipped vline set %d pixels, want 8", n)
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	tests := []struct{ x1, y1, x2, y2, n int }{
		{0, 0, 10, 10, 11},
		{10, 0, 0, 10, 11},
		{0, 0, 20, 5, 21},
		{3, 40, 5, 0, 41},
		{5, 5, 5, 5, 1},
	}
	for _, tt := range tests {
		d := New(nil)
		d.DrawLine(tt.x1, tt.y1, tt.x2, tt.y2)
		if !d.Pixel(tt.x1, tt.y1) || !d.Pixel(tt.x2, tt.y2) {
			t.Fatalf("DrawLine(%d,%d,%d,%d) missing an endpoint", tt.x1, tt.y1, tt.x2, tt.y2)
		}
		if n := countPixels(d); n != tt.n {
			t.Fatalf("DrawLine(%d,%d,%d,%d) set %d pixels, want %d", tt.x1, tt.y1, tt.x2, tt.y2, n, tt.n)
		}
	}
}

func TestDrawLineClipped(t *testing.T) {
	tests := []struct {
		x1, y1, x2, y2 int
		n              int
	}{
		{-10, -10, 10, 10, 11},
		{10, 10, -10, -10, 11},
		{-1_000_000_000, 0, 1_000_000_000, 1, Width},
		{0, -1_000_000_000, 1, 1_000_000_000, Height},
		{-50, -5, -1, -40, 0},
		{100, 60, 200, 90, 0},
	}
	for _, tt := range tests {
		d := New(nil)
		d.DrawLine(tt.x1, tt.y1, tt.x2, tt.y2)
		if n := countPixels(d); n != tt.n {
			t.Fatalf("DrawLine(%d,%d,%d,%d) set %d pixels, want %d", tt.x1, tt.y1, tt.x2, tt.y2, n, tt.n)
		}
	}

	d := New(nil)
	d.DrawLine(-10, -10, 10, 10)
	for i := 0; i <= 10; i++ {
		if !d.Pixel(i, i) {
			t.Fatalf("Pixel(%d,%d) = false", i, i)
		}
	}
}

func TestWriteCharHugeScale(t *testing.T) {
	d := New(nil)
	d.WriteChar('E', 10000) // first column, top row covers the panel
	if n := countPixels(d); n != Width*Height {
		t.Fatalf("%d pixels set, want %d", n, Width*Height)
	}
	if x, _ := d.Cursor(); x != glyphAdvance*10000 {
		t.Fatalf("Cursor() x = %d, want %d", x, glyphAdvance*10000)
	}
}

func TestRenderWireFormat(t *testing.T) {
	d := New(nil)
	d.WriteString("Middle:90", 1)
	d.DrawVLine(68, 0, 16)
	d.DrawHLine(60, 47, 24)

	c := NewController()
	if err := Init(c, DefaultConfig); err != nil {
		t.Fatalf("Init() err = %v", err)
	}
	if err := d.Render(c); err != nil {
		t.Fatalf("Render() err = %v", err)
	}
	if got := c.RAM(); got != d.Buffer() {
		t.Fatalf("controller RAM differs from framebuffer")
	}
	if got := c.Visible(); got != d.Buffer() {
		t.Fatalf("visible frame differs from framebuffer in normal mode")
	}
	if got := c.DataBytes(); got != Pages*Width {
		t.Fatalf("DataBytes() = %d, want %d", got, Pages*Width)
	}
	if got := c.Contrast(); got != DefaultConfig.Contrast {
		t.Fatalf("Contrast() = %#x, want %#x", got, DefaultConfig.Contrast)
	}
}

func TestControllerBlankUntilInit(t *testing.T) {
	d := New(nil)
	d.WriteString("x", 1)
	c := NewController()
	if err := d.Render(c); err != nil {
		t.Fatalf("Render() err = %v", err)
	}
	if got := c.Visible(); got != ([Pages][Width]byte{}) {
		t.Fatalf("powered-down panel shows pixels")
	}
}

func TestControllerInverse(t *testing.T) {
	c := NewController()
	if err := Init(c, DefaultConfig); err != nil {
		t.Fatalf("Init() err = %v", err)
	}
	if err := c.Command(CmdDisplayControl | DisplayInverse); err != nil {
		t.Fatalf("Command() err = %v", err)
	}
	v := c.Visible()
	if v[0][0] != 0xff {
		t.Fatalf("inverse blank pixel = %#x, want 0xff", v[0][0])
	}
}

type failingTransport struct{ n int }

func (f *failingTransport) Command(...byte) error { return nil }

func (f *failingTransport) Data([]byte) error {
	f.n++
	if f.n == 3 {
		return errors.New("spi timeout")
	}
	return nil
}

func TestRenderStopsOnError(t *testing.T) {
	d := New(nil)
	tr := &failingTransport{}
	if err := d.Render(tr); err == nil {
		t.Fatalf("Render() err = nil, want error")
	}
	if tr.n != 3 {
		t.Fatalf("Data calls = %d, want 3", tr.n)
	}
}

func TestTinyfontAdapter(t *testing.T) {
	a, b := New(nil), New(nil)

	tinyfont.WriteLine(a.Adapter(), Font, 0, 6, "meArm", color.RGBA{R: 255, G: 255, B: 255, A: 255})
	b.WriteString("meArm", 1)

	if a.Buffer() != b.Buffer() {
		t.Fatalf("tinyfont output differs from WriteString")
	}
	if _, w := tinyfont.LineWidth(Font, "meArm"); w != 30 {
		t.Fatalf("LineWidth() outbox = %d, want 30", w)
	}
}
