package display

// DrawHLine draws length pixels to the right of (x, y).
func (d *Display) DrawHLine(x, y, length int) {
	if y < 0 || y >= Height || length <= 0 {
		return
	}
	x0 := clamp(x, 0, Width)
	x1 := clamp(x+length, 0, Width)
	mask := byte(1) << (y & 7)
	row := &d.buf[y>>3]
	for i := x0; i < x1; i++ {
		row[i] |= mask
	}
}

// DrawVLine draws length pixels downwards from (x, y).
func (d *Display) DrawVLine(x, y, length int) {
	if x < 0 || x >= Width || length <= 0 {
		return
	}
	y0 := clamp(y, 0, Height)
	y1 := clamp(y+length, 0, Height)
	for i := y0; i < y1; i++ {
		d.buf[i>>3][x] |= 1 << (i & 7)
	}
}

// DrawLine draws a straight segment between two points, endpoints
// included. Axis-aligned segments take the direct loops; everything else
// is clipped to the panel and then stepped with Bresenham's algorithm.
func (d *Display) DrawLine(x1, y1, x2, y2 int) {
	if y1 == y2 {
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		d.DrawHLine(x1, y1, x2-x1+1)
		return
	}
	if x1 == x2 {
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		d.DrawVLine(x1, y1, y2-y1+1)
		return
	}
	var ok bool
	if x1, y1, x2, y2, ok = clipLine(x1, y1, x2, y2); !ok {
		return
	}

	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		d.SetPixel(x1, y1, true)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

const (
	outLeft = 1 << iota
	outRight
	outTop
	outBottom
)

func outcode(x, y int) int {
	var c int
	if x < 0 {
		c |= outLeft
	} else if x >= Width {
		c |= outRight
	}
	if y < 0 {
		c |= outTop
	} else if y >= Height {
		c |= outBottom
	}
	return c
}

// clipLine trims a segment to the panel with Cohen-Sutherland. Points on
// the cut are rounded to the nearest pixel. ok is false when no part of
// the segment is visible.
func clipLine(x1, y1, x2, y2 int) (cx1, cy1, cx2, cy2 int, ok bool) {
	c1, c2 := outcode(x1, y1), outcode(x2, y2)
	for c1|c2 != 0 {
		if c1&c2 != 0 {
			return 0, 0, 0, 0, false
		}
		c := c1
		if c == 0 {
			c = c2
		}
		var x, y int
		switch {
		case c&outTop != 0:
			x, y = intercept(x1, x2, y1, y2, 0), 0
		case c&outBottom != 0:
			x, y = intercept(x1, x2, y1, y2, Height-1), Height-1
		case c&outLeft != 0:
			x, y = 0, intercept(y1, y2, x1, x2, 0)
		default:
			x, y = Width-1, intercept(y1, y2, x1, x2, Width-1)
		}
		if c == c1 {
			x1, y1 = x, y
			c1 = outcode(x1, y1)
		} else {
			x2, y2 = x, y
			c2 = outcode(x2, y2)
		}
	}
	return x1, y1, x2, y2, true
}

// intercept returns the a coordinate where the segment (a1,b1)-(a2,b2)
// crosses b. b must lie between b1 and b2.
func intercept(a1, a2, b1, b2, b int) int {
	num := (int64(a2) - int64(a1)) * (int64(b) - int64(b1))
	den := int64(b2) - int64(b1)
	if (num < 0) != (den < 0) {
		return a1 + int((num-den/2)/den)
	}
	return a1 + int((num+den/2)/den)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
