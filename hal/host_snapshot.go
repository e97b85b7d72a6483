//go:build !tinygo

package hal

import (
	"mearm/display"

	"github.com/fogleman/gg"
)

// SaveSnapshot writes frame as a PNG with every panel dot drawn as a
// scale x scale square.
func SaveSnapshot(path string, frame *[display.Pages][display.Width]byte, scale int) error {
	if scale < 1 {
		scale = 4
	}
	c := gg.NewContext(display.Width*scale, display.Height*scale)
	c.SetColor(panelOff)
	c.Clear()

	c.SetColor(panelOn)
	s := float64(scale)
	for y := 0; y < display.Height; y++ {
		mask := byte(1) << (y & 7)
		for x := 0; x < display.Width; x++ {
			if frame[y>>3][x]&mask == 0 {
				continue
			}
			c.DrawRectangle(float64(x)*s, float64(y)*s, s, s)
		}
	}
	c.Fill()
	return c.SavePNG(path)
}
