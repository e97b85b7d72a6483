package hal

import (
	"image/color"

	"mearm/display"
)

// Panel colours of a backlit PCD8544 module.
var (
	panelOn  = color.RGBA{R: 0x1c, G: 0x2b, B: 0x1c, A: 0xff}
	panelOff = color.RGBA{R: 0x9b, G: 0xc4, B: 0x8c, A: 0xff}
)

func panelColor(on bool) color.RGBA {
	if on {
		return panelOn
	}
	return panelOff
}

// frameRGBA expands a packed panel frame into RGBA pixels, one pixel per
// panel dot. dst must hold display.Width*display.Height*4 bytes.
func frameRGBA(dst []byte, frame *[display.Pages][display.Width]byte) {
	for y := 0; y < display.Height; y++ {
		page := &frame[y>>3]
		mask := byte(1) << (y & 7)
		for x := 0; x < display.Width; x++ {
			c := panelColor(page[x]&mask != 0)
			j := (y*display.Width + x) * 4
			dst[j+0] = c.R
			dst[j+1] = c.G
			dst[j+2] = c.B
			dst[j+3] = c.A
		}
	}
}
