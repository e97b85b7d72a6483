package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"mearm/display"
	"mearm/kernel"

	"tinygo.org/x/tinyfont"
)

const (
	haltCols     = display.Width / 6
	haltBaseline = 7
	haltLine     = 8
)

var haltInk = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// halt stops the converter, reports err on the debug channel stamped
// with the uptime in milliseconds and leaves it on the panel. The servos
// hold their last angle.
func (s *System) halt(err error) error {
	s.h.ADC().Stop()

	msg := fmt.Sprintf("halt at %dms: %v", s.k.Ticks(), err)
	for len(msg) > 0 {
		n := min(len(msg), kernel.MaxMessageBytes)
		s.k.Send(kernel.EPControl, kernel.EPLogger, kernel.MsgHalt, []byte(msg[:n]))
		msg = msg[n:]
	}

	s.disp.Clear()
	d := s.disp.Adapter()
	lines := []string{"HALT"}
	text := err.Error()
	for len(text) > 0 {
		var chunk string
		chunk, text = takeRunes(text, haltCols)
		lines = append(lines, chunk)
		text = strings.TrimLeft(text, " ")
	}
	y := int16(haltBaseline)
	for _, line := range lines {
		if y > display.Height {
			break
		}
		tinyfont.WriteLine(d, display.Font, 0, y, line, haltInk)
		y += haltLine
	}
	if derr := d.Display(); derr != nil {
		s.logf("lcd: %v", derr)
	}
	return err
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
