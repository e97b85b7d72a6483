//go:build !tinygo && cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

// Stick readings for a held key. A low reading moves the joint up.
const (
	stickFullUp   = 0
	stickFullDown = 255
	stickHalfUp   = StickRest - 48
	stickHalfDown = StickRest + 48
)

type axisKeys struct {
	ch       int
	up, down ebiten.Key
}

// Channel order matches the sampler: middle, left, right, claw.
var stickKeys = [...]axisKeys{
	{ch: 0, up: ebiten.KeyArrowRight, down: ebiten.KeyArrowLeft},
	{ch: 1, up: ebiten.KeyArrowUp, down: ebiten.KeyArrowDown},
	{ch: 2, up: ebiten.KeyW, down: ebiten.KeyS},
	{ch: 3, up: ebiten.KeyD, down: ebiten.KeyA},
}

type hostKeyboard struct {
	sticks     *simSticks
	btnA, btnB *virtualPin
}

func newHostKeyboard(sticks *simSticks, a, b *virtualPin) *hostKeyboard {
	return &hostKeyboard{sticks: sticks, btnA: a, btnB: b}
}

func (k *hostKeyboard) poll() {
	slow := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	for _, ax := range stickKeys {
		up := ebiten.IsKeyPressed(ax.up)
		down := ebiten.IsKeyPressed(ax.down)
		v := uint8(StickRest)
		switch {
		case up && !down && slow:
			v = stickHalfUp
		case up && !down:
			v = stickFullUp
		case down && !up && slow:
			v = stickHalfDown
		case down && !up:
			v = stickFullDown
		}
		k.sticks.set(ax.ch, v)
	}
	k.btnA.setPressed(ebiten.IsKeyPressed(ebiten.KeyZ))
	k.btnB.setPressed(ebiten.IsKeyPressed(ebiten.KeyX))
}
