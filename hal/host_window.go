//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mearm/display"
	"mearm/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	windowScale  = 6
	statusHeight = 48
)

// RunWindow starts a desktop window that shows the emulated panel and
// maps the keyboard onto the sticks and buttons. run is the controller;
// it gets a context that ends when the window closes.
// RunWindow blocks until the window closes.
func RunWindow(opts Options, run func(context.Context, HAL) error) error {
	h, err := newHostHAL(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &hostGame{
		h:    h,
		kbd:  newHostKeyboard(h.sticks, h.btnA, h.btnB),
		pix:  make([]byte, display.Width*display.Height*4),
		done: make(chan struct{}),
	}
	go func() {
		defer close(g.done)
		err := run(ctx, h)
		g.mu.Lock()
		g.runErr = err
		g.mu.Unlock()
	}()

	ebiten.SetWindowTitle("meArm (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(display.Width*windowScale, display.Height*windowScale+statusHeight)
	ebiten.SetTPS(60)
	err = ebiten.RunGame(g)
	cancel()
	<-g.done
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if errors.Is(g.runErr, context.Canceled) {
		return nil
	}
	return g.runErr
}

type hostGame struct {
	h   *hostHAL
	kbd *hostKeyboard
	pix []byte
	img *ebiten.Image

	mu     sync.Mutex
	runErr error
	done   chan struct{}
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.kbd.poll()
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(display.Width, display.Height)
	}
	frame := g.h.panel.Visible()
	frameRGBA(g.pix, &frame)
	g.img.WritePixels(g.pix)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(windowScale, windowScale)
	screen.DrawImage(g.img, &op)

	a, b := g.h.buttons.Read()
	angles := g.h.servos.Angles()
	status := fmt.Sprintf("servo %v  A:%v B:%v  led:%v", angles, a, b, g.h.led.isOn())
	select {
	case <-g.done:
		status += "  [stopped]"
	default:
	}
	y := display.Height * windowScale
	ebitenutil.DebugPrintAt(screen, status, 4, y+4)
	ebitenutil.DebugPrintAt(screen, "arrows: middle/left  W/S: right  A/D: claw  shift: slow  Z: save  X: restore", 4, y+22)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.Width * windowScale, display.Height*windowScale + statusHeight
}
