//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// PeriphConfig wires a real PCD8544 panel and the two buttons to a Linux
// board (Raspberry Pi and similar) through periph.io. The sticks and
// servos stay simulated.
type PeriphConfig struct {
	SPI   string // SPI port name, "" for the first one
	Speed physic.Frequency
	DC    string // data/command pin
	RST   string // reset pin
	BtnA  string
	BtnB  string
}

// DefaultPeriphConfig matches a Nokia 5110 breakout on a Raspberry Pi:
// SPI0.0 with DC on GPIO23, RST on GPIO24 and buttons on GPIO5/GPIO6.
var DefaultPeriphConfig = PeriphConfig{
	Speed: 4 * physic.MegaHertz,
	DC:    "GPIO23",
	RST:   "GPIO24",
	BtnA:  "GPIO5",
	BtnB:  "GPIO6",
}

// RunPeriph runs the controller headless against real panel and button
// hardware. Every panel write is mirrored into the emulated panel so a
// snapshot can still be taken.
func RunPeriph(ctx context.Context, opts Options, pcfg PeriphConfig, cfg HeadlessConfig, run func(context.Context, HAL) error) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph: %w", err)
	}
	h, err := newHostHAL(opts)
	if err != nil {
		return err
	}

	lcd, closeLCD, err := openPeriphLCD(pcfg)
	if err != nil {
		return err
	}
	defer closeLCD()
	h.lcd = &teeLCD{primary: lcd, mirror: h.panel}

	a, err := periphPinByName(pcfg.BtnA)
	if err != nil {
		return err
	}
	b, err := periphPinByName(pcfg.BtnB)
	if err != nil {
		return err
	}
	// Real lines go first so they shadow the simulated ones of the same name.
	h.gpio = newVirtualGPIO(append([]GPIOPin{a, b}, gpioPins(h.gpio)...))
	if h.buttons, err = buttonsByName(h.gpio, a.Name(), b.Name()); err != nil {
		return err
	}

	return runHeadless(ctx, h, opts, cfg, run)
}

func gpioPins(g GPIO) []GPIOPin {
	var pins []GPIOPin
	for i := 0; i < g.PinCount(); i++ {
		pins = append(pins, g.Pin(i))
	}
	return pins
}

// periphLCD is the PCD8544 link over a Linux SPI port. The D/C line is
// set before each transfer.
type periphLCD struct {
	conn spi.Conn
	dc   gpio.PinIO
	rst  gpio.PinIO
}

func openPeriphLCD(cfg PeriphConfig) (*periphLCD, func() error, error) {
	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, nil, fmt.Errorf("periph: spi %q: %w", cfg.SPI, err)
	}
	speed := cfg.Speed
	if speed == 0 {
		speed = DefaultPeriphConfig.Speed
	}
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("periph: spi connect: %w", err)
	}
	dc := gpioreg.ByName(cfg.DC)
	rst := gpioreg.ByName(cfg.RST)
	if dc == nil || rst == nil {
		port.Close()
		return nil, nil, fmt.Errorf("periph: pins %q/%q not found", cfg.DC, cfg.RST)
	}
	return &periphLCD{conn: conn, dc: dc, rst: rst}, port.Close, nil
}

func (l *periphLCD) Command(cmd ...byte) error {
	if err := l.dc.Out(gpio.Low); err != nil {
		return err
	}
	return l.conn.Tx(cmd, nil)
}

func (l *periphLCD) Data(b []byte) error {
	if err := l.dc.Out(gpio.High); err != nil {
		return err
	}
	return l.conn.Tx(b, nil)
}

func (l *periphLCD) Reset() error {
	if err := l.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	return l.rst.Out(gpio.High)
}

// teeLCD writes to a real panel and mirrors every byte into an emulated
// one. Errors come from the real panel only.
type teeLCD struct {
	primary LCD
	mirror  *simLCD
}

func (t *teeLCD) Command(cmd ...byte) error {
	t.mirror.Command(cmd...)
	return t.primary.Command(cmd...)
}

func (t *teeLCD) Data(b []byte) error {
	t.mirror.Data(b)
	return t.primary.Data(b)
}

func (t *teeLCD) Reset() error {
	t.mirror.Reset()
	return t.primary.Reset()
}

// periphPin adapts a periph.io pin to GPIOPin.
type periphPin struct {
	p gpio.PinIO
}

func periphPinByName(name string) (*periphPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periph: pin %q not found", name)
	}
	return &periphPin{p: p}, nil
}

func (p *periphPin) Name() string { return p.p.Name() }

func (p *periphPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *periphPin) Configure(mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeInput:
		pp := gpio.Float
		switch pull {
		case GPIOPullUp:
			pp = gpio.PullUp
		case GPIOPullDown:
			pp = gpio.PullDown
		}
		return p.p.In(pp, gpio.NoEdge)
	case GPIOModeOutput:
		return p.p.Out(gpio.Low)
	}
	return errors.New("gpio: invalid mode")
}

func (p *periphPin) Read() (bool, error) {
	return p.p.Read() == gpio.High, nil
}

func (p *periphPin) Write(level bool) error {
	return p.p.Out(gpio.Level(level))
}
