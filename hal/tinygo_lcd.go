//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// spiLCD is the PCD8544 link over a hardware SPI bus with separate chip
// enable, data/command and reset lines.
type spiLCD struct {
	spi *machine.SPI
	ce  machine.Pin
	dc  machine.Pin
	rst machine.Pin
}

func newSPILCD(spi *machine.SPI, cfg machine.SPIConfig, ce, dc, rst machine.Pin) (*spiLCD, error) {
	if err := spi.Configure(cfg); err != nil {
		return nil, err
	}
	l := &spiLCD{spi: spi, ce: ce, dc: dc, rst: rst}
	for _, p := range []machine.Pin{ce, dc, rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}
	return l, nil
}

func (l *spiLCD) Reset() error {
	l.rst.Low()
	time.Sleep(10 * time.Millisecond)
	l.rst.High()
	return nil
}

func (l *spiLCD) Command(cmd ...byte) error {
	return l.tx(false, cmd)
}

func (l *spiLCD) Data(b []byte) error {
	return l.tx(true, b)
}

func (l *spiLCD) tx(data bool, b []byte) error {
	l.ce.Low()
	l.dc.Set(data)
	err := l.spi.Tx(b, nil)
	l.ce.High()
	return err
}
