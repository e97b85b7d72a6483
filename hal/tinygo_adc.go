//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"
	"time"
)

// boardADC runs the RP2040 converter over the stick inputs from a
// goroutine. TinyGo exposes no conversion-complete interrupt, so each
// conversion is started and collected in turn, keeping the one-channel
// pipeline lag of a free-running converter.
type boardADC struct {
	inputs  [numSticks]machine.ADC
	period  time.Duration
	conv    converter
	running bool
	stop    chan struct{}
}

const numSticks = 4

func newBoardADC(pins [numSticks]machine.Pin, period time.Duration) *boardADC {
	machine.InitADC()
	a := &boardADC{period: period}
	for i, p := range pins {
		a.inputs[i] = machine.ADC{Pin: p}
		a.inputs[i].Configure(machine.ADCConfig{})
	}
	a.conv.read = a.read
	return a
}

// read returns the top 8 bits of a conversion, like a left-adjusted
// 8-bit result.
func (a *boardADC) read(ch uint8) uint8 {
	if int(ch) >= numSticks {
		return 0
	}
	return uint8(a.inputs[ch].Get() >> 8)
}

func (a *boardADC) Start(h ADCHandler) error {
	if h == nil {
		return errors.New("adc: nil handler")
	}
	if a.running {
		return errors.New("adc: already running")
	}
	a.running = true
	a.stop = make(chan struct{})
	go func(stop <-chan struct{}) {
		for {
			select {
			case <-stop:
				return
			default:
			}
			a.conv.step(h)
			time.Sleep(a.period)
		}
	}(a.stop)
	return nil
}

func (a *boardADC) Stop() {
	if !a.running {
		return
	}
	a.running = false
	close(a.stop)
}
