//go:build !baremetal

package hal

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mearm/display"
)

// StickRest is the reading of a centred stick axis.
const StickRest = 127

const numAxes = 4

// simSticks holds the simulated stick axis positions, indexed by ADC
// channel.
type simSticks struct {
	axes [numAxes]atomic.Uint32
}

func newSimSticks() *simSticks {
	s := &simSticks{}
	s.center()
	return s
}

func (s *simSticks) set(ch int, v uint8) {
	if ch >= 0 && ch < numAxes {
		s.axes[ch].Store(uint32(v))
	}
}

func (s *simSticks) get(ch uint8) uint8 {
	if int(ch) >= numAxes {
		return 0
	}
	return uint8(s.axes[ch].Load())
}

func (s *simSticks) center() {
	for i := range s.axes {
		s.axes[i].Store(StickRest)
	}
}

// simADC converts the simulated sticks at a fixed rate from its own
// goroutine, standing in for the conversion-complete interrupt.
type simADC struct {
	mu     sync.Mutex
	period time.Duration
	conv   converter
	stop   chan struct{}
	done   chan struct{}
}

func newSimADC(sticks *simSticks, period time.Duration) *simADC {
	if period <= 0 {
		period = 250 * time.Microsecond
	}
	return &simADC{period: period, conv: converter{read: sticks.get}}
}

func (a *simADC) Start(h ADCHandler) error {
	if h == nil {
		return errors.New("adc: nil handler")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stop != nil {
		return errors.New("adc: already running")
	}
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(h, a.stop, a.done)
	return nil
}

func (a *simADC) run(h ADCHandler, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(a.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			a.conv.step(h)
		}
	}
}

func (a *simADC) Stop() {
	a.mu.Lock()
	stop, done := a.stop, a.done
	a.stop, a.done = nil, nil
	a.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// simServos records the commanded angles and logs every change.
type simServos struct {
	logger Logger
	active atomic.Bool
	angles [numAxes]atomic.Int32
}

func newSimServos(logger Logger) *simServos {
	s := &simServos{logger: logger}
	for i := range s.angles {
		s.angles[i].Store(-1)
	}
	return s
}

func (s *simServos) Activate() error {
	s.active.Store(true)
	return nil
}

func (s *simServos) SetAngle(servo int, angle uint8) error {
	if !s.active.Load() {
		return errors.New("servo: outputs not active")
	}
	if servo < 0 || servo >= len(s.angles) {
		return fmt.Errorf("servo: no channel %d", servo)
	}
	if angle > 180 {
		return fmt.Errorf("servo %d: invalid angle %d", servo, angle)
	}
	if old := s.angles[servo].Swap(int32(angle)); old != int32(angle) && s.logger != nil {
		s.logger.WriteLineString(fmt.Sprintf("servo %d: %d", servo, angle))
	}
	return nil
}

// Angles returns the last commanded angles, -1 for a servo never set.
func (s *simServos) Angles() [numAxes]int {
	var out [numAxes]int
	for i := range s.angles {
		out[i] = int(s.angles[i].Load())
	}
	return out
}

// simLCD is an emulated PCD8544.
type simLCD struct {
	*display.Controller
}

func newSimLCD() *simLCD {
	return &simLCD{Controller: display.NewController()}
}

func (l *simLCD) Reset() error {
	l.Controller.Reset()
	return nil
}
