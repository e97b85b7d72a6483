package app

import (
	"bytes"
	"fmt"
	"time"

	"mearm/kernel"
)

// logf queues a debug line. Lines are dropped when the logger falls
// behind; the control loop never waits on the UART.
func (s *System) logf(format string, args ...any) {
	s.k.Post(kernel.EPControl, kernel.EPLogger, kernel.MsgLog, fmt.Appendf(nil, format, args...))
}

// drain moves queued lines to the HAL logger until stop is closed, then
// flushes what is left.
func (s *System) drain(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		if msg, ok := s.k.TryRecv(kernel.EPLogger); ok {
			s.write(&msg)
			continue
		}
		select {
		case <-stop:
			for {
				msg, ok := s.k.TryRecv(kernel.EPLogger)
				if !ok {
					return
				}
				s.write(&msg)
			}
		default:
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *System) write(msg *kernel.Message) {
	l := s.h.Logger()
	if l == nil {
		return
	}
	// The logger terminates lines itself.
	l.WriteLineBytes(bytes.TrimRight(msg.Payload(), "\r\n"))
}
