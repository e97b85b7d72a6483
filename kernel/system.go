package kernel

import (
	"sync/atomic"
	"time"
)

// System bundles the mailboxes, the status word and the millisecond
// timebase shared between the control loop and its drains.
type System struct {
	mbox    [numEndpoints]Mailbox
	status  SharedWord
	ticks   atomic.Uint64
	dropped atomic.Uint32
}

// NewSystem creates a kernel instance.
func NewSystem() *System {
	return &System{}
}

// StartTick starts a 1ms ticker that increments the tick counter until
// stop is closed. A nil stop runs forever.
func (s *System) StartTick(stop <-chan struct{}) {
	go func() {
		t := time.NewTicker(1 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				s.ticks.Add(1)
			}
		}
	}()
}

// Ticks returns the current tick count (1ms per tick).
func (s *System) Ticks() uint64 {
	return s.ticks.Load()
}

// Status returns the shared status word.
func (s *System) Status() *SharedWord {
	return &s.status
}

// Post copies the payload into a fixed-size message and enqueues it
// without blocking. Messages to a full mailbox are dropped and counted.
// Payloads longer than MaxMessageBytes are truncated.
func (s *System) Post(from, to Endpoint, kind uint8, payload []byte) bool {
	if !s.mbox[to].TrySend(newMessage(from, to, kind, payload)) {
		s.dropped.Add(1)
		return false
	}
	return true
}

// Send is Post that waits for room instead of dropping.
func (s *System) Send(from, to Endpoint, kind uint8, payload []byte) {
	s.mbox[to].Send(newMessage(from, to, kind, payload))
}

func newMessage(from, to Endpoint, kind uint8, payload []byte) Message {
	msg := Message{From: from, To: to, Kind: kind}
	if len(payload) > MaxMessageBytes {
		payload = payload[:MaxMessageBytes]
	}
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	return msg
}

// Dropped returns the number of messages Post could not deliver.
func (s *System) Dropped() uint32 {
	return s.dropped.Load()
}

// Recv blocks until a message is available for the endpoint.
func (s *System) Recv(to Endpoint) Message {
	return s.mbox[to].Recv()
}

// TryRecv dequeues one message for the endpoint if there is one.
func (s *System) TryRecv(to Endpoint) (Message, bool) {
	return s.mbox[to].TryRecv()
}

