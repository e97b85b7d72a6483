package kernel

import (
	"runtime"
	"sync/atomic"
)

// MaxMessageBytes is the maximum payload size for IPC messages. One
// telemetry line or one short log line fits.
const MaxMessageBytes = 64

// Message is a fixed-size message envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint8
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the used part of Data.
func (m *Message) Payload() []byte { return m.Data[:m.Len] }

const (
	MsgLog uint8 = iota + 1
	MsgTelemetry
	MsgHalt
)

const mailboxSlots = 8

type slot struct {
	// turn is 2*lap while the slot is free for the producer of that lap and
	// 2*lap+1 once the message is written and not yet consumed.
	turn atomic.Uint64
	msg  Message
}

// Mailbox is a fixed-size multi-producer, single-consumer queue.
// It is designed for bare-metal use: no allocations, busy-wait with Gosched().
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint64
	tail  atomic.Uint64
	slots [mailboxSlots]slot
}

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		pos := mb.head.Load()
		s := &mb.slots[pos%mailboxSlots]
		want := 2 * (pos / mailboxSlots)
		turn := s.turn.Load()
		switch {
		case turn == want:
			if !mb.head.CompareAndSwap(pos, pos+1) {
				continue
			}
			s.msg = msg
			s.turn.Store(want + 1)
			return true
		case turn < want:
			// Previous lap not consumed yet.
			return false
		}
		// Another producer claimed pos; reload head.
	}
}

// Send enqueues a message, blocking until it succeeds.
func (mb *Mailbox) Send(msg Message) {
	for !mb.TrySend(msg) {
		runtime.Gosched()
	}
}

// TryRecv attempts to dequeue one message, returning false if empty.
func (mb *Mailbox) TryRecv() (Message, bool) {
	pos := mb.tail.Load()
	s := &mb.slots[pos%mailboxSlots]
	want := 2*(pos/mailboxSlots) + 1
	if s.turn.Load() != want {
		return Message{}, false
	}
	msg := s.msg
	s.turn.Store(want + 1)
	mb.tail.Store(pos + 1)
	return msg, true
}

// Recv blocks until one message is available.
func (mb *Mailbox) Recv() Message {
	for {
		msg, ok := mb.TryRecv()
		if ok {
			return msg
		}
		runtime.Gosched()
	}
}

// Len returns the number of queued messages.
func (mb *Mailbox) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}
