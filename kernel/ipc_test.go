package kernel

import (
	"encoding/binary"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	var mb Mailbox

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	var mb Mailbox
	var msg Message

	for i := 0; i < mailboxSlots; i++ {
		if ok := mb.TrySend(msg); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.TrySend(msg); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}

	for i := 0; i < mailboxSlots; i++ {
		if _, ok := mb.TryRecv(); !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 10_000
		total     = producers * perProd
	)

	var mb Mailbox

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				id := uint32(producerID*perProd + i)
				var msg Message
				msg.Len = 4
				binary.LittleEndian.PutUint32(msg.Data[:4], id)
				mb.Send(msg)
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	for i := 0; i < total; i++ {
		msg := mb.Recv()
		if msg.Len != 4 {
			t.Fatalf("Recv() msg.Len = %d, want 4", msg.Len)
		}
		id := binary.LittleEndian.Uint32(msg.Data[:4])
		if int(id) >= total {
			t.Fatalf("Recv() id = %d, want < %d", id, total)
		}
		if seen[id] {
			t.Fatalf("Recv() duplicate id %d", id)
		}
		seen[id] = true
	}

	wg.Wait()
}

func TestMailboxFIFOAcrossLaps(t *testing.T) {
	var mb Mailbox

	for i := 0; i < 5*mailboxSlots; i++ {
		var msg Message
		msg.Len = 1
		msg.Data[0] = byte(i)
		if ok := mb.TrySend(msg); !ok {
			t.Fatalf("TrySend() ok = false at %d, want true", i)
		}
		got, ok := mb.TryRecv()
		if !ok {
			t.Fatalf("TryRecv() ok = false at %d, want true", i)
		}
		if got.Data[0] != byte(i) {
			t.Fatalf("TryRecv() = %d, want %d", got.Data[0], i)
		}
	}
	if n := mb.Len(); n != 0 {
		t.Fatalf("Len() = %d, want 0", n)
	}
}

func TestSystemPostDropsWhenFull(t *testing.T) {
	s := NewSystem()
	for i := 0; i < mailboxSlots; i++ {
		if !s.Post(EPControl, EPLogger, MsgTelemetry, []byte("1, 2, 3, 4, \r\n")) {
			t.Fatalf("Post() = false at %d, want true", i)
		}
	}
	if s.Post(EPControl, EPLogger, MsgTelemetry, []byte("x")) {
		t.Fatalf("Post() = true when full, want false")
	}
	if got := s.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}

	msg, ok := s.TryRecv(EPLogger)
	if !ok {
		t.Fatalf("TryRecv() ok = false, want true")
	}
	if got := string(msg.Payload()); got != "1, 2, 3, 4, \r\n" {
		t.Fatalf("Payload() = %q", got)
	}
	if msg.Kind != MsgTelemetry || msg.From != EPControl {
		t.Fatalf("msg = kind %d from %d", msg.Kind, msg.From)
	}
}

func TestSystemPostTruncates(t *testing.T) {
	s := NewSystem()
	long := make([]byte, MaxMessageBytes+10)
	s.Post(EPLogger, EPLogger, MsgLog, long)
	msg := s.Recv(EPLogger)
	if int(msg.Len) != MaxMessageBytes {
		t.Fatalf("msg.Len = %d, want %d", msg.Len, MaxMessageBytes)
	}
}

func TestSharedWord(t *testing.T) {
	var w SharedWord
	if seq, _ := w.Read(); seq != 0 {
		t.Fatalf("Read() seq = %d before Write, want 0", seq)
	}
	w.Write(42)
	seq := w.Write(0xdeadbeef)
	gotSeq, v := w.Read()
	if gotSeq != seq || seq != 2 {
		t.Fatalf("Read() seq = %d, Write() seq = %d, want 2", gotSeq, seq)
	}
	if v != 0xdeadbeef {
		t.Fatalf("Read() v = %#x, want 0xdeadbeef", v)
	}
}

func TestSystemSendWaitsForRoom(t *testing.T) {
	s := NewSystem()
	for i := 0; i < mailboxSlots; i++ {
		s.Post(EPControl, EPLogger, MsgLog, []byte{byte(i)})
	}
	done := make(chan struct{})
	go func() {
		s.Send(EPControl, EPLogger, MsgHalt, []byte("halt"))
		close(done)
	}()
	for i := 0; i < mailboxSlots; i++ {
		msg := s.Recv(EPLogger)
		if msg.Data[0] != byte(i) {
			t.Fatalf("Recv() #%d = %d, want %d", i, msg.Data[0], i)
		}
	}
	<-done
	msg := s.Recv(EPLogger)
	if msg.Kind != MsgHalt || string(msg.Payload()) != "halt" {
		t.Fatalf("Recv() = kind %d %q, want halt", msg.Kind, msg.Payload())
	}
	if s.Dropped() != 0 {
		t.Fatalf("Dropped() = %d, want 0", s.Dropped())
	}
}

func TestSystemTicksStopWithChannel(t *testing.T) {
	s := NewSystem()
	stop := make(chan struct{})
	s.StartTick(stop)
	deadline := time.Now().Add(time.Second)
	for s.Ticks() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("Ticks() = %d after 1s", s.Ticks())
		}
		time.Sleep(time.Millisecond)
	}
	close(stop)
	time.Sleep(10 * time.Millisecond)
	n := s.Ticks()
	time.Sleep(10 * time.Millisecond)
	if got := s.Ticks(); got != n {
		t.Fatalf("Ticks() = %d after stop, want %d", got, n)
	}
}
