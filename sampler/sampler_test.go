package sampler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// convert feeds one revolution worth of events. value(ch) is the result the
// converter reports for channel ch; results arrive one channel late.
type converter struct {
	s       *Sampler
	next    Channel
	pending Channel
	value   func(ch Channel) uint8
}

func (c *converter) event() {
	result := c.value(c.pending)
	c.pending = c.next
	c.next = c.s.HandleConversion(result)
}

func TestStateTransitions(t *testing.T) {
	var s Sampler
	if got := s.State(); got != Idle {
		t.Fatalf("State() = %v, want %v", got, Idle)
	}
	if s.Ready() {
		t.Fatalf("Ready() = true before any refresh, want false")
	}

	// No request: a full revolution stays Idle.
	for i := 0; i < NumChannels; i++ {
		s.HandleConversion(0)
	}
	if got := s.State(); got != Idle {
		t.Fatalf("State() = %v after idle revolution, want %v", got, Idle)
	}

	s.Request()
	if got := s.State(); got != Requested {
		t.Fatalf("State() = %v after Request, want %v", got, Requested)
	}
	s.Request()
	if got := s.State(); got != Requested {
		t.Fatalf("State() = %v after second Request, want %v", got, Requested)
	}

	for i := 0; i < NumChannels; i++ {
		s.HandleConversion(0)
	}
	if got := s.State(); got != InProgress {
		t.Fatalf("State() = %v at wrap, want %v", got, InProgress)
	}
	s.Request()
	if got := s.State(); got != InProgress {
		t.Fatalf("Request() changed state to %v while in progress", s.State())
	}

	for i := 0; i < NumChannels; i++ {
		s.HandleConversion(0)
	}
	if got := s.State(); got != Idle {
		t.Fatalf("State() = %v after capture, want %v", got, Idle)
	}
	if got := s.Revolutions(); got != 1 {
		t.Fatalf("Revolutions() = %d, want 1", got)
	}
	if !s.Ready() {
		t.Fatalf("Ready() = false after capture, want true")
	}
}

func TestHandlerReturnsNextChannel(t *testing.T) {
	var s Sampler
	want := []Channel{Left, Right, Claw, Middle, Left}
	for i, w := range want {
		if got := s.HandleConversion(0); got != w {
			t.Fatalf("event %d: HandleConversion() = %v, want %v", i, got, w)
		}
	}
}

func TestOneChannelLag(t *testing.T) {
	var s Sampler
	c := &converter{s: &s, value: func(ch Channel) uint8 { return 10 + uint8(ch) }}

	s.Request()
	for i := 0; i < 2*NumChannels; i++ {
		c.event()
	}
	got, ok := s.TryTake()
	if !ok {
		t.Fatalf("TryTake() ok = false, want true")
	}
	want := Set{10, 11, 12, 13}
	if got != want {
		t.Fatalf("TryTake() = %v, want %v", got, want)
	}
}

func TestFirstSlotFilledFromLastEvent(t *testing.T) {
	var s Sampler
	s.Request()
	for i := 0; i < NumChannels; i++ {
		s.HandleConversion(0)
	}
	// Selector is 0 again: this result belongs to the last channel.
	s.HandleConversion(200)
	for i := 1; i < NumChannels; i++ {
		s.HandleConversion(uint8(i))
	}
	got, ok := s.TryTake()
	if !ok {
		t.Fatalf("TryTake() ok = false, want true")
	}
	if got[Claw] != 200 {
		t.Fatalf("slot %v = %d, want 200", Claw, got[Claw])
	}
	if got[Middle] != 1 || got[Left] != 2 || got[Right] != 3 {
		t.Fatalf("TryTake() = %v, want [1 2 3 200]", got)
	}
}

func TestConsumerViewChangesOnlyAtCompletion(t *testing.T) {
	var s Sampler
	round := uint8(0)
	c := &converter{s: &s, value: func(ch Channel) uint8 { return round*10 + uint8(ch) }}

	// Establish a first stable set.
	s.Request()
	for i := 0; i < 2*NumChannels; i++ {
		c.event()
	}
	first, ok := s.TryTake()
	if !ok {
		t.Fatalf("TryTake() ok = false after first refresh")
	}

	round = 1
	s.Request()
	const events = 2 * NumChannels
	for i := 1; i <= events; i++ {
		c.event()
		got, ok := s.TryTake()
		if i < events {
			if ok {
				t.Fatalf("event %d: TryTake() = %v, true; want no set until event %d", i, got, events)
			}
			continue
		}
		if !ok {
			t.Fatalf("event %d: TryTake() ok = false, want true", i)
		}
		if got == first {
			t.Fatalf("event %d: TryTake() = %v, want updated set", i, got)
		}
		for ch, v := range got {
			if v/10 != 1 {
				t.Fatalf("event %d: slot %d = %d from an older revolution", i, ch, v)
			}
		}
	}
}

func TestAwaitStalled(t *testing.T) {
	var s Sampler
	s.Request()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Await(ctx)
	if !errors.Is(err, ErrStalled) {
		t.Fatalf("Await() err = %v, want %v", err, ErrStalled)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Await() err = %v, want wrapped %v", err, context.DeadlineExceeded)
	}
}

func TestRefreshWithFreeRunningConverter(t *testing.T) {
	var s Sampler
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c := &converter{s: &s, value: func(ch Channel) uint8 { return 100 + uint8(ch) }}
		for {
			select {
			case <-stop:
				return
			default:
			}
			c.event()
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 0; i < 50; i++ {
		got, err := Refresh(ctx, &s)
		if err != nil {
			t.Fatalf("Refresh() err = %v", err)
		}
		if want := (Set{100, 101, 102, 103}); got != want {
			t.Fatalf("Refresh() = %v, want %v", got, want)
		}
	}
	if got := s.Revolutions(); got < 50 {
		t.Fatalf("Revolutions() = %d, want >= 50", got)
	}
}
