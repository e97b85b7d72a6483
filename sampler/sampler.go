// Package sampler collects one reading per joystick axis from a
// free-running, interrupt-driven ADC.
//
// The converter reports each result one channel behind the channel it is
// currently programmed for. HandleConversion runs in interrupt context and
// is the only writer of the sample slots; the control loop only reads them
// after it has requested a refresh and observed the handshake return to
// Idle.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// Channel identifies one analog input.
type Channel uint8

const (
	Middle Channel = iota
	Left
	Right
	Claw

	NumChannels = 4
)

var channelNames = [NumChannels]string{"middle", "left", "right", "claw"}

func (c Channel) String() string {
	if int(c) < NumChannels {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// Set holds one 8-bit reading per channel.
type Set [NumChannels]uint8

// State is the refresh handshake between the control loop and the handler.
type State uint32

const (
	Idle State = iota
	Requested
	InProgress
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requested:
		return "requested"
	case InProgress:
		return "in-progress"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// ErrStalled is returned by Await when the converter did not complete a
// refresh before the context ended.
var ErrStalled = errors.New("sampler: conversion stalled")

// Source is the consumer side of a sampler.
type Source interface {
	Request()
	TryTake() (Set, bool)
}

// Sampler owns the sample slots and the handshake flag.
//
// The zero value is ready to use: selector at channel 0, state Idle, no
// completed refresh.
type Sampler struct {
	_ [0]func() // prevent accidental copying.

	state atomic.Uint32
	revs  atomic.Uint32

	// Handler-only.
	selector uint8

	// Written by the handler while InProgress, read by the consumer only
	// after it observes Idle.
	slots Set
}

// HandleConversion records one completed conversion and returns the
// channel the converter must be programmed for next.
//
// It never blocks and must not be called concurrently with itself.
func (s *Sampler) HandleConversion(result uint8) Channel {
	if State(s.state.Load()) == InProgress {
		prev := s.selector
		if prev == 0 {
			prev = NumChannels
		}
		s.slots[prev-1] = result
	}

	s.selector++
	if s.selector >= NumChannels {
		s.selector = 0
		switch State(s.state.Load()) {
		case Requested:
			s.state.Store(uint32(InProgress))
		case InProgress:
			s.revs.Add(1)
			s.state.Store(uint32(Idle))
		}
	}
	return Channel(s.selector)
}

// Request asks the handler to capture a fresh revolution. It is a no-op
// while a refresh is already pending.
func (s *Sampler) Request() {
	s.state.CompareAndSwap(uint32(Idle), uint32(Requested))
}

// State returns the current handshake state.
func (s *Sampler) State() State { return State(s.state.Load()) }

// Revolutions returns the number of completed refreshes.
func (s *Sampler) Revolutions() uint32 { return s.revs.Load() }

// Ready reports whether a completed, stable sample set is available.
func (s *Sampler) Ready() bool {
	return State(s.state.Load()) == Idle && s.revs.Load() > 0
}

// TryTake returns the sample set if it is stable.
func (s *Sampler) TryTake() (Set, bool) {
	if !s.Ready() {
		return Set{}, false
	}
	return s.slots, true
}

// Await blocks until the sampler has a stable set.
func (s *Sampler) Await(ctx context.Context) (Set, error) {
	return Await(ctx, s)
}

// Await polls src until it yields a sample set, yielding the processor
// between polls. It returns ErrStalled when ctx ends first.
func Await(ctx context.Context, src Source) (Set, error) {
	done := ctx.Done()
	for {
		if set, ok := src.TryTake(); ok {
			return set, nil
		}
		select {
		case <-done:
			return Set{}, fmt.Errorf("%w: %w", ErrStalled, ctx.Err())
		default:
		}
		runtime.Gosched()
	}
}

// Refresh requests a new revolution and waits for it.
func Refresh(ctx context.Context, src Source) (Set, error) {
	src.Request()
	return Await(ctx, src)
}
