// Package app wires the sampler, the motion controller and the status
// panel to a HAL and runs the control loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mearm/display"
	"mearm/hal"
	"mearm/kernel"
	"mearm/motion"
	"mearm/sampler"
	"mearm/telemetry"
)

// ErrHalted marks a fatal condition. The loop stops after drawing the
// halt screen and is never restarted.
var ErrHalted = errors.New("app: halted")

// Config holds the loop timing and the joint table.
type Config struct {
	Joints [motion.NumJoints]motion.JointConfig

	// CycleDelay is slept at the start of every cycle.
	CycleDelay time.Duration
	// RampSteps and RampSettle shape the servo ramp that ends a cycle.
	RampSteps  int
	RampSettle time.Duration
	// StartupDelay is waited after the splash before the first cycle.
	StartupDelay time.Duration
	// SampleTimeout bounds the wait for a sample set. Zero waits forever.
	SampleTimeout time.Duration

	LCD display.Config

	// ButtonTelemetry appends the button states to every telemetry line.
	ButtonTelemetry bool
}

// DefaultConfig returns the stock timing of the arm.
func DefaultConfig() Config {
	return Config{
		Joints:          motion.DefaultJoints(),
		CycleDelay:      100 * time.Millisecond,
		RampSteps:       motion.DefaultRampSteps,
		RampSettle:      20 * time.Millisecond,
		StartupDelay:    900 * time.Millisecond,
		LCD:             display.DefaultConfig,
		ButtonTelemetry: true,
	}
}

// System is one controller instance bound to a HAL.
type System struct {
	h   hal.HAL
	cfg Config
	k   *kernel.System

	smp  *sampler.Sampler
	disp *display.Display
	ctl  *motion.Controller

	cycles uint32
	led    bool
	line   [telemetry.MaxLineLen]byte
}

// New builds a System. Nothing is sent to the hardware until Start.
func New(h hal.HAL, cfg Config) (*System, error) {
	if h == nil {
		return nil, errors.New("app: nil HAL")
	}
	if cfg.RampSteps <= 0 {
		cfg.RampSteps = motion.DefaultRampSteps
	}
	ctl, err := motion.New(cfg.Joints, h.Servos())
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &System{
		h:    h,
		cfg:  cfg,
		k:    kernel.NewSystem(),
		smp:  &sampler.Sampler{},
		disp: display.New(h.LCD()),
		ctl:  ctl,
	}, nil
}

// Run is the board entry point. It never returns.
func Run(h hal.HAL) {
	s, err := New(h, DefaultConfig())
	if err != nil {
		h.Logger().WriteLineString(err.Error())
		select {}
	}
	_ = s.Run(context.Background())
	select {}
}

// Run starts the system and repeats Cycle until ctx ends or a fatal
// condition halts it. Cancelling ctx is a normal stop and returns
// ctx.Err(); a halt returns an error wrapping ErrHalted.
func (s *System) Run(ctx context.Context) (err error) {
	stop := make(chan struct{})
	drained := make(chan struct{})
	s.k.StartTick(stop)
	go s.drain(stop, drained)
	defer func() {
		s.h.ADC().Stop()
		close(stop)
		<-drained
	}()
	defer func() {
		if r := recover(); r != nil {
			err = s.halt(fmt.Errorf("%w: panic: %v", ErrHalted, r))
		}
	}()

	if err := s.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.halt(fmt.Errorf("%w: %w", ErrHalted, err))
	}
	for {
		if err := s.Cycle(ctx); err != nil {
			if errors.Is(err, ErrHalted) {
				return s.halt(err)
			}
			return err
		}
	}
}

// Start brings up the panel, shows the splash, parks the servos at their
// home angles and starts the converter.
func (s *System) Start(ctx context.Context) error {
	s.logf("hello")
	lcd := s.h.LCD()
	if err := lcd.Reset(); err != nil {
		return fmt.Errorf("lcd reset: %w", err)
	}
	if err := display.Init(lcd, s.cfg.LCD); err != nil {
		return fmt.Errorf("lcd init: %w", err)
	}
	s.logf("init")

	s.splash()
	if err := s.disp.Render(lcd); err != nil {
		s.logf("lcd: %v", err)
	}

	if err := s.h.Servos().Activate(); err != nil {
		return fmt.Errorf("servos: %w", err)
	}
	if err := s.ctl.Push(); err != nil {
		s.logf("%v", err)
	}
	if err := s.h.ADC().Start(s.handleConversion); err != nil {
		return fmt.Errorf("adc: %w", err)
	}
	s.logf("done")
	return sleep(ctx, s.cfg.StartupDelay)
}

func (s *System) splash() {
	s.disp.Clear()
	s.disp.WriteString("Initialize", 1)
	s.disp.SetCursor(0, 10)
	s.disp.WriteString("meArm", 3)
}

func (s *System) handleConversion(result uint8) uint8 {
	return uint8(s.smp.HandleConversion(result))
}

// Cycle runs one pass of the control loop: wait, sample, update, draw,
// report, ramp.
func (s *System) Cycle(ctx context.Context) error {
	if err := sleep(ctx, s.cfg.CycleDelay); err != nil {
		return err
	}
	set, err := s.sample(ctx)
	if err != nil {
		return err
	}

	s.disp.Clear()
	a, b := s.h.Buttons().Read()
	snap := s.ctl.Update(set, motion.Buttons{Save: a, Restore: b})
	s.ctl.Render(s.disp)
	if err := s.disp.Render(s.h.LCD()); err != nil {
		s.logf("lcd: %v", err)
	}

	s.report(snap)
	s.cycles++
	s.publish(snap)
	s.heartbeat()

	if err := s.ctl.Ramp(ctx, s.cfg.RampSteps, s.cfg.RampSettle); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		s.logf("%v", err)
	}
	return nil
}

func (s *System) sample(ctx context.Context) (sampler.Set, error) {
	wctx := ctx
	if s.cfg.SampleTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, s.cfg.SampleTimeout)
		defer cancel()
	}
	set, err := sampler.Refresh(wctx, s.smp)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return set, cerr
		}
		return set, fmt.Errorf("%w: no samples after %v: %w", ErrHalted, s.cfg.SampleTimeout, err)
	}
	return set, nil
}

func (s *System) report(snap motion.Snapshot) {
	line := telemetry.Append(s.line[:0], telemetry.Record{
		Samples:    snap.Samples,
		HasButtons: s.cfg.ButtonTelemetry,
		Buttons:    snap.Buttons,
	})
	s.k.Post(kernel.EPControl, kernel.EPLogger, kernel.MsgTelemetry, line)
}

func (s *System) heartbeat() {
	led := s.h.LED()
	if led == nil {
		return
	}
	s.led = !s.led
	if s.led {
		led.High()
	} else {
		led.Low()
	}
}

// Snapshot returns the controller state after the last cycle.
func (s *System) Snapshot() motion.Snapshot { return s.ctl.Snapshot() }

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
