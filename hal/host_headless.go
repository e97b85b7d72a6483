//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Duration stops the run after this long (0 = until ctx ends).
	Duration time.Duration
	// Snapshot is a PNG path the last panel frame is written to on exit.
	Snapshot string
	// SnapshotScale is the size of one panel dot in the PNG.
	SnapshotScale int
}

// RunHeadless runs the controller without opening a window. In demo mode
// the sticks sweep on their own so the arm keeps moving.
func RunHeadless(ctx context.Context, opts Options, cfg HeadlessConfig, run func(context.Context, HAL) error) error {
	h, err := newHostHAL(opts)
	if err != nil {
		return err
	}
	return runHeadless(ctx, h, opts, cfg, run)
}

func runHeadless(ctx context.Context, h *hostHAL, opts Options, cfg HeadlessConfig, run func(context.Context, HAL) error) error {
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	if opts.Demo {
		go sweep(ctx, h.sticks, time.Now)
	}

	err := run(ctx, h)
	if errors.Is(err, context.DeadlineExceeded) && cfg.Duration > 0 && ctx.Err() != nil {
		err = nil
	}

	if cfg.Snapshot != "" {
		frame := h.panel.Visible()
		if serr := SaveSnapshot(cfg.Snapshot, &frame, cfg.SnapshotScale); serr != nil {
			return errors.Join(err, fmt.Errorf("snapshot: %w", serr))
		}
	}
	return err
}

// sweep moves every stick axis through a slow sine, each at its own
// period, until ctx ends.
func sweep(ctx context.Context, sticks *simSticks, now func() time.Time) {
	t0 := now()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			sticks.center()
			return
		case <-tick.C:
			sweepStep(sticks, now().Sub(t0))
		}
	}
}

func sweepStep(sticks *simSticks, elapsed time.Duration) {
	for ch := 0; ch < numAxes; ch++ {
		period := time.Duration(6+2*ch) * time.Second
		phase := 2 * math.Pi * float64(elapsed%period) / float64(period)
		v := StickRest + 110*math.Sin(phase)
		sticks.set(ch, uint8(math.Round(v)))
	}
}
