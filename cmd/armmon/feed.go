package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"mearm/motion"
)

// scan reads lines from r until EOF or ctx ends and feeds them to m.
// Telemetry goes to state, any other text to text. pace, when positive,
// spaces the cycles out like the control loop did.
func scan(ctx context.Context, r io.Reader, m *mirror, pace time.Duration, state func(motion.Snapshot) error, text func(string)) error {
	var tick *time.Ticker
	if pace > 0 {
		tick = time.NewTicker(pace)
		defer tick.Stop()
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		snap, err := m.Feed(line)
		if err != nil {
			text(line)
			continue
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick.C:
			}
		}
		if err := state(snap); err != nil {
			return err
		}
	}
	return sc.Err()
}

// feed carries mirrored state and log text from a reader to the TUI.
type feed struct {
	states chan motion.Snapshot
	logs   chan string
}

func newFeed() *feed {
	return &feed{
		states: make(chan motion.Snapshot, 16),
		logs:   make(chan string, 16),
	}
}

func (f *feed) log(format string, args ...any) {
	select {
	case f.logs <- fmt.Sprintf(format, args...):
	default:
	}
}

func (f *feed) run(ctx context.Context, r io.Reader, m *mirror, pace time.Duration) error {
	err := scan(ctx, r, m, pace, func(s motion.Snapshot) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f.states <- s:
			return nil
		}
	}, func(line string) {
		f.log("%s", line)
	})
	if err == nil {
		f.log("end of input after %d lines (%d not telemetry)", m.lines, m.bad)
	}
	return err
}
