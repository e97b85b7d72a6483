// Package motion turns stick readings into joint targets and ramps the
// servos toward them.
package motion

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mearm/sampler"
)

// DefaultRampSteps is the number of ramp sub-steps per control cycle.
const DefaultRampSteps = 9

// Actuator drives the servos. Commands are fire-and-forget.
type Actuator interface {
	SetAngle(servo int, angle uint8) error
}

// Buttons holds the pressed state of the two stick buttons.
type Buttons struct {
	Save    bool // A
	Restore bool // B
}

// Snapshot is the controller state after an update.
type Snapshot struct {
	Samples sampler.Set
	Deltas  [NumJoints]int
	Joints  [NumJoints]Joint
	Buttons Buttons
}

// Controller owns the joint state. It is not safe for concurrent use.
type Controller struct {
	cfg   [NumJoints]JointConfig
	state [NumJoints]Joint
	last  Snapshot
	act   Actuator
}

// New returns a controller with every joint at its home angle.
func New(cfg [NumJoints]JointConfig, act Actuator) (*Controller, error) {
	c := &Controller{cfg: cfg, act: act}
	for i := range cfg {
		jc := &cfg[i]
		if jc.Limits.Min > jc.Limits.Max {
			return nil, fmt.Errorf("joint %s: limits %d..%d are inverted", jc.Name, jc.Limits.Min, jc.Limits.Max)
		}
		if jc.Limits.Min < 0 || jc.Limits.Max > 255 {
			return nil, fmt.Errorf("joint %s: limits %d..%d outside 0..255", jc.Name, jc.Limits.Min, jc.Limits.Max)
		}
		home := jc.Limits.Clamp(jc.Home)
		c.state[i] = Joint{Target: home, Current: home, Saved: home}
	}
	c.last.Joints = c.state
	return c, nil
}

// Config returns the joint table.
func (c *Controller) Config() [NumJoints]JointConfig { return c.cfg }

// Joint returns the state of the joint moved by ch.
func (c *Controller) Joint(ch sampler.Channel) Joint { return c.state[ch] }

// Snapshot returns the state as of the last Update, with current angles
// brought up to date.
func (c *Controller) Snapshot() Snapshot {
	s := c.last
	s.Joints = c.state
	return s
}

// Update folds one sample set and the button levels into the joint
// targets. Save copies every target into its saved slot; Restore then
// copies the saved slots back. Both act on every cycle the button is held.
func (c *Controller) Update(samples sampler.Set, b Buttons) Snapshot {
	var deltas [NumJoints]int
	for i := range c.state {
		d := Delta(samples[i])
		deltas[i] = d
		jc := &c.cfg[i]
		c.state[i].Target = jc.Policy.Apply(c.state[i].Target, d, jc.Limits)
	}
	if b.Save {
		for i := range c.state {
			c.state[i].Saved = c.state[i].Target
		}
	}
	if b.Restore {
		for i := range c.state {
			c.state[i].Target = c.state[i].Saved
		}
	}
	c.last = Snapshot{Samples: samples, Deltas: deltas, Joints: c.state, Buttons: b}
	return c.last
}

// Advance performs one ramp sub-step and sends every current angle to the
// actuator. Actuator errors do not stop the step; they are returned joined.
func (c *Controller) Advance() error {
	for i := range c.state {
		c.state[i].Step()
	}
	return c.Push()
}

// Push sends the current angles without moving them.
func (c *Controller) Push() error {
	if c.act == nil {
		return nil
	}
	var errs []error
	for i := range c.state {
		angle := uint8(c.state[i].Current)
		if err := c.act.SetAngle(c.cfg[i].Servo, angle); err != nil {
			errs = append(errs, fmt.Errorf("servo %d (%s): %w", c.cfg[i].Servo, c.cfg[i].Name, err))
		}
	}
	return errors.Join(errs...)
}

// Settled reports whether every joint has reached its target.
func (c *Controller) Settled() bool {
	for i := range c.state {
		if c.state[i].Current != c.state[i].Target {
			return false
		}
	}
	return true
}

// Ramp runs steps sub-steps, waiting settle after each one. It stops early
// only when ctx ends. The first actuator error is returned after the ramp.
func (c *Controller) Ramp(ctx context.Context, steps int, settle time.Duration) error {
	var first error
	var timer *time.Timer
	for n := 0; n < steps; n++ {
		if err := c.Advance(); err != nil && first == nil {
			first = err
		}
		if settle <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if timer == nil {
			timer = time.NewTimer(settle)
			defer timer.Stop()
		} else {
			timer.Reset(settle)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return first
}

// Canvas is the drawing surface status is rendered on.
type Canvas interface {
	SetCursor(x, y int)
	WriteString(s string, scale int)
	DrawHLine(x, y, length int)
	DrawVLine(x, y, length int)
}

// ButtonRow is the text row the button states are written on.
const ButtonRow = 40

// Render draws the status screen for s: one text row per joint with its
// target angle, the stick indicators and the button states.
func Render(cv Canvas, cfg *[NumJoints]JointConfig, s Snapshot) {
	var num [4]byte
	for i := range cfg {
		jc := &cfg[i]
		cv.SetCursor(0, jc.Row)
		cv.WriteString(jc.Label, 1)
		cv.WriteString(string(strconv.AppendInt(num[:0], int64(s.Joints[i].Target), 10)), 1)

		ind := jc.Indicator
		switch ind.Kind {
		case Vertical:
			cv.DrawVLine(ind.X+s.Deltas[i], ind.Y, IndicatorLength)
		case Horizontal:
			cv.DrawHLine(ind.X, ind.Y-s.Deltas[i], IndicatorLength)
		}
	}
	cv.SetCursor(0, ButtonRow)
	cv.WriteString("A:"+onOff(s.Buttons.Save)+" B:"+onOff(s.Buttons.Restore), 1)
}

// Render draws the controller's latest snapshot.
func (c *Controller) Render(cv Canvas) {
	Render(cv, &c.cfg, c.Snapshot())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
