package motion

import (
	"fmt"
	"strings"

	"mearm/sampler"
)

// NumJoints is the number of servos driven by the arm. Joints are indexed
// by the sampler channel of the stick axis that moves them.
const NumJoints = sampler.NumChannels

// Delta converts a raw stick reading into a per-cycle angle increment.
// The stick rests near 127; Go's division truncates toward zero, so the
// result lies in [-8, 7].
func Delta(sample uint8) int {
	return (127 - int(sample)) / 16
}

// Policy selects how a delta is folded into a joint target.
type Policy uint8

const (
	// Absolute adds the delta and clamps to the joint limits.
	Absolute Policy = iota
	// SignedThreshold refuses to step below zero (the target snaps to 0
	// instead), then clamps to the upper limit.
	SignedThreshold
)

func (p Policy) String() string {
	switch p {
	case Absolute:
		return "absolute"
	case SignedThreshold:
		return "signed-threshold"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts the names produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absolute", "abs":
		return Absolute, nil
	case "signed-threshold", "signed", "threshold":
		return SignedThreshold, nil
	}
	return 0, fmt.Errorf("unknown clamp policy %q", s)
}

// Limits is a closed angle interval.
type Limits struct {
	Min, Max int
}

// Clamp saturates v into l.
func (l Limits) Clamp(v int) int {
	if v < l.Min {
		return l.Min
	}
	if v > l.Max {
		return l.Max
	}
	return v
}

// Contains reports whether v lies in l.
func (l Limits) Contains(v int) bool { return v >= l.Min && v <= l.Max }

// Apply returns the new target for a joint currently at target.
// The result always lies in l.
func (p Policy) Apply(target, delta int, l Limits) int {
	switch p {
	case SignedThreshold:
		if delta < 0 && target < -delta {
			target = 0
		} else {
			target += delta
		}
		if target > l.Max {
			target = l.Max
		}
		// A lower limit above zero still wins over the zero snap.
		if target < l.Min {
			target = l.Min
		}
		return target
	default:
		return l.Clamp(target + delta)
	}
}

// IndicatorKind is the orientation of a stick indicator line.
type IndicatorKind uint8

const (
	Vertical IndicatorKind = iota
	Horizontal
)

// IndicatorLength is the length in pixels of every stick indicator.
const IndicatorLength = 16

// Indicator places the stick position line of a joint. A vertical line
// moves right with the delta; a horizontal line moves up.
type Indicator struct {
	Kind IndicatorKind
	X, Y int
}

// JointConfig describes one joint.
type JointConfig struct {
	Name      string
	Label     string // status text, padded to a common width
	Limits    Limits
	Policy    Policy
	Home      int
	Servo     int // actuator channel
	Row       int // status text row, in pixels
	Indicator Indicator
}

// DefaultJoints is the meArm joint table, indexed by sampler channel.
//
// The two sticks draw as crosses: Middle/Left around (68,7) and
// Claw/Right around (68,27).
func DefaultJoints() [NumJoints]JointConfig {
	return [NumJoints]JointConfig{
		sampler.Middle: {
			Name: "middle", Label: "Middle:",
			Limits: Limits{0, 180}, Policy: Absolute, Home: 90,
			Servo: 3, Row: 0,
			Indicator: Indicator{Kind: Vertical, X: 68, Y: 0},
		},
		sampler.Left: {
			Name: "left", Label: "Left:  ",
			Limits: Limits{90, 180}, Policy: Absolute, Home: 90,
			Servo: 2, Row: 10,
			Indicator: Indicator{Kind: Horizontal, X: 60, Y: 7},
		},
		sampler.Right: {
			Name: "right", Label: "Right: ",
			Limits: Limits{0, 180}, Policy: SignedThreshold, Home: 90,
			Servo: 1, Row: 30,
			Indicator: Indicator{Kind: Horizontal, X: 60, Y: 27},
		},
		sampler.Claw: {
			Name: "claw", Label: "Claw:  ",
			Limits: Limits{0, 120}, Policy: SignedThreshold, Home: 90,
			Servo: 0, Row: 20,
			Indicator: Indicator{Kind: Vertical, X: 68, Y: 20},
		},
	}
}

// Joint is the angle state of one joint.
type Joint struct {
	Target  int
	Current int
	Saved   int
}

// Step moves Current one degree toward Target and reports whether it moved.
func (j *Joint) Step() bool {
	switch {
	case j.Current < j.Target:
		j.Current++
	case j.Current > j.Target:
		j.Current--
	default:
		return false
	}
	return true
}
