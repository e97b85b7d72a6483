package main

import (
	"fmt"
	"strings"

	"mearm/app"
	"mearm/internal/armconfig"
	"mearm/motion"
	"mearm/telemetry"
)

// mirror replays telemetry through a motion controller with no actuator,
// reproducing the targets the arm computed from the same readings.
type mirror struct {
	ctl   *motion.Controller
	lines int
	bad   int
}

func newMirror(joints [motion.NumJoints]motion.JointConfig) (*mirror, error) {
	ctl, err := motion.New(joints, nil)
	if err != nil {
		return nil, err
	}
	return &mirror{ctl: ctl}, nil
}

// Feed applies one telemetry line.
func (m *mirror) Feed(line string) (motion.Snapshot, error) {
	m.lines++
	rec, err := telemetry.Parse(line)
	if err != nil {
		m.bad++
		return motion.Snapshot{}, err
	}
	snap := m.ctl.Update(rec.Samples, rec.Buttons)
	return snap, nil
}

// jointTable returns the joint table, read from path when one is given.
func jointTable(path string) ([motion.NumJoints]motion.JointConfig, error) {
	cfg := app.DefaultConfig()
	if path == "" {
		return cfg.Joints, nil
	}
	cfg, err := armconfig.Load(path, cfg)
	if err != nil {
		return cfg.Joints, err
	}
	return cfg.Joints, nil
}

// summary renders a snapshot as one plain text line.
func summary(joints *[motion.NumJoints]motion.JointConfig, s motion.Snapshot) string {
	var sb strings.Builder
	for i := range joints {
		fmt.Fprintf(&sb, "%s=%d ", joints[i].Name, s.Joints[i].Target)
	}
	fmt.Fprintf(&sb, "A:%s B:%s", onOff(s.Buttons.Save), onOff(s.Buttons.Restore))
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
