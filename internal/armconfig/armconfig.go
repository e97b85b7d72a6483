// Package armconfig reads the optional host configuration file.
//
// Sample config:
//
//	[timing]
//	cycle=100ms          # delay at the start of every control cycle
//	ramp_steps=9         # ramp sub-steps per cycle
//	ramp_settle=20ms     # wait after each sub-step
//	startup=900ms        # wait after the splash screen
//	timeout=2s           # halt when no sample set arrives in time (0 = wait forever)
//	[lcd]
//	contrast=0x31        # Vop
//	bias=4
//	temp=0
//	[telemetry]
//	buttons=true         # append button states to each line
//	[claw]               # one of middle, left, right, claw
//	min=0
//	max=120
//	policy=signed        # absolute or signed-threshold
//	home=90
//
// Every section and every keyword is optional; anything left out keeps
// its default.
package armconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aamcrae/config"

	"mearm/app"
	"mearm/motion"
)

// Load parses path and applies it over base.
func Load(path string, base app.Config) (app.Config, error) {
	conf, err := config.ParseFile(path)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := Apply(conf, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Apply folds a parsed config over base.
func Apply(conf *config.Config, base app.Config) (app.Config, error) {
	cfg := base
	if err := applyTiming(conf.GetSection("timing"), &cfg); err != nil {
		return base, fmt.Errorf("timing: %w", err)
	}
	if err := applyLCD(conf.GetSection("lcd"), &cfg); err != nil {
		return base, fmt.Errorf("lcd: %w", err)
	}
	if s := conf.GetSection("telemetry"); s != nil {
		if v, err := s.GetArg("buttons"); err == nil {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return base, fmt.Errorf("telemetry: buttons: %w", err)
			}
			cfg.ButtonTelemetry = b
		}
	}
	for i := range cfg.Joints {
		jc := &cfg.Joints[i]
		if err := applyJoint(conf.GetSection(jc.Name), jc); err != nil {
			return base, fmt.Errorf("%s: %w", jc.Name, err)
		}
	}
	return cfg, nil
}

func applyTiming(s *config.Section, cfg *app.Config) error {
	if s == nil {
		return nil
	}
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"cycle", &cfg.CycleDelay},
		{"startup", &cfg.StartupDelay},
		{"timeout", &cfg.SampleTimeout},
		{"ramp_settle", &cfg.RampSettle},
	} {
		if err := duration(s, d.key, d.dst); err != nil {
			return err
		}
	}
	steps := cfg.RampSteps
	if err := integer(s, "ramp_steps", &steps); err != nil {
		return err
	}
	if steps <= 0 {
		return fmt.Errorf("ramp_steps: must be positive, got %d", steps)
	}
	cfg.RampSteps = steps
	return nil
}

func duration(s *config.Section, key string, dst *time.Duration) error {
	v, err := s.GetArg(key)
	if err != nil {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: negative duration %v", key, d)
	}
	*dst = d
	return nil
}

// integer parses an optional integer keyword.
func integer(s *config.Section, key string, dst *int) error {
	if _, err := s.GetArg(key); err != nil {
		return nil
	}
	n, err := s.Parse(key, "%d", dst)
	if err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	if n != 1 {
		return fmt.Errorf("%s: argument count", key)
	}
	return nil
}

func applyLCD(s *config.Section, cfg *app.Config) error {
	if s == nil {
		return nil
	}
	for _, b := range []struct {
		key string
		dst *uint8
		max uint64
	}{
		{"contrast", &cfg.LCD.Contrast, 0x7f},
		{"bias", &cfg.LCD.Bias, 0x07},
		{"temp", &cfg.LCD.TempCoef, 0x03},
	} {
		v, err := s.GetArg(b.key)
		if err != nil {
			continue
		}
		n, err := strconv.ParseUint(v, 0, 8)
		if err != nil {
			return fmt.Errorf("%s: %w", b.key, err)
		}
		if n > b.max {
			return fmt.Errorf("%s: %d out of range 0..%d", b.key, n, b.max)
		}
		*b.dst = uint8(n)
	}
	return nil
}

func applyJoint(s *config.Section, jc *motion.JointConfig) error {
	if s == nil {
		return nil
	}
	l := jc.Limits
	if err := integer(s, "min", &l.Min); err != nil {
		return err
	}
	if err := integer(s, "max", &l.Max); err != nil {
		return err
	}
	if l.Min < 0 || l.Max > 180 || l.Min > l.Max {
		return fmt.Errorf("limits %d..%d not an interval within 0..180", l.Min, l.Max)
	}
	jc.Limits = l
	if v, err := s.GetArg("policy"); err == nil {
		p, err := motion.ParsePolicy(v)
		if err != nil {
			return err
		}
		jc.Policy = p
	}
	if err := integer(s, "home", &jc.Home); err != nil {
		return err
	}
	if !jc.Limits.Contains(jc.Home) {
		return fmt.Errorf("home %d outside limits %d..%d", jc.Home, jc.Limits.Min, jc.Limits.Max)
	}
	return nil
}
