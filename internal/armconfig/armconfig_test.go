package armconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mearm/app"
	"mearm/motion"
	"mearm/sampler"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arm.conf")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyKeepsDefaults(t *testing.T) {
	base := app.DefaultConfig()
	cfg, err := Load(writeConfig(t, "# nothing here\n"), base)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != base {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"[timing]",
		"cycle=50ms",
		"ramp_steps=4",
		"ramp_settle=10ms",
		"timeout=2s",
		"[lcd]",
		"contrast=0x40",
		"[telemetry]",
		"buttons=false",
		"[left]",
		"policy=signed-threshold",
		"[claw]",
		"min=10",
		"max=100",
		"home=45",
		"",
	}, "\n"))
	cfg, err := Load(path, app.DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CycleDelay != 50*time.Millisecond {
		t.Fatalf("CycleDelay = %v, want 50ms", cfg.CycleDelay)
	}
	if cfg.RampSteps != 4 || cfg.RampSettle != 10*time.Millisecond {
		t.Fatalf("ramp = %d,%v, want 4,10ms", cfg.RampSteps, cfg.RampSettle)
	}
	if cfg.SampleTimeout != 2*time.Second {
		t.Fatalf("SampleTimeout = %v, want 2s", cfg.SampleTimeout)
	}
	if cfg.StartupDelay != 900*time.Millisecond {
		t.Fatalf("StartupDelay = %v, want default", cfg.StartupDelay)
	}
	if cfg.LCD.Contrast != 0x40 || cfg.LCD.Bias != 0x04 {
		t.Fatalf("LCD = %+v", cfg.LCD)
	}
	if cfg.ButtonTelemetry {
		t.Fatal("ButtonTelemetry = true, want false")
	}
	if p := cfg.Joints[sampler.Left].Policy; p != motion.SignedThreshold {
		t.Fatalf("left policy = %v, want signed-threshold", p)
	}
	claw := cfg.Joints[sampler.Claw]
	if claw.Limits != (motion.Limits{Min: 10, Max: 100}) || claw.Home != 45 {
		t.Fatalf("claw = %+v", claw)
	}
	if mid := cfg.Joints[sampler.Middle]; mid != motion.DefaultJoints()[sampler.Middle] {
		t.Fatalf("middle = %+v, want default", mid)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"bad duration", "[timing]\ncycle=soon\n", "cycle"},
		{"negative duration", "[timing]\nstartup=-1s\n", "negative"},
		{"bad ramp", "[timing]\nramp_steps=0\n", "ramp_steps"},
		{"contrast range", "[lcd]\ncontrast=200\n", "contrast"},
		{"bad policy", "[right]\npolicy=sticky\n", "policy"},
		{"inverted limits", "[middle]\nmin=100\nmax=10\n", "limits"},
		{"limits past servo range", "[middle]\nmax=200\n", "limits"},
		{"bad integer", "[claw]\nhome=ninety\n", "home"},
		{"home outside limits", "[left]\nhome=10\n", "home"},
		{"bad bool", "[telemetry]\nbuttons=maybe\n", "buttons"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := app.DefaultConfig()
			cfg, err := Load(writeConfig(t, tt.body), base)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.want)
			}
			if cfg != base {
				t.Fatal("Load() changed the config on error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.conf"), app.DefaultConfig()); err == nil {
		t.Fatal("Load() of a missing file succeeded")
	}
}
