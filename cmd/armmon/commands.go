package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.bug.st/serial"

	"mearm/motion"
)

type MonitorCommand struct {
	Port   string `long:"port" short:"p" required:"true" description:"Serial port of the debug UART"`
	Baud   int    `long:"baud" default:"9600" description:"Baud rate"`
	Config string `long:"config" description:"Arm config file for joint limits and policies"`
	Plain  bool   `long:"plain" description:"Print one line per cycle instead of the chart"`
}

type ReplayCommand struct {
	Pace   time.Duration `long:"pace" default:"100ms" description:"Delay between lines (0 = as fast as possible)"`
	Config string        `long:"config" description:"Arm config file for joint limits and policies"`
	Plain  bool          `long:"plain" description:"Print one line per cycle instead of the chart"`
	Args   struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

type PortsCommand struct{}

func (c *MonitorCommand) Execute(args []string) error {
	joints, err := jointTable(c.Config)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	port, err := serial.Open(c.Port, &serial.Mode{BaudRate: c.Baud})
	if err != nil {
		log.Fatalf("open %s: %v", c.Port, err)
	}
	defer port.Close()

	title := fmt.Sprintf("%s @ %d", c.Port, c.Baud)
	return watch(title, port, joints, 0, c.Plain)
}

func (c *ReplayCommand) Execute(args []string) error {
	joints, err := jointTable(c.Config)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	f, err := os.Open(c.Args.File)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}
	defer f.Close()
	return watch(c.Args.File, f, joints, c.Pace, c.Plain)
}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func watch(title string, r io.ReadCloser, joints [motion.NumJoints]motion.JointConfig, pace time.Duration, plain bool) error {
	m, err := newMirror(joints)
	if err != nil {
		log.Fatalf("joints: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if plain {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		return printPlain(ctx, w, r, m, &joints, pace)
	}

	f := newFeed()
	go func() {
		if err := f.run(ctx, r, m, pace); err != nil && !errors.Is(err, context.Canceled) {
			f.log("read: %v", err)
		}
	}()

	p := tea.NewProgram(newMonitorModel(title, joints, f), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
	// Unblocks a pending serial read.
	r.Close()
	return nil
}

// printPlain writes one summary line per telemetry line and passes other
// text through as comments.
func printPlain(ctx context.Context, w io.Writer, r io.Reader, m *mirror, joints *[motion.NumJoints]motion.JointConfig, pace time.Duration) error {
	return scan(ctx, r, m, pace, func(s motion.Snapshot) error {
		_, err := fmt.Fprintln(w, summary(joints, s))
		return err
	}, func(line string) {
		fmt.Fprintln(w, "# "+line)
	})
}
