// Command armmon watches the controller's debug channel. It mirrors the
// joint targets from the reported stick readings and charts them.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Monitor MonitorCommand `command:"monitor" alias:"mon" description:"Follow the debug UART of a running arm"`
	Replay  ReplayCommand  `command:"replay" description:"Play back a captured telemetry file"`
	Ports   PortsCommand   `command:"ports" description:"List serial ports"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "armmon - telemetry monitor for the meArm joystick controller"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
