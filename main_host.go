//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"periph.io/x/conn/v3/physic"

	"mearm/app"
	"mearm/hal"
	"mearm/internal/armconfig"
	"mearm/internal/buildinfo"
)

func main() {
	var (
		cfg     hal.HeadlessConfig
		opts    hal.Options
		pcfg    = hal.DefaultPeriphConfig
		conf    string
		periph  bool
		version bool
		spiHz   int64
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.DurationVar(&cfg.Duration, "for", 0, "Stop after this long in headless mode (0 = run until interrupted).")
	flag.StringVar(&cfg.Snapshot, "snapshot", "", "Write the last panel frame to this PNG file on exit (headless).")
	flag.IntVar(&cfg.SnapshotScale, "scale", 4, "Size of one panel dot in the snapshot.")
	flag.DurationVar(&opts.ADCPeriod, "adc-period", 0, "Time between simulated conversions (0 = default).")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Log every servo angle change and LED toggle.")
	flag.BoolVar(&opts.Demo, "demo", false, "Sweep the sticks and pulse the save button on their own.")
	flag.StringVar(&conf, "config", "", "Arm config file.")
	flag.BoolVar(&periph, "periph", false, "Drive a real PCD8544 panel and buttons through periph.io (headless).")
	flag.StringVar(&pcfg.SPI, "spi", pcfg.SPI, "SPI port for -periph (empty = first).")
	flag.Int64Var(&spiHz, "spi-hz", int64(pcfg.Speed/physic.Hertz), "SPI clock for -periph.")
	flag.StringVar(&pcfg.DC, "dc", pcfg.DC, "Panel data/command pin for -periph.")
	flag.StringVar(&pcfg.RST, "rst", pcfg.RST, "Panel reset pin for -periph.")
	flag.StringVar(&pcfg.BtnA, "btn-a", pcfg.BtnA, "Save button pin for -periph.")
	flag.StringVar(&pcfg.BtnB, "btn-b", pcfg.BtnB, "Restore button pin for -periph.")
	flag.BoolVar(&version, "version", false, "Print the build identifier and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Long())
		return
	}
	pcfg.Speed = physic.Frequency(spiHz) * physic.Hertz

	acfg := app.DefaultConfig()
	if conf != "" {
		var err error
		if acfg, err = armconfig.Load(conf, acfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	run := func(ctx context.Context, h hal.HAL) error {
		s, err := app.New(h, acfg)
		if err != nil {
			return err
		}
		return s.Run(ctx)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case periph:
		err = hal.RunPeriph(ctx, opts, pcfg, cfg, run)
	case cfg.Enabled:
		err = hal.RunHeadless(ctx, opts, cfg, run)
	default:
		err = hal.RunWindow(opts, run)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
