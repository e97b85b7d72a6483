//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Options selects the host simulation behaviour.
type Options struct {
	// ADCPeriod is the time between simulated conversions.
	ADCPeriod time.Duration
	// Verbose logs every servo angle change.
	Verbose bool
	// Demo drives the save button from a slow pulse train instead of
	// leaving it to the keyboard.
	Demo bool
}

type hostHAL struct {
	logger  *hostLogger
	led     *hostLED
	gpio    GPIO
	sticks  *simSticks
	adc     *simADC
	buttons Buttons
	servos  *simServos
	lcd     LCD
	panel   *simLCD // emulated panel; mirrors lcd when that is real hardware

	btnA, btnB *virtualPin
}

// New returns a host HAL implementation with default options.
func New() HAL {
	h, err := newHostHAL(Options{})
	if err != nil {
		panic(err)
	}
	return h
}

// NewWithOptions returns a host HAL implementation.
func NewWithOptions(opts Options) (HAL, error) {
	return newHostHAL(opts)
}

func newHostHAL(opts Options) (*hostHAL, error) {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger, quiet: !opts.Verbose}
	btnA := newVirtualPin("BTN_A", GPIOCapInput|GPIOCapPullUp)
	btnB := newVirtualPin("BTN_B", GPIOCapInput|GPIOCapPullUp)
	// Once every 15s the save button is held for 300ms.
	savePulse := newSignalPin("SIG_SAVE", 15*time.Second, 15*time.Second-300*time.Millisecond)
	gpio := newVirtualGPIO([]GPIOPin{btnA, btnB, savePulse})

	srcA := "BTN_A"
	if opts.Demo {
		srcA = "SIG_SAVE"
	}
	buttons, err := buttonsByName(gpio, srcA, "BTN_B")
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	var servoLog Logger
	if opts.Verbose {
		servoLog = logger
	}
	sticks := newSimSticks()
	panel := newSimLCD()
	return &hostHAL{
		logger:  logger,
		led:     led,
		gpio:    gpio,
		sticks:  sticks,
		adc:     newSimADC(sticks, opts.ADCPeriod),
		buttons: buttons,
		servos:  newSimServos(servoLog),
		lcd:     panel,
		panel:   panel,
		btnA:    btnA,
		btnB:    btnB,
	}, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) ADC() ADC         { return h.adc }
func (h *hostHAL) Buttons() Buttons { return h.buttons }
func (h *hostHAL) Servos() Servos   { return h.servos }
func (h *hostHAL) LCD() LCD         { return h.lcd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	quiet  bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	if !l.quiet {
		l.logger.WriteLineString("led: HIGH")
	}
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	if !l.quiet {
		l.logger.WriteLineString("led: LOW")
	}
}

func (l *hostLED) isOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
