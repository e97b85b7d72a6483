package hal

import (
	"errors"

	"mearm/display"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// ADCHandler is called once per completed conversion with the 8-bit
// result. It returns the channel the converter must sample next.
type ADCHandler func(result uint8) uint8

// ADC is a free-running multi-channel converter. Results trail the
// channel selection by one conversion.
type ADC interface {
	Start(h ADCHandler) error
	Stop()
}

// Buttons reads the two stick buttons. true means pressed.
type Buttons interface {
	Read() (a, b bool)
}

// Servos drives the hobby servos of the arm.
type Servos interface {
	// Activate enables the pulse outputs. It must be called once before
	// the first SetAngle.
	Activate() error
	SetAngle(servo int, angle uint8) error
}

// LCD is the command/data link to the PCD8544 panel.
type LCD interface {
	display.Transport
	Reset() error
}

// HAL provides the only contact point between the controller and the
// outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	ADC() ADC
	Buttons() Buttons
	Servos() Servos
	LCD() LCD
}
