//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
)

type tinyGoHostHAL struct {
	logger  *tinyGoHostLogger
	led     *tinyGoHostLED
	adc     *simADC
	buttons *pinButtons
	servos  *simServos
	lcd     *simLCD
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no
// MCU pin mapping. The sticks stay centred and the buttons released.
func New() HAL {
	l := &tinyGoHostLogger{}
	gpio := newVirtualGPIO([]GPIOPin{
		newVirtualPin("BTN_A", GPIOCapInput|GPIOCapPullUp),
		newVirtualPin("BTN_B", GPIOCapInput|GPIOCapPullUp),
	})
	buttons, err := buttonsByName(gpio, "BTN_A", "BTN_B")
	if err != nil {
		panic(err)
	}
	led := &tinyGoHostLED{logger: l}
	return &tinyGoHostHAL{
		logger:  l,
		led:     led,
		adc:     newSimADC(newSimSticks(), 0),
		buttons: buttons,
		servos:  newSimServos(l),
		lcd:     newSimLCD(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LED() LED         { return h.led }
func (h *tinyGoHostHAL) ADC() ADC         { return h.adc }
func (h *tinyGoHostHAL) Buttons() Buttons { return h.buttons }
func (h *tinyGoHostHAL) Servos() Servos   { return h.servos }
func (h *tinyGoHostHAL) LCD() LCD         { return h.lcd }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	if l.on {
		return
	}
	l.on = true
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	if !l.on {
		return
	}
	l.on = false
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}
