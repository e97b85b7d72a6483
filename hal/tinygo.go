//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// Board wiring. The stick axes sit on the four ADC inputs in the order
// middle, left, right, claw.
var (
	stickPins = [numSticks]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}

	buttonAPin = machine.GPIO2
	buttonBPin = machine.GPIO3

	lcdCE  = machine.GPIO7
	lcdDC  = machine.GPIO24
	lcdRST = machine.GPIO25

	lcdSPIConfig = machine.SPIConfig{
		Frequency: 4_000_000,
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		SDI:       machine.GPIO20,
		Mode:      0,
	}
)

const adcPeriod = 250 * time.Microsecond

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinLED
	adc     *boardADC
	buttons *pinButtons
	servos  *boardServos
	lcd     LCD
}

// New returns the RP2040 board HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 9600 8N1.
// Servos: claw, right, left, middle on GP8..GP11 (PWM4 A/B, PWM5 A/B).
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 9600,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	gpio := newVirtualGPIO([]GPIOPin{
		newMachinePin("BTN_A", buttonAPin),
		newMachinePin("BTN_B", buttonBPin),
	})
	buttons, err := buttonsByName(gpio, "BTN_A", "BTN_B")
	if err != nil {
		panic(err)
	}

	lcd, err := newSPILCD(machine.SPI0, lcdSPIConfig, lcdCE, lcdDC, lcdRST)
	if err != nil {
		panic(err)
	}

	return &tinyGoHAL{
		logger:  logger,
		led:     led,
		adc:     newBoardADC(stickPins, adcPeriod),
		buttons: buttons,
		servos: newBoardServos([]servoPin{
			{pwm: machine.PWM4, pin: machine.GPIO8},
			{pwm: machine.PWM4, pin: machine.GPIO9},
			{pwm: machine.PWM5, pin: machine.GPIO10},
			{pwm: machine.PWM5, pin: machine.GPIO11},
		}),
		lcd: lcd,
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) ADC() ADC         { return h.adc }
func (h *tinyGoHAL) Buttons() Buttons { return h.buttons }
func (h *tinyGoHAL) Servos() Servos   { return h.servos }
func (h *tinyGoHAL) LCD() LCD         { return h.lcd }
