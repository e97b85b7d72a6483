//go:build tinygo && baremetal

package hal

import (
	"errors"
	"fmt"
	"machine"

	"tinygo.org/x/drivers/servo"
)

type servoPin struct {
	pwm servo.PWM
	pin machine.Pin
}

// boardServos drives SG90 servos through the PWM slices of the board.
// Outputs are configured on Activate.
type boardServos struct {
	pins   []servoPin
	servos []servo.Servo
}

func newBoardServos(pins []servoPin) *boardServos {
	return &boardServos{pins: pins}
}

func (s *boardServos) Activate() error {
	if s.servos != nil {
		return nil
	}
	arrays := map[servo.PWM]servo.Array{}
	out := make([]servo.Servo, 0, len(s.pins))
	for i, sp := range s.pins {
		arr, ok := arrays[sp.pwm]
		if !ok {
			var err error
			arr, err = servo.NewArray(sp.pwm)
			if err != nil {
				return fmt.Errorf("servo %d: %w", i, err)
			}
			arrays[sp.pwm] = arr
		}
		sv, err := arr.Add(sp.pin)
		if err != nil {
			return fmt.Errorf("servo %d: %w", i, err)
		}
		out = append(out, sv)
	}
	s.servos = out
	return nil
}

func (s *boardServos) SetAngle(ch int, angle uint8) error {
	if s.servos == nil {
		return errors.New("servo: outputs not active")
	}
	if ch < 0 || ch >= len(s.servos) {
		return fmt.Errorf("servo: no channel %d", ch)
	}
	return s.servos[ch].SetAngle(int(angle))
}
