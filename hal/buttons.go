package hal

import "fmt"

// pinButtons reads two active-low, pulled-up lines.
type pinButtons struct {
	a, b GPIOPin
}

func newPinButtons(a, b GPIOPin) (*pinButtons, error) {
	for _, p := range []GPIOPin{a, b} {
		if p == nil {
			return nil, fmt.Errorf("buttons: missing pin")
		}
		if err := p.Configure(GPIOModeInput, GPIOPullUp); err != nil {
			return nil, fmt.Errorf("buttons: %w", err)
		}
	}
	return &pinButtons{a: a, b: b}, nil
}

// buttonsByName wires the two button lines found in g under the given
// names.
func buttonsByName(g GPIO, a, b string) (*pinButtons, error) {
	pa, pb := pinByName(g, a), pinByName(g, b)
	if pa == nil {
		return nil, fmt.Errorf("buttons: no pin %q", a)
	}
	if pb == nil {
		return nil, fmt.Errorf("buttons: no pin %q", b)
	}
	return newPinButtons(pa, pb)
}

func (b *pinButtons) Read() (bool, bool) {
	return pressed(b.a), pressed(b.b)
}

// A line that cannot be read counts as released.
func pressed(p GPIOPin) bool {
	level, err := p.Read()
	return err == nil && !level
}
