package hal

// converter models the conversion pipeline of a free-running ADC: the
// result delivered at each event belongs to the channel that was selected
// one event before the current selection.
type converter struct {
	read     func(ch uint8) uint8
	mux      uint8
	inFlight uint8
}

func (c *converter) step(h ADCHandler) {
	result := c.read(c.inFlight)
	c.inFlight = c.mux
	c.mux = h(result)
}
