package kernel

// Endpoint identifies a message source or destination.
type Endpoint uint8

const (
	// EPControl is the control loop. It only sends.
	EPControl Endpoint = iota
	// EPLogger receives debug text for the logger drain.
	EPLogger

	numEndpoints
)
