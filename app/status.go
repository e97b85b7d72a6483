package app

import "mearm/motion"

// Status is the packed view of the last cycle published for observers on
// other goroutines. Cycle only carries the low StatusCycleBits of the
// cycle count and wraps back to zero after that.
type Status struct {
	Cycle   uint32
	Targets [motion.NumJoints]uint8
	Buttons motion.Buttons
}

const (
	statusSave    = 1 << 32
	statusRestore = 1 << 33
	statusCycle   = 34

	// StatusCycleBits is the width of Status.Cycle. Targets and buttons
	// take the low 34 bits of the shared word.
	StatusCycleBits = 64 - statusCycle
	statusCycleMask = 1<<StatusCycleBits - 1
)

func (s *System) publish(snap motion.Snapshot) {
	var v uint64
	for i, j := range snap.Joints {
		v |= uint64(uint8(j.Target)) << (8 * i)
	}
	if snap.Buttons.Save {
		v |= statusSave
	}
	if snap.Buttons.Restore {
		v |= statusRestore
	}
	v |= uint64(s.cycles&statusCycleMask) << statusCycle
	s.k.Status().Write(v)
}

// Status returns the last published status. It is safe to call from any
// goroutine.
func (s *System) Status() Status {
	_, v := s.k.Status().Read()
	var st Status
	for i := range st.Targets {
		st.Targets[i] = uint8(v >> (8 * i))
	}
	st.Buttons.Save = v&statusSave != 0
	st.Buttons.Restore = v&statusRestore != 0
	st.Cycle = uint32(v>>statusCycle) & statusCycleMask
	return st
}
