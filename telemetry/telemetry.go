// Package telemetry formats and parses the per-cycle debug line:
//
//	"143, 130, 127, 92, false,true\r\n"
//
// The four raw samples come first, each followed by ", ". The button
// states (A then B) are optional.
package telemetry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mearm/motion"
	"mearm/sampler"
)

// MaxLineLen is the longest line Append produces.
const MaxLineLen = sampler.NumChannels*len("255, ") + len("false,false\r\n")

// ErrMalformed is wrapped by every Parse error.
var ErrMalformed = errors.New("telemetry: malformed line")

// Record is one cycle's debug output.
type Record struct {
	Samples    sampler.Set
	HasButtons bool
	Buttons    motion.Buttons
}

// Append appends the line for r to dst.
func Append(dst []byte, r Record) []byte {
	for _, v := range r.Samples {
		dst = strconv.AppendUint(dst, uint64(v), 10)
		dst = append(dst, ", "...)
	}
	if r.HasButtons {
		dst = strconv.AppendBool(dst, r.Buttons.Save)
		dst = append(dst, ',')
		dst = strconv.AppendBool(dst, r.Buttons.Restore)
	}
	return append(dst, '\r', '\n')
}

// Format returns the line for r.
func Format(r Record) string {
	var buf [MaxLineLen]byte
	return string(Append(buf[:0], r))
}

// Parse decodes one line. The line terminator is optional.
func Parse(line string) (Record, error) {
	var r Record
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	// A line without buttons ends in ", " and so has an empty last field.
	if len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	switch len(fields) {
	case sampler.NumChannels:
	case sampler.NumChannels + 2:
		r.HasButtons = true
	default:
		return Record{}, fmt.Errorf("%w: %d fields in %q", ErrMalformed, len(fields), line)
	}

	for i := 0; i < sampler.NumChannels; i++ {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return Record{}, fmt.Errorf("%w: sample %d: %w", ErrMalformed, i, err)
		}
		r.Samples[i] = uint8(v)
	}
	if r.HasButtons {
		a, err := strconv.ParseBool(fields[sampler.NumChannels])
		if err != nil {
			return Record{}, fmt.Errorf("%w: button A: %w", ErrMalformed, err)
		}
		b, err := strconv.ParseBool(fields[sampler.NumChannels+1])
		if err != nil {
			return Record{}, fmt.Errorf("%w: button B: %w", ErrMalformed, err)
		}
		r.Buttons = motion.Buttons{Save: a, Restore: b}
	}
	return r, nil
}
