package telemetry

import (
	"errors"
	"testing"

	"mearm/motion"
	"mearm/sampler"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		r    Record
		want string
	}{
		{
			r:    Record{Samples: sampler.Set{143, 130, 127, 92}},
			want: "143, 130, 127, 92, \r\n",
		},
		{
			r:    Record{Samples: sampler.Set{0, 255, 7, 10}, HasButtons: true, Buttons: motion.Buttons{Save: true}},
			want: "0, 255, 7, 10, true,false\r\n",
		},
		{
			r:    Record{Samples: sampler.Set{255, 255, 255, 255}, HasButtons: true, Buttons: motion.Buttons{Save: false, Restore: false}},
			want: "255, 255, 255, 255, false,false\r\n",
		},
	}
	for _, tt := range tests {
		if got := Format(tt.r); got != tt.want {
			t.Fatalf("Format(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestMaxLineLen(t *testing.T) {
	r := Record{Samples: sampler.Set{255, 255, 255, 255}, HasButtons: true}
	if got := len(Format(r)); got != MaxLineLen {
		t.Fatalf("len(Format()) = %d, want %d", got, MaxLineLen)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse("1, 2, 3, 4, false,true\r\n")
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	want := Record{Samples: sampler.Set{1, 2, 3, 4}, HasButtons: true, Buttons: motion.Buttons{Restore: true}}
	if r != want {
		t.Fatalf("Parse() = %+v, want %+v", r, want)
	}

	r, err = Parse("9, 8, 7, 6, ")
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if r.HasButtons || r.Samples != (sampler.Set{9, 8, 7, 6}) {
		t.Fatalf("Parse() = %+v", r)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"1, 2, 3\r\n",
		"1, 2, 3, 256, \r\n",
		"1, 2, x, 4, \r\n",
		"1, 2, 3, 4, maybe,true\r\n",
		"1, 2, 3, 4, true\r\n",
	} {
		if _, err := Parse(line); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Parse(%q) err = %v, want %v", line, err, ErrMalformed)
		}
	}
}
