package buildinfo

import (
	"strings"
	"testing"
)

func TestShortPrefersVersion(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.0"
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("Short() = %q, want v1.2.0", got)
	}
}

func TestLongUsesCommit(t *testing.T) {
	oldC, oldD := Commit, Date
	defer func() { Commit, Date = oldC, oldD }()

	Commit, Date = "abc123", "2024-05-01"
	if got := Long(); !strings.HasSuffix(got, "(abc123, 2024-05-01)") {
		t.Fatalf("Long() = %q", got)
	}
}
