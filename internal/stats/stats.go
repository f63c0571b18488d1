// Package stats defines the optional run-stats sidecar record the CLI can
// write next to an encoded artifact: an operator convenience, not part of
// the container format itself.
package stats

import (
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
)

// Run records one encode or decode invocation's size and timing.
type Run struct {
	InputBytes  int
	OutputBytes int
	LiveRules   int
	MaxSymbol   int
	Duration    time.Duration
}

// Encode serializes r with REZI. Unlike the container format (which is
// mandated byte-for-byte and has its own framing), this sidecar has no
// compatibility requirement, so REZI's own generic struct encoding is a
// direct fit.
func Encode(r Run) []byte {
	return rezi.EncBinary(r)
}

// Decode parses a sidecar record previously produced by Encode.
func Decode(data []byte) (Run, error) {
	var r Run
	n, err := rezi.DecBinary(data, &r)
	if err != nil {
		return Run{}, fmt.Errorf("rezi decode: %w", err)
	}
	if n != len(data) {
		return Run{}, fmt.Errorf("rezi decode: consumed %d/%d bytes", n, len(data))
	}
	return r, nil
}
