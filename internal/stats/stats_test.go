package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	r := Run{
		InputBytes:  1024,
		OutputBytes: 256,
		LiveRules:   12,
		MaxSymbol:   11,
		Duration:    3 * time.Millisecond,
	}

	data := Encode(r)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}
