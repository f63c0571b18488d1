package wot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEncodeDecode_RoundTrip(t *testing.T) {
	input := "abracadabraabracadabra, the quick brown fox jumps over the lazy dog"

	gr, err := Build(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	require.NoError(t, gr.CheckInvariants())

	data, err := Encode(gr)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestJoin_PublicAPI(t *testing.T) {
	a := NewGrammar()
	a.AppendAll([]byte("abcabcabc"))
	b := NewGrammar()
	b.AppendAll([]byte("defdefdef"))

	root := a.Join(b)
	require.NoError(t, a.CheckInvariants())
	assert.GreaterOrEqual(t, root, 0)

	data, err := Encode(a)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "abcabcabc", string(got))
}
