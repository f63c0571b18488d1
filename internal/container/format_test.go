package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/wot/internal/grammar"
	"github.com/dekarrin/wot/internal/woterr"
)

func decodeSame(t *testing.T, s string) {
	t.Helper()
	g := grammar.New()
	g.AppendAll([]byte(s))
	require.NoError(t, g.CheckInvariants())

	data, err := Encode(g)
	require.NoError(t, err)

	rules, err := Decode(data)
	require.NoError(t, err)

	// rule 0 is always the start rule, and the artifact keeps the same
	// native rule numbers the live graph used.
	var out []byte
	var walk func(n int)
	walk = func(n int) {
		for _, e := range rules[n] {
			if e.Terminal {
				out = append(out, e.Byte)
			} else {
				walk(e.RuleNumber)
			}
		}
	}
	walk(0)

	assert.Equal(t, s, string(out))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []string{
		"abracadabraabracadabra",
		"11111211111",
		"aaaa",
		"x",
		"",
		"abcdefghijklmnopqrstuv",
	}
	for _, c := range cases {
		decodeSame(t, c)
	}
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	g := grammar.New()
	g.AppendAll([]byte("hello world"))
	data, err := Encode(g)
	require.NoError(t, err)

	data[0] = 'X'
	_, err = Decode(data)
	require.Error(t, err)
	kind, ok := woterr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, woterr.MalformedArtifact, kind)
}

func TestDecode_RejectsTruncatedArtifact(t *testing.T) {
	g := grammar.New()
	g.AppendAll([]byte("hello world, hello world"))
	data, err := Encode(g)
	require.NoError(t, err)

	_, err = Decode(data[:len(data)/2])
	require.Error(t, err)
	_, ok := woterr.KindOf(err)
	assert.True(t, ok)
}

func TestEncodeDecode_PreservesNativeRuleNumbers(t *testing.T) {
	g := grammar.New()
	g.AppendAll([]byte("abcabcabcxyzxyzxyz"))
	require.NoError(t, g.CheckInvariants())

	live := g.Rules()
	require.Greater(t, g.MaxRuleNumber()+1, len(live),
		"fixture should exercise at least one tombstoned rule number for this test to mean anything")

	data, err := Encode(g)
	require.NoError(t, err)

	rules, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, len(live), len(rules))
	for _, r := range live {
		_, ok := rules[r.Number]
		assert.Truef(t, ok, "decoded artifact is missing native rule number %d", r.Number)
	}
}

func TestDecode_RejectsBadOffsetCount(t *testing.T) {
	g := grammar.New()
	g.AppendAll([]byte("hello world, hello world"))
	data, err := Encode(g)
	require.NoError(t, err)

	// offset_count sits right after magic(4) + max_symbol(4) +
	// term_hist(256*4) + nonterm_hist; corrupt it to something impossible.
	offsetCountPos := 4 + 4 + 256*4 + (int(data[4])+1)*4
	data[offsetCountPos] = 0xFF

	_, err = Decode(data)
	require.Error(t, err)
	kind, ok := woterr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, woterr.HistogramInconsistency, kind)
}
