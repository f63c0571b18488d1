package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/wot/internal/container"
	"github.com/dekarrin/wot/internal/grammar"
	"github.com/dekarrin/wot/internal/woterr"
)

func TestBytes_RoundTripsThroughContainer(t *testing.T) {
	cases := []string{
		"abracadabraabracadabra",
		"11111211111",
		"aaaa",
		"x",
		"",
		"the quick brown fox jumps over the lazy dog, the quick brown fox jumps again",
	}
	for _, s := range cases {
		g := grammar.New()
		g.AppendAll([]byte(s))

		data, err := container.Encode(g)
		require.NoError(t, err)

		rules, err := container.Decode(data)
		require.NoError(t, err)

		got, err := Bytes(rules)
		require.NoError(t, err)
		assert.Equal(t, s, string(got))
	}
}

func TestBytes_UnknownRuleReference(t *testing.T) {
	rules := map[int][]grammar.Elem{
		0: {grammar.NonTerminalElem(1)},
	}
	_, err := Bytes(rules)
	require.Error(t, err)
	kind, ok := woterr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, woterr.UnknownSymbol, kind)
}

func TestBytes_DetectsSelfRecursion(t *testing.T) {
	rules := map[int][]grammar.Elem{
		0: {grammar.NonTerminalElem(0)},
	}
	_, err := Bytes(rules)
	require.Error(t, err)
	kind, ok := woterr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, woterr.MalformedArtifact, kind)
}
