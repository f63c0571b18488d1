package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrom(s string) *Grammar {
	g := New()
	g.AppendAll([]byte(s))
	return g
}

func TestGrammar_Abracadabra(t *testing.T) {
	g := buildFrom("abracadabraabracadabra")

	require.NoError(t, g.CheckInvariants())
	assert.Equal(t, "abracadabraabracadabra", string(g.ExpandLive()))

	// Rule numbers are the engine's allocation numbers: rules 1, 2 and 4-10
	// are created and tombstoned along the way, so the live rules are 0, 3
	// and 11 (R0 -> R11 R11, R11 -> R3 c a d R3, R3 -> a b r a).
	rules := g.Rules()
	require.Len(t, rules, 3)

	assert.Equal(t, []Elem{NonTerminalElem(11), NonTerminalElem(11)}, rules[0].Body())
	assert.Equal(t, 0, rules[0].RefCount())

	assert.Equal(t, []Elem{
		TerminalElem('a'), TerminalElem('b'), TerminalElem('r'), TerminalElem('a'),
	}, rules[1].Body())
	assert.Equal(t, 2, rules[1].RefCount())

	assert.Equal(t, []Elem{
		NonTerminalElem(3), TerminalElem('c'), TerminalElem('a'), TerminalElem('d'), NonTerminalElem(3),
	}, rules[2].Body())
	assert.Equal(t, 2, rules[2].RefCount())
}

func TestGrammar_RepeatedOneWithTripleDigit(t *testing.T) {
	g := buildFrom("11111211111")

	require.NoError(t, g.CheckInvariants())
	assert.Equal(t, "11111211111", string(g.ExpandLive()))

	rules := g.Rules()
	require.Len(t, rules, 3)

	assert.Equal(t, []Elem{
		NonTerminalElem(1), NonTerminalElem(2), TerminalElem('2'), NonTerminalElem(2), NonTerminalElem(1),
	}, rules[0].Body())
	assert.Equal(t, 0, rules[0].RefCount())

	assert.Equal(t, []Elem{TerminalElem('1'), TerminalElem('1')}, rules[1].Body())
	assert.Equal(t, 3, rules[1].RefCount())

	assert.Equal(t, []Elem{NonTerminalElem(1), TerminalElem('1')}, rules[2].Body())
	assert.Equal(t, 2, rules[2].RefCount())
}

func TestGrammar_Triple(t *testing.T) {
	g := buildFrom("aaaa")

	require.NoError(t, g.CheckInvariants())
	assert.Equal(t, "aaaa", string(g.ExpandLive()))

	rules := g.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, []Elem{NonTerminalElem(1), NonTerminalElem(1)}, rules[0].Body())
	assert.Equal(t, []Elem{TerminalElem('a'), TerminalElem('a')}, rules[1].Body())
	assert.Equal(t, 2, rules[1].RefCount())
}

func TestGrammar_SingleByte(t *testing.T) {
	g := buildFrom("x")

	require.NoError(t, g.CheckInvariants())
	assert.Equal(t, "x", string(g.ExpandLive()))

	rules := g.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, []Elem{TerminalElem('x')}, rules[0].Body())
}

func TestGrammar_Empty(t *testing.T) {
	g := New()

	require.NoError(t, g.CheckInvariants())
	assert.Equal(t, "", string(g.ExpandLive()))

	rules := g.Rules()
	require.Len(t, rules, 1)
	assert.Empty(t, rules[0].Body())
}

func TestGrammar_NoRepeats(t *testing.T) {
	input := "abcdefghijklmnopqrstuv"
	g := buildFrom(input)

	require.NoError(t, g.CheckInvariants())
	assert.Equal(t, input, string(g.ExpandLive()))

	rules := g.Rules()
	require.Len(t, rules, 1)
	assert.Len(t, rules[0].Body(), len(input))
}

func TestGrammar_InvariantsHoldAfterEveryAppend(t *testing.T) {
	input := "the quick brown fox jumps over the lazy dog, the quick brown fox jumps again"
	g := New()
	for i := 0; i < len(input); i++ {
		g.Append(input[i])
		require.NoErrorf(t, g.CheckInvariants(), "after appending byte %d (%q)", i, input[i])
	}
	assert.Equal(t, input, string(g.ExpandLive()))
}

func TestGrammar_Join(t *testing.T) {
	g1 := buildFrom("abcabcabc")
	g2 := buildFrom("defdefdef")

	root2 := g1.Join(g2)

	require.NoError(t, g1.CheckInvariants())

	// The joined grammar must still contain g1's own content reachable from
	// its own start rule, and must now also be able to reach g2's content
	// from the returned root.
	assert.Equal(t, "abcabcabc", string(g1.ExpandLive()))

	got := expandFrom(g1, root2)
	assert.Equal(t, "defdefdef", got)
}

// expandFrom expands the rule numbered root within g, for asserting on a
// rule that Join returned but that isn't g's own start rule.
func expandFrom(g *Grammar, root int) string {
	var out []byte
	var walk func(r *Rule)
	walk = func(r *Rule) {
		for s := r.first(); !s.isGuard(); s = s.next {
			if s.kind == kindTerminal {
				out = append(out, s.term)
			} else {
				walk(s.rule)
			}
		}
	}
	walk(g.Rule(root))
	return string(out)
}
