package grammar

import (
	"fmt"
	"strings"
)

// Grammar is the pair (rule table, digram index) that makes up the whole
// inferred CFG at some instant. It owns every rule and symbol in the
// graph; there is no global state, so distinct Grammar values never share
// a digram index.
type Grammar struct {
	rules   []*Rule
	digrams *digramIndex
}

// New builds an empty Grammar: a single rule 0 (the start rule) with an
// empty body.
func New() *Grammar {
	g := &Grammar{digrams: newDigramIndex()}
	g.newRule() // rule 0, the start rule
	return g
}

// Start returns rule 0.
func (g *Grammar) Start() *Rule {
	return g.rules[0]
}

// Dump renders the grammar in a usage-annotated notation, e.g.
// "R0 -> R1 R1 (0)\nR1 -> a b (2)\n". It exists for tests and debugging; it
// is not part of the container format and the CLI does not expose it by
// default.
func (g *Grammar) Dump() string {
	var sb strings.Builder
	for _, r := range g.Rules() {
		fmt.Fprintf(&sb, "R%d ->", r.Number)
		for _, e := range r.Body() {
			if e.Terminal {
				sb.WriteByte(' ')
				sb.WriteString(printableByte(e.Byte))
			} else {
				fmt.Fprintf(&sb, " R%d", e.RuleNumber)
			}
		}
		fmt.Fprintf(&sb, " (%d)\n", r.RefCount())
	}
	return sb.String()
}

func printableByte(b byte) string {
	switch b {
	case ' ':
		return "_"
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	}
	if b < 0x20 || b >= 0x7f {
		return fmt.Sprintf("\\x%02x", b)
	}
	return string(rune(b))
}
