// Package expand reconstructs the original byte sequence from a decoded
// rule table (the map[int][]grammar.Elem that internal/container.Decode
// produces), independent of the live Sequitur graph the grammar was built
// from.
package expand

import (
	"github.com/dekarrin/wot/internal/grammar"
	"github.com/dekarrin/wot/internal/woterr"
)

// frame tracks progress through one rule body during the walk: which
// element index comes next, and the fully-terminal accumulator the rule's
// own expansion is collected into (for memoization once the rule is
// exhausted).
type frame struct {
	rule int
	body []grammar.Elem
	pos  int
	acc  []byte
}

// Bytes expands rule 0 of rules fully to its terminal byte sequence using
// an explicit stack rather than native recursion, so expansion depth is
// bounded by available heap rather than goroutine stack. Fully
// terminal rule expansions are memoized as they're completed, so a rule
// referenced many times — the common case, since that repetition is exactly
// why Sequitur factored it into its own rule — is only walked once.
func Bytes(rules map[int][]grammar.Elem) ([]byte, error) {
	memo := make(map[int][]byte)
	onStack := make(map[int]bool)

	push := func(stack []*frame, n int) ([]*frame, error) {
		body, ok := rules[n]
		if !ok {
			return nil, woterr.Newf(woterr.UnknownSymbol, "rule table", "no rule numbered %d", n)
		}
		if onStack[n] {
			return nil, woterr.Newf(woterr.MalformedArtifact, "rule table", "rule %d recurses into itself", n)
		}
		onStack[n] = true
		return append(stack, &frame{rule: n, body: body}), nil
	}

	var stack []*frame
	var err error
	if stack, err = push(stack, 0); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if cached, ok := memo[top.rule]; ok && top.pos == 0 {
			top.acc = append(top.acc, cached...)
			top.pos = len(top.body)
		}

		if top.pos >= len(top.body) {
			onStack[top.rule] = false
			memo[top.rule] = top.acc
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.acc = append(parent.acc, top.acc...)
			}
			continue
		}

		e := top.body[top.pos]
		top.pos++
		if e.Terminal {
			top.acc = append(top.acc, e.Byte)
			continue
		}
		if stack, err = push(stack, e.RuleNumber); err != nil {
			return nil, err
		}
	}

	return memo[0], nil
}
