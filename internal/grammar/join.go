package grammar

import (
	"strconv"
	"strings"
)

// This file holds the optional join primitive: merging two grammars built
// from disjoint input segments into one. It mirrors mrwot.py's
// Grammar.join / map_common_rules, which stitches two independently-built
// grammars together by first unifying their structurally-equivalent
// rules and only then allocating fresh numbers for the rest.

// vectorKey renders a rule body as a string usable as a map key, so rule
// bodies can be compared for structural equality. translate, if non-nil,
// rewrites a nonterminal's rule number before encoding; if translate
// returns ok=false for any nonterminal in body, vectorKey itself reports
// ok=false (the body is not yet fully rewritable).
func vectorKey(body []Elem, translate func(int) (int, bool)) (key string, ok bool) {
	var sb strings.Builder
	for _, e := range body {
		if e.Terminal {
			sb.WriteString("t")
			sb.WriteString(strconv.Itoa(int(e.Byte)))
			sb.WriteByte(',')
			continue
		}
		n := e.RuleNumber
		if translate != nil {
			tn, translated := translate(n)
			if !translated {
				return "", false
			}
			n = tn
		}
		sb.WriteString("n")
		sb.WriteString(strconv.Itoa(n))
		sb.WriteByte(',')
	}
	return sb.String(), true
}

func isTerminalOnly(body []Elem) bool {
	for _, e := range body {
		if !e.Terminal {
			return false
		}
	}
	return true
}

// mapEquivalentRules finds rule pairs (my number, other number) whose
// bodies are equal under some consistent renaming, by fixed-point closure
// starting from rules composed only of terminals.
func (g *Grammar) mapEquivalentRules(other *Grammar) map[int]int {
	mapping := make(map[int]int) // other rule number -> my rule number

	myRules := g.Rules()
	otherRules := other.Rules()

	myVecToNum := make(map[string]int, len(myRules))
	myRemaining := make(map[string]bool, len(myRules))
	for _, r := range myRules {
		key, _ := vectorKey(r.Body(), nil)
		myVecToNum[key] = r.Number
		myRemaining[key] = true
	}

	otherRemaining := make(map[int][]Elem, len(otherRules))
	for _, r := range otherRules {
		otherRemaining[r.Number] = r.Body()
	}

	translate := func(n int) (int, bool) {
		mine, ok := mapping[n]
		return mine, ok
	}

	matchRound := func(onlyTerminal bool) bool {
		changed := false
		for otherNum, body := range otherRemaining {
			var key string
			var ok bool
			if onlyTerminal {
				if !isTerminalOnly(body) {
					continue
				}
				key, ok = vectorKey(body, nil)
			} else {
				key, ok = vectorKey(body, translate)
			}
			if !ok {
				continue
			}
			if !myRemaining[key] {
				continue
			}
			mapping[otherNum] = myVecToNum[key]
			delete(myRemaining, key)
			delete(otherRemaining, otherNum)
			changed = true
		}
		return changed
	}

	// Round 0: terminal-only vectors need no translation at all.
	matchRound(true)

	// Then repeatedly rewrite remaining other-vectors through the mapping
	// built so far and look for new matches, until a pass finds none.
	for matchRound(false) {
	}

	return mapping
}

// Join merges other into g: every rule of g, every rule of other
// (renumbered, with structurally-equivalent rules unified rather than
// duplicated), and an invariant-restored graph. It returns the rule number
// in g that now represents other's start rule, letting a caller stitch
// segment roots together.
func (g *Grammar) Join(other *Grammar) int {
	mapping := g.mapEquivalentRules(other) // other number -> my number

	otherRules := other.Rules()
	freshlyAllocated := make(map[int]bool, len(otherRules))

	// Allocate new rule numbers in g for every other-rule not already
	// unified with one of mine.
	for _, r := range otherRules {
		if _, unified := mapping[r.Number]; unified {
			continue
		}
		newRule := g.newRule()
		mapping[r.Number] = newRule.Number
		freshlyAllocated[r.Number] = true
	}

	// Copy bodies of the newly allocated rules only (unified rules already
	// have an equivalent body in g), translating nonterminal elements
	// through the combined mapping, and re-running check on each inserted
	// digram so invariants hold across the merged graph.
	for _, r := range otherRules {
		if !freshlyAllocated[r.Number] {
			continue
		}
		myRule := g.Rule(mapping[r.Number])
		insertPoint := myRule.guard
		for _, e := range r.Body() {
			var newSym *symbol
			if e.Terminal {
				newSym = newTerminal(e.Byte)
			} else {
				target := g.Rule(mapping[e.RuleNumber])
				newSym = newNonterminal(target)
			}
			g.insertAfter(insertPoint, newSym)
			g.check(insertPoint)
			insertPoint = insertPoint.next
		}
	}

	return mapping[other.Start().Number]
}
