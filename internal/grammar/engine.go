package grammar

// This file holds the Sequitur engine proper: append, check, processMatch
// and substitute. Together they maintain digram uniqueness and rule
// utility (every rule other than the start rule is referenced at least
// twice) after every appended symbol.

// Append inserts one input byte at the end of rule 0's body and restores
// the invariants. It is the engine's sole entry point.
func (g *Grammar) Append(b byte) {
	start := g.Start()
	last := start.last()
	g.insertAfter(last, newTerminal(b))
	g.check(last)
}

// AppendAll appends every byte of data in order. It may be called
// repeatedly across chunks of a streamed input (original_source/wot's
// codec.py reads and builds in 64KiB chunks); each call picks up exactly
// where the last left off since all state lives in the Grammar.
func (g *Grammar) AppendAll(data []byte) {
	for _, b := range data {
		g.Append(b)
	}
}

// check inspects the digram (sym, sym.next). If sym or its successor is a
// guard there is nothing to do. If the digram's key is unseen, sym becomes
// its canonical occurrence. If the existing canonical occurrence's
// successor is sym itself (the two digrams overlap inside a run of three
// equal symbols), nothing to do. Otherwise a match has been found and is
// dispatched to processMatch. It reports whether a substitution occurred,
// so callers that need to check a second boundary (substitute, below) know
// whether the first check already rewrote the graph there.
func (g *Grammar) check(sym *symbol) (substituted bool) {
	if sym.isGuard() || sym.next.isGuard() {
		return false
	}
	key := sym.keyOf()
	match, ok := g.digrams.lookup(key)
	if !ok {
		g.digrams.insert(key, sym)
		return false
	}
	if match.next == sym {
		return false
	}
	g.processMatch(sym, match)
	return true
}

// processMatch decides between two cases: the matching digram is already
// the entire two-symbol body of some rule (whole-rule match, no new rule
// created), or a fresh rule must be minted to hold the repeated digram.
func (g *Grammar) processMatch(sym, match *symbol) {
	var rule *Rule

	if match.prev.isGuard() && match.next.next.isGuard() {
		rule = match.prev.rule
		g.substitute(sym, rule)
	} else {
		rule = g.newRule()
		first := cloneSymbol(match)
		second := cloneSymbol(match.next)
		guard := rule.guard
		guard.next, first.prev = first, guard
		first.next, second.prev = second, first
		second.next, guard.prev = guard, second

		g.substitute(match, rule)
		g.substitute(sym, rule)

		g.digrams.insert(first.keyOf(), first)
	}

	first := rule.first()
	if first.kind == kindNonterminal && first.rule.refCount == 1 {
		inner := first.rule
		g.expand(first)
		g.removeRule(inner)
	}
}

// cloneSymbol copies the value (terminal byte or referenced rule) of src
// into a freestanding symbol with no links yet. Cloning a nonterminal bumps
// its target rule's reference count, since the clone is a brand new
// reference to that rule (mirrors sequitur.py's Symbol.clone /
// NonTerminal.clone).
func cloneSymbol(src *symbol) *symbol {
	if src.kind == kindTerminal {
		return newTerminal(src.term)
	}
	return newNonterminal(src.rule)
}

// substitute replaces the digram (sym, sym.next) with a single nonterminal
// referencing rule, then rechecks the digrams newly exposed at the
// substitution's boundaries.
func (g *Grammar) substitute(sym *symbol, rule *Rule) {
	left := sym.prev
	g.delete(sym)
	g.delete(sym.next) // sym.next still refers to the original second symbol: delete(sym) only relinked left.next/right.prev, it never touched sym's own .next field.
	nt := newNonterminal(rule)
	g.insertAfter(left, nt)
	if !g.check(left) {
		g.check(left.next)
	}
}
