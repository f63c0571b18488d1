// Package grammar implements the online Sequitur engine: a doubly-linked
// symbol graph with a digram index that maintains digram uniqueness and
// rule utility incrementally as each input symbol is appended.
//
// This file holds the symbol graph: the doubly-linked list nodes and the
// primitive link operations the engine builds on.
package grammar

// Elem is one element of a rule's right-hand side as seen from outside the
// live graph: either a terminal byte or a reference to a rule by number.
// It's the shape callers (the Huffman coder, the container codec, the
// decoder expander) actually work with; they never see a *symbol.
type Elem struct {
	Terminal   bool
	Byte       byte
	RuleNumber int
}

// TerminalElem builds an Elem carrying a terminal byte.
func TerminalElem(b byte) Elem {
	return Elem{Terminal: true, Byte: b}
}

// NonTerminalElem builds an Elem referencing a rule by number.
func NonTerminalElem(ruleNumber int) Elem {
	return Elem{RuleNumber: ruleNumber}
}

// Value is the "dump" of a symbol used as one half of a digram key: a
// terminal byte or a nonterminal's rule number, tagged so the two spaces
// never collide (a terminal byte and a rule number can share the same
// underlying int without being mistaken for each other).
type Value struct {
	terminal bool
	n        int // byte value if terminal, rule number otherwise
}

func termValue(b byte) Value { return Value{terminal: true, n: int(b)} }
func ntValue(ruleNum int) Value { return Value{terminal: false, n: ruleNum} }

// kind tags which of the three arms a symbol is.
type kind int

const (
	kindTerminal kind = iota
	kindNonterminal
	kindGuard
)

// symbol is a node in a doubly-linked list belonging to exactly one rule.
// It carries either a terminal byte or a reference to a Rule (nonterminal),
// or is a rule's guard. Guards close a rule's body into a circular list: a
// guard's prev is the rule's last symbol, its next is the first.
type symbol struct {
	kind kind
	term byte
	rule *Rule // nonterminal: referenced rule. guard: owning rule.

	prev, next *symbol
}

func newTerminal(b byte) *symbol {
	return &symbol{kind: kindTerminal, term: b}
}

// newNonterminal creates a symbol referencing rule and bumps its reference
// count. The caller is responsible for linking the new symbol into a body.
func newNonterminal(rule *Rule) *symbol {
	rule.refCount++
	return &symbol{kind: kindNonterminal, rule: rule}
}

func newGuard(rule *Rule) *symbol {
	g := &symbol{kind: kindGuard, rule: rule}
	g.prev, g.next = g, g
	return g
}

func (s *symbol) isGuard() bool { return s.kind == kindGuard }

// value returns the Value used as one half of a digram key. Guards never
// participate in digrams; callers must check isGuard first.
func (s *symbol) value() Value {
	if s.kind == kindTerminal {
		return termValue(s.term)
	}
	return ntValue(s.rule.Number)
}

// elem returns the Elem representation of a non-guard symbol, the shape
// used once the symbol has left the live graph (histograms, encoding).
func (s *symbol) elem() Elem {
	if s.kind == kindTerminal {
		return TerminalElem(s.term)
	}
	return NonTerminalElem(s.rule.Number)
}

// digramKey is the ordered pair of values (left.value(), right.value())
// identifying a digram. Two digrams are equal iff their keys are equal.
type digramKey struct {
	left, right Value
}

// keyOf returns the digram key for the pair (s, s.next). Callers must
// ensure neither s nor s.next is a guard.
func (s *symbol) keyOf() digramKey {
	return digramKey{left: s.value(), right: s.next.value()}
}

// isTriple reports whether s forms a run of three equal adjacent values
// with both neighbors, i.e. prev.value() == s.value() == next.value(). The
// triple rule treats the left pair of such a run as the digram's canonical
// occurrence.
func (s *symbol) isTriple() bool {
	if s.prev == nil || s.next == nil || s.prev.isGuard() || s.next.isGuard() {
		return false
	}
	v := s.value()
	return s.prev.value() == v && s.next.value() == v
}

// link sets left.next = right and right.prev = left, maintaining the
// digram index across the rewire: any outgoing digram left used to have is
// removed first (if canonical), and afterward, any triple newly exposed at
// left or right is reinserted as canonical. This is the one place digram
// bookkeeping happens during relinking, matching C1's link() contract.
func (g *Grammar) link(left, right *symbol) {
	if left.next != nil {
		g.digrams.removeIfCanonical(left)
		if right.isTriple() {
			g.digrams.insert(right.keyOf(), right)
		}
		if left.isTriple() {
			g.digrams.insert(left.keyOf(), left)
		}
	}
	left.next = right
	right.prev = left
}

// insertAfter links newSym in directly after anchor.
func (g *Grammar) insertAfter(anchor, newSym *symbol) {
	g.link(newSym, anchor.next)
	g.link(anchor, newSym)
}

// delete unlinks sym from its rule's body. If sym is a live (non-guard)
// symbol, its outgoing digram is dropped from the index (if canonical),
// and if it's a nonterminal its target rule's reference count is
// decremented.
func (g *Grammar) delete(sym *symbol) {
	g.link(sym.prev, sym.next)
	if !sym.isGuard() {
		g.digrams.removeIfCanonical(sym)
		if sym.kind == kindNonterminal {
			sym.rule.refCount--
		}
	}
}

// expand splices rule's body in place of sym, which is the last
// nonterminal referencing rule (rule is about to be tombstoned). The body
// runs first..last around rule's guard.
func (g *Grammar) expand(sym *symbol) {
	rule := sym.rule
	first := rule.first()
	last := rule.last()

	g.digrams.removeIfCanonical(sym)
	g.link(sym.prev, first)
	g.link(last, sym.next)
	if !last.isGuard() && !last.next.isGuard() {
		g.digrams.insert(last.keyOf(), last)
	}
}
