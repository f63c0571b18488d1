// Package huffman builds a canonical-tie-break prefix code over the
// combined terminal/nonterminal unigram distribution of a grammar and
// encodes/decodes bit sequences of symbol values with it.
package huffman

import (
	"sort"

	"github.com/icza/bitio"
)

// SymbolID identifies one member of the coding alphabet: either a terminal
// byte or a nonterminal rule number. It is huffman's own notion of "symbol
// value"; callers translate their own symbol representation (e.g.
// grammar.Elem) to and from it.
type SymbolID struct {
	Terminal bool
	N        int // byte value if Terminal, rule number otherwise
}

// less implements the deterministic tie-break ordering: terminals before
// nonterminals; terminals by byte value; nonterminals by number.
func (a SymbolID) less(b SymbolID) bool {
	if a.Terminal != b.Terminal {
		return a.Terminal
	}
	return a.N < b.N
}

type codeEntry struct {
	bits   uint64
	length uint8
}

type node struct {
	count uint64
	leaf  bool
	id    SymbolID
	tie   SymbolID // tie-break representative: the leftmost leaf of this subtree
	left  *node
	right *node
}

func (n *node) less(o *node) bool {
	if n.count != o.count {
		return n.count < o.count
	}
	return n.tie.less(o.tie)
}

// Code is a constructed canonical Huffman code: a lookup from SymbolID to
// its bit sequence, plus the tree needed to decode.
type Code struct {
	codes map[SymbolID]codeEntry
	root  *node
}

// Build constructs the canonical code from a unigram histogram: term[b] is
// the number of occurrences of terminal byte b across all rule bodies
// (guards excluded), and nonterm[n] is the number of occurrences of
// nonterminal rule number n. Entries with a zero count are excluded from
// the alphabet.
func Build(term [256]uint32, nonterm map[int]uint32) *Code {
	var entries []*node
	for b := 0; b < 256; b++ {
		if term[b] > 0 {
			id := SymbolID{Terminal: true, N: b}
			entries = append(entries, &node{count: uint64(term[b]), leaf: true, id: id, tie: id})
		}
	}
	var ntNumbers []int
	for n, c := range nonterm {
		if c > 0 {
			ntNumbers = append(ntNumbers, n)
		}
	}
	sort.Ints(ntNumbers)
	for _, n := range ntNumbers {
		id := SymbolID{N: n}
		entries = append(entries, &node{count: uint64(nonterm[n]), leaf: true, id: id, tie: id})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].less(entries[j]) })

	for len(entries) > 1 {
		left, right := entries[0], entries[1]
		entries = entries[2:]
		merged := &node{count: left.count + right.count, left: left, right: right, tie: left.tie}
		// Re-insert merged in sorted position (canonical greedy merge).
		idx := sort.Search(len(entries), func(i int) bool { return !entries[i].less(merged) })
		entries = append(entries, nil)
		copy(entries[idx+1:], entries[idx:])
		entries[idx] = merged
	}

	c := &Code{codes: make(map[SymbolID]codeEntry)}
	if len(entries) == 0 {
		return c
	}
	c.root = entries[0]
	assignCodes(c.root, 0, 0, c.codes)
	return c
}

// assignCodes walks the tree and records each leaf's accumulated bit
// sequence: the first child appends bit 0, the second bit 1.
func assignCodes(n *node, bits uint64, length uint8, out map[SymbolID]codeEntry) {
	if n.leaf {
		out[n.id] = codeEntry{bits: bits, length: length}
		return
	}
	assignCodes(n.left, bits<<1, length+1, out)
	assignCodes(n.right, (bits<<1)|1, length+1, out)
}

// EncodeSymbol writes id's code to w. Zero-length codes (the
// single-symbol-alphabet case) write nothing.
func (c *Code) EncodeSymbol(w *bitio.Writer, id SymbolID) error {
	entry, ok := c.codes[id]
	if !ok {
		panic("huffman: symbol not in code's alphabet")
	}
	if entry.length == 0 {
		return nil
	}
	return w.WriteBits(entry.bits, entry.length)
}

// DecodeSymbol walks the tree from the root, reading one bit at a time,
// until it reaches a leaf. If the tree is a single leaf (zero-length
// codes), it returns that leaf without reading any bits.
func (c *Code) DecodeSymbol(r *bitio.Reader) (SymbolID, error) {
	if c.root == nil {
		return SymbolID{}, errEmptyAlphabet
	}
	n := c.root
	for !n.leaf {
		bit, err := r.ReadBits(1)
		if err != nil {
			return SymbolID{}, err
		}
		if bit == 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.id, nil
}

// HasAlphabet reports whether the code has at least one symbol (false only
// for the empty-grammar histogram, where no rule body ever has a symbol to
// encode).
func (c *Code) HasAlphabet() bool {
	return c.root != nil
}
