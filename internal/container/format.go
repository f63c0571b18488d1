// Package container implements the binary artifact layout that a built
// grammar is serialized to and read back from. The layout is:
//
//	magic          4 bytes: 'W' 'O' 'T' 0x00
//	max_symbol     u32 LE   (the largest live rule number)
//	term_hist      256 u32 LE entries, occurrence count of each terminal byte
//	nonterm_hist   max_symbol+1 u32 LE entries, occurrence count of each
//	               nonterminal rule number (zero if that number was never
//	               referenced, including because it was tombstoned)
//	offset_count   u32 LE   (number of live rules minus one)
//	offsets        offset_count u32 LE entries: the packed byte length of
//	               each live rule's body except the last, in ascending
//	               rule-number order
//	body area      one block per live rule, in ascending rule-number order:
//	                 symbol_count u32 LE
//	                 packed Huffman bits for symbol_count symbols, byte-
//	                 aligned (padded with zero bits to the next byte)
//
// The last live rule's packed-bits length is never stored: it runs to the
// end of the stream, which is unambiguous since nothing follows it.
//
// Rule numbers are native: a grammar's rule table can have tombstoned
// holes, and this format carries that sparseness through rather than
// compacting it away, since the nonterminal histogram already needs a slot
// per number up to max_symbol to report which numbers are holes (a zero
// count). A decoder recovers the live rule numbers as {0} (the start rule,
// always live) union every number whose nonterminal histogram count is
// positive (every other live rule is referenced at least once, or it
// would itself have been cleaned up).
package container

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/icza/bitio"

	"github.com/dekarrin/wot/internal/grammar"
	"github.com/dekarrin/wot/internal/huffman"
	"github.com/dekarrin/wot/internal/woterr"
)

var magic = [4]byte{'W', 'O', 'T', 0x00}

// Encode serializes g's live rules into the artifact format described
// above.
func Encode(g *grammar.Grammar) ([]byte, error) {
	live := g.Rules()
	if len(live) == 0 {
		return nil, woterr.New(woterr.MalformedArtifact, "rule table", "grammar has no rules, not even a start rule")
	}
	maxSymbol := live[len(live)-1].Number

	var term [256]uint32
	nonterm := make(map[int]uint32, len(live))

	bodies := make([][]grammar.Elem, len(live))
	for i, r := range live {
		body := r.Body()
		for _, e := range body {
			if e.Terminal {
				term[e.Byte]++
			} else {
				nonterm[e.RuleNumber]++
			}
		}
		bodies[i] = body
	}

	code := huffman.Build(term, nonterm)

	packed := make([][]byte, len(live))
	for i, body := range bodies {
		var buf bytes.Buffer
		w := bitio.NewWriter(&buf)
		for _, e := range body {
			if err := code.EncodeSymbol(w, symbolIDOf(e)); err != nil {
				return nil, woterr.Wrap(woterr.IOFailure, "packed bits", err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, woterr.Wrap(woterr.IOFailure, "packed bits", err)
		}
		packed[i] = buf.Bytes()
	}

	var out bytes.Buffer
	out.Write(magic[:])
	writeU32(&out, uint32(maxSymbol))
	for _, c := range term {
		writeU32(&out, c)
	}
	for n := 0; n <= maxSymbol; n++ {
		writeU32(&out, nonterm[n])
	}
	writeU32(&out, uint32(len(live)-1))
	for _, p := range packed[:len(packed)-1] {
		writeU32(&out, uint32(len(p)))
	}
	for i, p := range packed {
		writeU32(&out, uint32(len(bodies[i])))
		out.Write(p)
	}

	return out.Bytes(), nil
}

// Decode parses an artifact produced by Encode and returns each rule's
// body, keyed by its original rule number.
func Decode(data []byte) (map[int][]grammar.Elem, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, woterr.Wrap(woterr.MalformedArtifact, "magic", err)
	}
	if gotMagic != magic {
		return nil, woterr.Newf(woterr.MalformedArtifact, "magic", "got %v, want %v", gotMagic, magic)
	}

	maxSymbolU32, err := readU32(r, "max_symbol")
	if err != nil {
		return nil, err
	}
	maxSymbol := int(maxSymbolU32)

	var term [256]uint32
	for i := range term {
		v, err := readU32(r, "term_hist")
		if err != nil {
			return nil, err
		}
		term[i] = v
	}

	nonterm := make(map[int]uint32)
	liveNumbers := []int{0}
	for n := 0; n <= maxSymbol; n++ {
		v, err := readU32(r, "nonterm_hist")
		if err != nil {
			return nil, err
		}
		if v == 0 {
			continue
		}
		nonterm[n] = v
		if n != 0 {
			liveNumbers = append(liveNumbers, n)
		}
	}
	sort.Ints(liveNumbers)

	offsetCount, err := readU32(r, "offset_count")
	if err != nil {
		return nil, err
	}
	if int(offsetCount) != len(liveNumbers)-1 {
		return nil, woterr.Newf(woterr.HistogramInconsistency, "offset_count",
			"got %d, want live rule count minus one (%d)", offsetCount, len(liveNumbers)-1)
	}

	lengths := make([]uint32, offsetCount)
	for i := range lengths {
		v, err := readU32(r, "offsets")
		if err != nil {
			return nil, err
		}
		lengths[i] = v
	}

	bodyArea, err := io.ReadAll(r)
	if err != nil {
		return nil, woterr.Wrap(woterr.IOFailure, "body area", err)
	}

	code := huffman.Build(term, nonterm)

	rules := make(map[int][]grammar.Elem, len(liveNumbers))
	cursor := 0
	for i, ruleNum := range liveNumbers {
		if cursor+4 > len(bodyArea) {
			return nil, woterr.Newf(woterr.MalformedArtifact, "symbol_count",
				"rule %d's symbol_count exceeds the body area", ruleNum)
		}
		symbolCount := binary.LittleEndian.Uint32(bodyArea[cursor : cursor+4])
		cursor += 4

		var blockLen int
		if i < len(lengths) {
			blockLen = int(lengths[i])
		} else {
			blockLen = len(bodyArea) - cursor
		}
		if cursor+blockLen > len(bodyArea) {
			return nil, woterr.Newf(woterr.MalformedArtifact, "offsets",
				"rule %d's declared length exceeds the body area", ruleNum)
		}
		block := bodyArea[cursor : cursor+blockLen]
		cursor += blockLen

		br := bitio.NewReader(bytes.NewReader(block))
		body := make([]grammar.Elem, 0, symbolCount)
		for s := uint32(0); s < symbolCount; s++ {
			id, err := code.DecodeSymbol(br)
			if err != nil {
				return nil, woterr.Wrapf(woterr.MalformedArtifact, "packed bits", err,
					"rule %d, symbol %d of %d", ruleNum, s, symbolCount)
			}
			if id.Terminal {
				body = append(body, grammar.TerminalElem(byte(id.N)))
				continue
			}
			if id.N > maxSymbol {
				return nil, woterr.Newf(woterr.UnknownSymbol, "packed bits",
					"rule %d references nonterminal %d beyond max_symbol %d", ruleNum, id.N, maxSymbol)
			}
			body = append(body, grammar.NonTerminalElem(id.N))
		}
		rules[ruleNum] = body
	}

	return rules, nil
}

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func readU32(r io.Reader, field string) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, woterr.Wrapf(woterr.MalformedArtifact, field, err, "truncated while reading %s", field)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func symbolIDOf(e grammar.Elem) huffman.SymbolID {
	if e.Terminal {
		return huffman.SymbolID{Terminal: true, N: int(e.Byte)}
	}
	return huffman.SymbolID{N: e.RuleNumber}
}
