// Package wot contains a grammar-based byte codec: an online Sequitur
// grammar inducer paired with a canonical-Huffman binary container, used to
// build a compact context-free representation of a byte stream and get the
// original bytes back out of it.
package wot

import (
	"io"

	"github.com/dekarrin/wot/internal/container"
	"github.com/dekarrin/wot/internal/expand"
	"github.com/dekarrin/wot/internal/grammar"
)

// Grammar is the inferred context-free grammar for a byte sequence, built
// incrementally as bytes are appended. It is the public handle onto
// internal/grammar's engine.
type Grammar struct {
	g *grammar.Grammar
}

// NewGrammar returns an empty grammar: a single start rule with no body.
func NewGrammar() *Grammar {
	return &Grammar{g: grammar.New()}
}

// Append feeds a single byte into the grammar, maintaining the digram
// uniqueness and rule utility invariants before returning.
func (gr *Grammar) Append(b byte) {
	gr.g.Append(b)
}

// AppendAll feeds a run of bytes into the grammar. It is safe to call
// repeatedly on successive chunks of a larger stream read in pieces — each
// call leaves the grammar in a fully invariant-satisfying state, so chunk
// boundaries never affect the final result.
func (gr *Grammar) AppendAll(data []byte) {
	gr.g.AppendAll(data)
}

// defaultChunkSize is used by Build; cmd/wot's -c config can override it via
// BuildChunked for callers that want streaming behavior tuned to their input.
const defaultChunkSize = 64 * 1024

// Build reads r to EOF in 64KiB chunks, appending each chunk to a fresh
// grammar.
func Build(r io.Reader) (*Grammar, error) {
	return BuildChunked(r, defaultChunkSize)
}

// BuildChunked is Build with a caller-specified chunk size. AppendAll is
// safe to call repeatedly across chunk boundaries, so the chunk size only
// affects how much of the input is buffered at once, never the resulting
// grammar.
func BuildChunked(r io.Reader, chunkSize int) (*Grammar, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	gr := NewGrammar()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			gr.AppendAll(buf[:n])
		}
		if err == io.EOF {
			return gr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Rules returns the grammar's live rules, rule 0 (the start rule) first,
// in ascending rule-number order.
func (gr *Grammar) Rules() []*grammar.Rule {
	return gr.g.Rules()
}

// Dump renders the grammar in usage-annotated notation, for debugging.
func (gr *Grammar) Dump() string {
	return gr.g.Dump()
}

// Join folds other's rules into gr wherever other has a rule whose body is
// structurally equivalent to one gr already has, and otherwise copies
// other's rules in under freshly allocated numbers. It returns the rule
// number within gr that now expands to exactly what other's start rule
// expanded to.
func (gr *Grammar) Join(other *Grammar) int {
	return gr.g.Join(other.g)
}

// CheckInvariants reports whether gr's digram uniqueness, rule utility, and
// index-consistency invariants currently hold. It exists for tests; a
// correctly operating engine never violates them between calls.
func (gr *Grammar) CheckInvariants() error {
	return gr.g.CheckInvariants()
}

// Encode serializes gr to the binary container format.
func Encode(gr *Grammar) ([]byte, error) {
	return container.Encode(gr.g)
}

// Decode parses a container artifact and expands it back to the original
// byte sequence.
func Decode(data []byte) ([]byte, error) {
	rules, err := container.Decode(data)
	if err != nil {
		return nil, err
	}
	return expand.Bytes(rules)
}
