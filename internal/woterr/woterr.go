// Package woterr defines the typed errors an artifact-reading or
// artifact-writing caller needs to distinguish. Every error the container
// codec raises is one of the four kinds in Kind; the engine itself never
// raises a woterr on valid input.
package woterr

import "fmt"

// Kind identifies which of the error classes a formatErr belongs to.
type Kind int

const (
	// MalformedArtifact covers magic mismatch, a truncated integer, an
	// offset that exceeds the remaining bytes, or a bit stream that does
	// not decode exactly the declared symbol count.
	MalformedArtifact Kind = iota

	// HistogramInconsistency covers an offset_count that disagrees with the
	// live rule count, or a nonterminal histogram that declares rule
	// numbers beyond max_symbol.
	HistogramInconsistency

	// UnknownSymbol covers a decoded rule that references a nonterminal
	// number not present in the artifact.
	UnknownSymbol

	// IOFailure covers an underlying source or sink failure.
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case MalformedArtifact:
		return "malformed artifact"
	case HistogramInconsistency:
		return "histogram inconsistency"
	case UnknownSymbol:
		return "unknown symbol"
	case IOFailure:
		return "io failure"
	default:
		return "unknown error kind"
	}
}

// formatErr is the error type returned for every artifact-format problem.
// It carries the structural field that failed, so a caller can print a
// diagnostic that identifies exactly what was wrong with the artifact.
type formatErr struct {
	kind  Kind
	field string
	msg   string
	wrap  error
}

func (e *formatErr) Error() string {
	if e.field != "" {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.field, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *formatErr) Unwrap() error {
	return e.wrap
}

// Is allows errors.Is comparisons between two woterr errors of the same
// Kind, ignoring field and message.
func (e *formatErr) Is(target error) bool {
	other, ok := target.(*formatErr)
	if !ok {
		return false
	}
	return e.kind == other.kind
}

// KindOf returns the Kind of err if it is one of this package's errors, and
// ok=false otherwise.
func KindOf(err error) (k Kind, ok bool) {
	fe, ok := err.(*formatErr)
	if !ok {
		return 0, false
	}
	return fe.kind, true
}

// New returns a new error of the given kind, naming the structural field
// that failed and describing the problem.
func New(kind Kind, field, msg string) error {
	return &formatErr{kind: kind, field: field, msg: msg}
}

// Newf is New with a formatted message.
func Newf(kind Kind, field, format string, a ...interface{}) error {
	return New(kind, field, fmt.Sprintf(format, a...))
}

// Wrap returns a new error of the given kind that wraps err, naming the
// structural field that failed.
func Wrap(kind Kind, field string, err error) error {
	return &formatErr{kind: kind, field: field, msg: err.Error(), wrap: err}
}

// Wrapf is Wrap with an additional formatted message appended.
func Wrapf(kind Kind, field string, err error, format string, a ...interface{}) error {
	return &formatErr{
		kind:  kind,
		field: field,
		msg:   fmt.Sprintf(format, a...) + ": " + err.Error(),
		wrap:  err,
	}
}
