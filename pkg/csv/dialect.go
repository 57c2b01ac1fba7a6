// Package csv implements a byte-level, resumable CSV reader and
// writer. The parser never fails outright: given any byte sequence it
// always finds a parse, the way a permissive text format should.
package csv

import (
	"fmt"

	"github.com/shapestone/csvcore/internal/nfa"
)

// Terminator selects how a record ends. CRLF treats "\r", "\n" and
// "\r\n" all as one record terminator — the common case for CSV found
// in the wild. Any terminates only on a single configured byte, for
// callers with an unusual line ending (e.g. NUL-delimited records).
type Terminator struct {
	CRLF bool
	Any  byte
}

// TerminatorCRLF is the default terminator: "\r", "\n" or "\r\n".
var TerminatorCRLF = Terminator{CRLF: true}

// TerminatorByte returns a Terminator that ends a record only on b.
func TerminatorByte(b byte) Terminator {
	return Terminator{Any: b}
}

// collides reports whether b is one of the bytes this terminator
// treats as record-ending. CRLF claims both '\r' and '\n'.
func (t Terminator) collides(b byte) bool {
	if t.CRLF {
		return b == '\r' || b == '\n'
	}
	return b == t.Any
}

func (t Terminator) toNFA() nfa.Terminator {
	return nfa.Terminator{CRLF: t.CRLF, Byte: t.Any}
}

// Dialect is the set of bytes that give meaning to an otherwise opaque
// byte stream: field delimiter, record terminator, quote byte, and
// optional escape byte. It is immutable once Validate has succeeded.
type Dialect struct {
	Delimiter byte
	Terminator Terminator

	// Quote is the byte used to quote fields containing the delimiter,
	// terminator, or quote itself. Set QuoteDisabled to treat quoting
	// as plain field content instead.
	Quote         byte
	QuoteDisabled bool

	// Escape, when non-nil, is an alternate way of embedding a quote
	// byte inside a quoted field (as opposed to doubling it). Rust's
	// csv-core calls this the "escape" byte; most real-world CSV never
	// sets it.
	Escape *byte

	// DoubleQuote controls whether two consecutive quote bytes inside
	// a quoted field collapse to one literal quote byte. Defaults to
	// true; set false only alongside a non-nil Escape.
	DoubleQuote bool
}

// NewDialect returns the RFC 4180 default dialect: comma-delimited,
// CRLF-terminated, double-quote quoting, no escape byte.
func NewDialect() Dialect {
	return Dialect{
		Delimiter:   ',',
		Terminator:  TerminatorCRLF,
		Quote:       '"',
		DoubleQuote: true,
	}
}

// Validate reports a non-nil error if d's bytes are not pairwise
// distinct in the ways the state machine requires — an ambiguous
// dialect (e.g. delimiter == quote) would make some input unparsable
// in a well-defined way.
func (d Dialect) Validate() error {
	if !validDialectByte(d.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "must be a non-NUL ASCII byte"}
	}
	if d.Terminator.collides(d.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "must not equal the terminator byte"}
	}
	if !d.QuoteDisabled {
		if d.Quote == d.Delimiter {
			return &OptionsError{Field: "Quote", Message: "must not equal the delimiter"}
		}
		if d.Terminator.collides(d.Quote) {
			return &OptionsError{Field: "Quote", Message: "must not equal the terminator byte"}
		}
	}
	if d.Escape != nil {
		esc := *d.Escape
		if esc == d.Delimiter {
			return &OptionsError{Field: "Escape", Message: "must not equal the delimiter"}
		}
		if !d.QuoteDisabled && esc == d.Quote {
			return &OptionsError{Field: "Escape", Message: "must not equal the quote byte"}
		}
		if d.Terminator.collides(esc) {
			return &OptionsError{Field: "Escape", Message: "must not equal the terminator byte"}
		}
	}
	return nil
}

func validDialectByte(b byte) bool {
	return b != 0 && b < 0x80
}

func (d Dialect) toNFAConfig() nfa.Config {
	cfg := nfa.Config{
		Delimiter:   d.Delimiter,
		Terminator:  d.Terminator.toNFA(),
		Quote:       d.Quote,
		QuoteSet:    !d.QuoteDisabled,
		DoubleQuote: d.DoubleQuote,
	}
	if d.Escape != nil {
		cfg.Escape = *d.Escape
		cfg.EscapeSet = true
	}
	return cfg
}

// OptionsError reports an invalid Dialect field.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("csv: invalid %s: %s", e.Field, e.Message)
}
