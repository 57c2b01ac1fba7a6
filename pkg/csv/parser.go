package csv

import (
	"github.com/shapestone/csvcore/internal/dfa"
	"github.com/shapestone/csvcore/internal/nfa"
)

// Status reports what a Parser read call produced. The parser never
// returns an error: every byte sequence has a well-defined parse, and
// Status communicates only how far that parse got with the buffers it
// was given.
type Status int

const (
	// StatusInputEmpty means the parser consumed all of input without
	// completing a field; call again with more input (or eof=true if
	// there is no more).
	StatusInputEmpty Status = iota
	// StatusOutputFull means output has no room for the next byte the
	// current field would emit; call again with a larger or freshly
	// drained output.
	StatusOutputFull
	// StatusField means a field completed. RecordEnd reports whether
	// it was also the last field of its record.
	StatusField
	// StatusEnd means there is nothing left to read; reached only
	// after a call made with eof=true.
	StatusEnd
	// StatusOutputEndsFull means ends has no room for the next field's
	// end offset; call ReadRecord again with a larger or freshly
	// drained ends slice. Distinct from StatusOutputFull so callers can
	// tell which of the two buffers to grow.
	StatusOutputEndsFull
)

// Result is what a single Parser call produces.
type Result struct {
	Status    Status
	RecordEnd bool
}

// Parser is the resumable, allocation-free byte-level CSV state
// machine described by Dialect. It reads one field at a time from a
// caller-supplied input slice into a caller-supplied output slice,
// suspending whenever either buffer runs out — it never allocates and
// it never fails.
type Parser struct {
	table *dfa.Dfa
	state nfa.State
}

// NewParser compiles a Parser for d. Compiling the transition table is
// the only allocation Parser ever performs; every ReadField call after
// that is allocation-free.
func NewParser(d Dialect) *Parser {
	return &Parser{
		table: dfa.Build(d.toNFAConfig()),
		state: nfa.StartRecord,
	}
}

// Reset returns the parser to its initial state, as if freshly
// constructed, without recompiling the transition table. Use this to
// reuse one Parser across independent streams.
func (p *Parser) Reset() {
	p.state = nfa.StartRecord
}

// AtRecordStart reports whether the parser is positioned exactly at
// the start of a record — true before any input has been read, and
// true again immediately after a field with RecordEnd is returned.
func (p *Parser) AtRecordStart() bool {
	switch p.state {
	case nfa.StartRecord, nfa.EndRecord, nfa.CRLF:
		return true
	default:
		return false
	}
}

// ReadField reads bytes from input into output until a field
// completes, input is exhausted, or output fills up. It returns the
// number of input bytes consumed and output bytes written regardless
// of status, so callers can always advance their own cursors.
//
// Pass eof=true once the caller knows no further input will ever
// arrive (e.g. on io.EOF), either together with the last bytes or with
// an empty input slice, so that once input is exhausted the parser can
// flush a final field that has no trailing delimiter or terminator.
func (p *Parser) ReadField(input, output []byte, eof bool) (result Result, nIn, nOut int) {
	if len(input) == 0 {
		if !eof {
			return Result{Status: StatusInputEmpty}, 0, 0
		}
		return p.finalizeAtEOF(), 0, 0
	}

	for nIn < len(input) {
		b := input[nIn]
		next, emit := p.table.Step(p.state, b)
		if emit {
			if nOut >= len(output) {
				return Result{Status: StatusOutputFull}, nIn, nOut
			}
			output[nOut] = b
			nOut++
		}
		nIn++
		p.state = next
		if dfa.IsFinalField(next) {
			return Result{Status: StatusField, RecordEnd: dfa.IsFinalRecord(next)}, nIn, nOut
		}
	}
	if eof {
		// input is exhausted and the caller has no more to give us:
		// finalize whatever field is open instead of asking for input
		// that will never come.
		return p.finalizeAtEOF(), nIn, nOut
	}
	return Result{Status: StatusInputEmpty}, nIn, nOut
}

// finalizeAtEOF resolves the parser's current state once the caller
// has signaled there is no more input.
func (p *Parser) finalizeAtEOF() Result {
	switch p.state {
	case nfa.End:
		return Result{Status: StatusEnd}
	case nfa.StartRecord, nfa.EndRecord, nfa.CRLF:
		p.state = nfa.End
		return Result{Status: StatusEnd}
	default:
		p.state = nfa.End
		return Result{Status: StatusField, RecordEnd: true}
	}
}

// ReadRecord reads whole fields into output, recording each field's
// end offset into ends, until the record completes, input is
// exhausted, or either buffer fills up. ends is filled with byte
// offsets into output (not lengths), matching ByteRecord's layout.
func (p *Parser) ReadRecord(input, output []byte, ends []int, eof bool) (result Result, nIn, nOut, nEnds int) {
	for {
		if nEnds >= len(ends) {
			return Result{Status: StatusOutputEndsFull}, nIn, nOut, nEnds
		}
		fr, fin, fout := p.ReadField(input[nIn:], output[nOut:], eof)
		nIn += fin
		nOut += fout
		switch fr.Status {
		case StatusField:
			ends[nEnds] = nOut
			nEnds++
			if fr.RecordEnd {
				return Result{Status: StatusField, RecordEnd: true}, nIn, nOut, nEnds
			}
		case StatusInputEmpty, StatusOutputFull, StatusEnd:
			return fr, nIn, nOut, nEnds
		}
	}
}
