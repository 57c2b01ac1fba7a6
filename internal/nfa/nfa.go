// Package nfa implements the reference CSV parsing state machine.
//
// This is the authoritative semantics for byte-level CSV parsing: slow,
// but easy to read and easy to check the compiled DFA against. Every
// byte sequence is accepted — there is no such thing as a syntax error
// at this layer.
package nfa

// State identifies a state in the parsing automaton. Only the first
// nine participate in the compiled DFA; the remaining three never get
// a row of their own there.
type State uint8

const (
	StartRecord State = iota
	StartField
	InField
	InQuotedField
	InEscapedQuote
	InDoubleEscapedQuote
	EndFieldDelim
	EndRecord
	CRLF

	// States below this line are never reached by a consuming transition
	// and so never appear in the compiled DFA. EndFieldTerm and
	// InRecordTerm are passed through by non-consuming hops inside
	// Transition when a terminator byte ends a field; End is the state
	// reached once input is exhausted.
	EndFieldTerm
	InRecordTerm
	End
)

// NumDFAStates is the number of states that participate in the compiled
// DFA (every state below EndFieldTerm). A state's row in the compiled
// transition table is simply its numeric value, which is why
// EndFieldDelim, EndRecord and CRLF — in that order — sit at the top of
// the iota block: it makes "state >= FinalField" and "state >=
// FinalRecord" single-comparison checks instead of a set lookup.
const NumDFAStates = int(CRLF) + 1

// FinalField is the lowest state value at which a just-consumed byte
// ended a field.
const FinalField = EndFieldDelim

// FinalRecord is the lowest state value at which a just-consumed byte
// ended a record. A state reaching FinalRecord has also reached
// FinalField, since every record boundary is also a field boundary.
const FinalRecord = EndRecord

// IsFinal reports whether state ends a field, a record, or the input —
// i.e. whether the byte that produced this transition should stop a
// consuming loop.
func (s State) IsFinal() bool {
	switch s {
	case End, EndRecord, CRLF, EndFieldDelim:
		return true
	default:
		return false
	}
}

// Terminator describes how records are separated. CRLF is a special
// token: it treats '\r', '\n', and "\r\n" as a single terminator. Any
// terminates only on the configured byte.
type Terminator struct {
	CRLF bool
	Byte byte
}

// Matches reports whether b is a terminator byte under t.
func (t Terminator) Matches(b byte) bool {
	if t.CRLF {
		return b == '\r' || b == '\n'
	}
	return b == t.Byte
}

// Config is the dialect information the machine needs to transition.
// It mirrors the pairwise-distinct fields of a Dialect without importing
// the public package (which would create an import cycle).
type Config struct {
	Delimiter   byte
	Terminator  Terminator
	Quote       byte
	QuoteSet    bool
	Escape      byte
	EscapeSet   bool
	DoubleQuote bool
}

// Machine holds the dialect configuration used to drive transitions.
// It has no mutable state of its own; callers thread a State value
// through repeated Transition calls.
type Machine struct {
	cfg Config
}

// New builds a reference machine for cfg.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Config returns the dialect configuration the machine was built with.
func (m *Machine) Config() Config {
	return m.cfg
}

// Transition computes the next state for (state, b).
//
// consume is true when b is absorbed by this transition; when false,
// the same byte must be re-dispatched from the returned state without
// advancing the input cursor. emit is true when b should be appended
// to the field currently being built.
func (m *Machine) Transition(state State, b byte) (next State, consume, emit bool) {
	cfg := &m.cfg
	switch state {
	case End:
		return End, false, false

	case StartRecord:
		if cfg.Terminator.Matches(b) {
			return StartRecord, true, false
		}
		return StartField, false, false

	case EndRecord:
		return StartRecord, false, false

	case StartField:
		if cfg.QuoteSet && cfg.Quote == b {
			return InQuotedField, true, false
		} else if cfg.Delimiter == b {
			return EndFieldDelim, true, false
		} else if cfg.Terminator.Matches(b) {
			return EndFieldTerm, false, false
		}
		return InField, true, true

	case EndFieldDelim:
		return StartField, false, false

	case EndFieldTerm:
		return InRecordTerm, false, false

	case InField:
		if cfg.Delimiter == b {
			return EndFieldDelim, true, false
		} else if cfg.Terminator.Matches(b) {
			return EndFieldTerm, false, false
		}
		return InField, true, true

	case InQuotedField:
		if cfg.QuoteSet && cfg.Quote == b {
			return InDoubleEscapedQuote, true, false
		} else if cfg.EscapeSet && cfg.Escape == b {
			return InEscapedQuote, true, false
		}
		return InQuotedField, true, true

	case InEscapedQuote:
		return InQuotedField, true, true

	case InDoubleEscapedQuote:
		if cfg.DoubleQuote && cfg.Quote == b {
			return InQuotedField, true, true
		} else if cfg.Delimiter == b {
			return EndFieldDelim, true, false
		} else if cfg.Terminator.Matches(b) {
			return EndFieldTerm, false, false
		}
		// Lenient: a quote that is neither doubled nor followed by a
		// delimiter/terminator resumes as unquoted field content.
		return InField, true, true

	case InRecordTerm:
		if cfg.Terminator.CRLF && b == '\r' {
			return CRLF, true, false
		}
		return EndRecord, true, false

	case CRLF:
		if b == '\n' {
			return StartRecord, true, false
		}
		return StartRecord, false, false

	default:
		return End, false, false
	}
}

// FinalTransition resolves the state reached when the caller signals
// end-of-input. A partially open field or record yields one synthetic
// EndRecord; anything already terminal collapses to End. It needs no
// dialect configuration, so unlike Transition it is a free function.
func FinalTransition(state State) State {
	switch state {
	case End, StartRecord, EndRecord, CRLF:
		return End
	default:
		return EndRecord
	}
}
