// Package dfa compiles the reference NFA in package nfa into a dense
// transition table: one row per DFA-participating NFA state, one column per byte
// equivalence class. Stepping the compiled machine is a single slice
// index instead of a chain of branches, at the cost of a one-time
// build pass per dialect.
package dfa

import (
	"github.com/shapestone/csvcore/internal/nfa"
)

// Dfa is a compiled, dialect-specific transition table. It has no
// mutable state of its own; callers thread an nfa.State through
// repeated Step calls exactly as they would with the reference
// machine.
type Dfa struct {
	trans      []nfa.State
	hasOutput  []bool
	classOf    [256]byte
	numClasses int
}

// Build compiles the transition table for cfg. It runs the reference
// NFA to its next consuming transition for every (state, class) pair,
// accumulating whether any byte along the way should be emitted into
// the field currently being built.
func Build(cfg nfa.Config) *Dfa {
	classes := NewClasses()
	classes.Add(cfg.Delimiter)
	if cfg.Terminator.CRLF {
		classes.Add('\r')
		classes.Add('\n')
	} else {
		classes.Add(cfg.Terminator.Byte)
	}
	if cfg.QuoteSet {
		classes.Add(cfg.Quote)
	}
	if cfg.EscapeSet {
		classes.Add(cfg.Escape)
	}

	numClasses := classes.NumClasses()
	reps := classes.representatives()

	d := &Dfa{
		trans:      make([]nfa.State, nfa.NumDFAStates*numClasses),
		hasOutput:  make([]bool, nfa.NumDFAStates*numClasses),
		numClasses: numClasses,
	}
	copy(d.classOf[:], classes.table[:])

	machine := nfa.New(cfg)
	for s := 0; s < nfa.NumDFAStates; s++ {
		state := nfa.State(s)
		for cls := 0; cls < numClasses; cls++ {
			b := reps[cls]
			next, out := runToConsuming(machine, state, b)
			idx := s*numClasses + cls
			d.trans[idx] = next
			d.hasOutput[idx] = out
		}
	}
	return d
}

// runToConsuming repeatedly applies the NFA's transition function for
// byte b, starting at state, until a consuming transition fires. Any
// emit flag seen along the way is preserved: a non-consuming hop never
// itself emits, but the loop still ORs the flags for symmetry with the
// NFA's own per-step contract.
func runToConsuming(m *nfa.Machine, state nfa.State, b byte) (next nfa.State, emit bool) {
	for {
		n, consume, out := m.Transition(state, b)
		emit = emit || out
		if consume {
			return n, emit
		}
		state = n
	}
}

// Step advances state on byte b, returning the next state and whether
// b should be appended to the current field.
func (d *Dfa) Step(state nfa.State, b byte) (next nfa.State, emit bool) {
	idx := int(state)*d.numClasses + int(d.classOf[b])
	return d.trans[idx], d.hasOutput[idx]
}

// IsFinalField reports whether s was reached by a byte that ended a
// field (a delimiter, a terminator, or — equivalently — a record end).
func IsFinalField(s nfa.State) bool {
	return s >= nfa.FinalField
}

// IsFinalRecord reports whether s was reached by a byte that ended a
// record.
func IsFinalRecord(s nfa.State) bool {
	return s >= nfa.FinalRecord
}

// NumClasses returns the number of byte equivalence classes this table
// was compiled with. Exposed for tests that want to assert the table
// stays small regardless of dialect.
func (d *Dfa) NumClasses() int {
	return d.numClasses
}
