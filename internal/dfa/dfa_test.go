package dfa

import (
	"testing"

	"github.com/shapestone/csvcore/internal/nfa"
)

func defaultConfig() nfa.Config {
	return nfa.Config{
		Delimiter:   ',',
		Terminator:  nfa.Terminator{CRLF: true},
		Quote:       '"',
		QuoteSet:    true,
		DoubleQuote: true,
	}
}

// runDFA feeds data through a compiled table with exactly one Step per
// input byte (the DFA, unlike the NFA, never needs more than one).
func runDFA(t *testing.T, d *Dfa, data []byte) (fields []string, ends []bool) {
	t.Helper()
	state := nfa.StartRecord
	var cur []byte
	for _, b := range data {
		next, emit := d.Step(state, b)
		if emit {
			cur = append(cur, b)
		}
		state = next
		if IsFinalField(state) {
			fields = append(fields, string(cur))
			ends = append(ends, IsFinalRecord(state))
			cur = nil
		}
	}
	return fields, ends
}

func TestDfaMatchesSimpleRecord(t *testing.T) {
	d := Build(defaultConfig())
	fields, ends := runDFA(t, d, []byte("a,b,c\r\n"))
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if fields[i] != w {
			t.Errorf("field %d = %q, want %q", i, fields[i], w)
		}
	}
	if !ends[len(ends)-1] {
		t.Error("last field should end the record")
	}
	for _, e := range ends[:len(ends)-1] {
		if e {
			t.Error("only the last field should end the record")
		}
	}
}

func TestDfaMatchesQuotedField(t *testing.T) {
	d := Build(defaultConfig())
	fields, _ := runDFA(t, d, []byte(`"a,b",c`+"\r\n"))
	if fields[0] != "a,b" {
		t.Errorf("field 0 = %q, want %q", fields[0], "a,b")
	}
}

func TestDfaAgreesWithNFA(t *testing.T) {
	cfg := defaultConfig()
	d := Build(cfg)
	m := nfa.New(cfg)

	inputs := []string{
		"a,b,c\r\n",
		"a,b,c\n",
		`"a,b",c` + "\r\n",
		`"a""b",c` + "\r\n",
		",,\r\n",
		"\r\n",
		"a",
	}

	for _, in := range inputs {
		dfaFields, _ := runDFA(t, d, []byte(in))
		nfaFields := runNFAToCompare(t, m, []byte(in))
		if len(dfaFields) != len(nfaFields) {
			t.Fatalf("%q: dfa got %d fields %q, nfa got %d fields %q", in, len(dfaFields), dfaFields, len(nfaFields), nfaFields)
		}
		for i := range dfaFields {
			if dfaFields[i] != nfaFields[i] {
				t.Errorf("%q: field %d dfa=%q nfa=%q", in, i, dfaFields[i], nfaFields[i])
			}
		}
	}
}

func runNFAToCompare(t *testing.T, m *nfa.Machine, data []byte) []string {
	t.Helper()
	state := nfa.StartRecord
	var fields []string
	var cur []byte
	for _, b := range data {
		for {
			next, consume, emit := m.Transition(state, b)
			if emit {
				cur = append(cur, b)
			}
			state = next
			if consume {
				break
			}
		}
		if state == nfa.EndFieldDelim || state == nfa.EndRecord || state == nfa.CRLF {
			fields = append(fields, string(cur))
			cur = nil
		}
	}
	return fields
}

func TestNumClassesStaysSmall(t *testing.T) {
	d := Build(defaultConfig())
	if d.NumClasses() > 8 {
		t.Errorf("NumClasses() = %d, want a small equivalence class count", d.NumClasses())
	}
}

func TestSIMDHintIsDeterministic(t *testing.T) {
	a := SIMDHint()
	b := SIMDHint()
	if a != b {
		t.Error("SIMDHint() should be stable across calls on one CPU")
	}
}
