package csv_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shapestone/csvcore/pkg/csv"
)

func collectRecords(t *testing.T, rr *csv.RecordReader) [][]string {
	t.Helper()
	var got [][]string
	for rr.Scan() {
		rec := rr.Record()
		fields := make([]string, rec.NumFields())
		for i := 0; i < rec.NumFields(); i++ {
			fields[i] = string(rec.Field(i))
		}
		got = append(got, fields)
	}
	if err := rr.Err(); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return got
}

func TestRecordReaderBasic(t *testing.T) {
	src := strings.NewReader("a,b,c\r\nd,e,f\r\n")
	rr := csv.NewRecordReader(src, csv.NewDialect())
	got := collectRecords(t, rr)
	want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("record %d field %d = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestRecordReaderNoTrailingTerminator(t *testing.T) {
	src := strings.NewReader("a,b\r\nc,d")
	rr := csv.NewRecordReader(src, csv.NewDialect())
	got := collectRecords(t, rr)
	if len(got) != 2 || got[1][0] != "c" || got[1][1] != "d" {
		t.Fatalf("got %v", got)
	}
}

func TestRecordReaderHeaders(t *testing.T) {
	src := strings.NewReader("name,age\r\nalice,30\r\nbob,40\r\n")
	rr := csv.NewRecordReader(src, csv.NewDialect()).SetHasHeaders(true)
	headers, err := rr.Headers()
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}
	if headers.Field(0) != "name" || headers.Field(1) != "age" {
		t.Fatalf("headers = %v", headers.Fields())
	}
	got := collectRecords(t, rr)
	if len(got) != 2 || got[0][0] != "alice" {
		t.Fatalf("got %v", got)
	}
}

func TestRecordReaderStrictLengthMismatch(t *testing.T) {
	src := strings.NewReader("a,b,c\r\nd,e\r\n")
	rr := csv.NewRecordReader(src, csv.NewDialect()).SetStrictLength(true)
	if !rr.Scan() {
		t.Fatalf("expected first Scan to succeed: %v", rr.Err())
	}
	if rr.Scan() {
		t.Fatal("expected second Scan to fail on field count mismatch")
	}
	var uneq *csv.UnequalLengthsError
	if !errors.As(rr.Err(), &uneq) {
		t.Fatalf("err = %v, want *UnequalLengthsError", rr.Err())
	}
	if uneq.Expected != 3 || uneq.Actual != 2 {
		t.Errorf("got Expected=%d Actual=%d, want 3 and 2", uneq.Expected, uneq.Actual)
	}
}

func TestRecordReaderTrimFields(t *testing.T) {
	src := strings.NewReader(" a , b \r\n")
	rr := csv.NewRecordReader(src, csv.NewDialect()).SetTrimPolicy(csv.TrimFields)
	got := collectRecords(t, rr)
	if len(got) != 1 || got[0][0] != "a" || got[0][1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestRecordReaderEmptyInputIsCleanEOF(t *testing.T) {
	rr := csv.NewRecordReader(strings.NewReader(""), csv.NewDialect())
	if rr.Scan() {
		t.Fatal("expected no records from empty input")
	}
	if err := rr.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestRecordReaderPositionAdvancesByRecord(t *testing.T) {
	src := strings.NewReader("a,b\r\nc,d\r\n")
	rr := csv.NewRecordReader(src, csv.NewDialect())
	if rr.Position().Record != 0 {
		t.Fatalf("initial Record = %d, want 0", rr.Position().Record)
	}
	rr.Scan()
	if rr.Position().Record != 1 {
		t.Errorf("Record after one Scan = %d, want 1", rr.Position().Record)
	}
	rr.Scan()
	if rr.Position().Record != 2 {
		t.Errorf("Record after two Scans = %d, want 2", rr.Position().Record)
	}
}

func TestRecordReaderPositionTracksLineNumber(t *testing.T) {
	src := strings.NewReader("a,b\nc,d\ne,f\n")
	d := csv.NewDialect()
	d.Terminator = csv.TerminatorByte('\n')
	rr := csv.NewRecordReader(src, d)

	if rr.Position().Line != 1 {
		t.Fatalf("initial Line = %d, want 1", rr.Position().Line)
	}
	rr.Scan()
	if rr.Position().Line != 2 {
		t.Errorf("Line after one Scan = %d, want 2", rr.Position().Line)
	}
	rr.Scan()
	if rr.Position().Line != 3 {
		t.Errorf("Line after two Scans = %d, want 3", rr.Position().Line)
	}
}

func TestRecordReaderHonorsUnderlyingReaderErrors(t *testing.T) {
	rr := csv.NewRecordReader(&failingReader{}, csv.NewDialect())
	if rr.Scan() {
		t.Fatal("expected Scan to fail")
	}
	if rr.Err() == nil {
		t.Fatal("expected a non-nil error")
	}
}

// eofCombiningReader returns its entire remaining content together
// with io.EOF in one Read call, a pattern many real io.Reader
// implementations use (e.g. compress/gzip, bytes.Reader does not, but
// the io.Reader contract explicitly permits it).
type eofCombiningReader struct {
	data []byte
	done bool
}

func (r *eofCombiningReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	r.done = true
	n := copy(p, r.data)
	return n, io.EOF
}

func TestRecordReaderFinalUnterminatedRecordSurvivesEOFCombinedWithData(t *testing.T) {
	rr := csv.NewRecordReader(&eofCombiningReader{data: []byte("a,b\r\nc,d")}, csv.NewDialect())
	got := collectRecords(t, rr)
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if len(got) != len(want) {
		t.Fatalf("got %d records %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("record %d field %d = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, errFailingRead
}

var errFailingRead = io.ErrClosedPipe
