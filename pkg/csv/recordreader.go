package csv

import (
	"io"

	"github.com/shapestone/csvcore/internal/bufpool"
	"github.com/shapestone/csvcore/internal/dfa"
)

// TrimPolicy controls which records have leading/trailing horizontal
// whitespace (space and tab) stripped from each field. Trimming never
// touches bytes inside a quoted field's embedded newlines — it only
// strips the literal ' ' and '\t' bytes at a field's edges.
type TrimPolicy int

const (
	// TrimNone leaves every field exactly as read.
	TrimNone TrimPolicy = iota
	// TrimHeaders trims only the header record.
	TrimHeaders
	// TrimFields trims every data record but not the header.
	TrimFields
	// TrimAll trims the header and every data record.
	TrimAll
)

// RecordReader reads whole CSV records from an io.Reader, built on top
// of the resumable, allocation-free Parser. It tracks Position,
// optionally validates a consistent field count across records, and
// can promote each ByteRecord to a StringRecord on request.
type RecordReader struct {
	src    io.Reader
	parser *Parser

	hasHeaders bool
	headerRead bool
	headers    *StringRecord

	strictLength   bool
	expectedFields int

	trimPolicy TrimPolicy

	pos     Position
	in      []byte
	readBuf []byte
	inEOF   bool

	out  []byte
	ends []int

	rec ByteRecord
	err error

	seeked bool
}

// NewRecordReader returns a RecordReader for src using dialect d. By
// default there are no headers, field count is not checked across
// records, and no trimming is applied.
func NewRecordReader(src io.Reader, d Dialect) *RecordReader {
	return &RecordReader{
		src:            src,
		parser:         NewParser(d),
		expectedFields: -1,
		pos:            initialPosition(),
		out:            make([]byte, 256),
		ends:           make([]int, 16),
		readBuf:        make([]byte, dfa.ChunkHint()),
	}
}

// NewSeekedRecordReader wraps src — already positioned at a record
// boundary, typically via index.Index.SeekRecord — in a RecordReader
// that starts at byteOffset/recordOrdinal instead of the start of the
// stream. Headers are unavailable on a seeked RecordReader: Headers
// returns SeekError.
func NewSeekedRecordReader(src io.Reader, d Dialect, byteOffset, recordOrdinal uint64) *RecordReader {
	rr := NewRecordReader(src, d)
	rr.seeked = true
	rr.headerRead = true
	rr.pos.Byte = byteOffset
	rr.pos.Record = recordOrdinal
	return rr
}

// SetHasHeaders marks the first record read as a header row, excluded
// from normal iteration and available via Headers. Returns rr for
// chaining.
func (rr *RecordReader) SetHasHeaders(v bool) *RecordReader {
	rr.hasHeaders = v
	return rr
}

// SetStrictLength enables checking that every record has the same
// field count as the first one read (or the header, if any). A
// mismatch surfaces as UnequalLengthsError from Scan. Returns rr for
// chaining.
func (rr *RecordReader) SetStrictLength(v bool) *RecordReader {
	rr.strictLength = v
	return rr
}

// SetTrimPolicy sets which records get field whitespace trimmed.
// Returns rr for chaining.
func (rr *RecordReader) SetTrimPolicy(p TrimPolicy) *RecordReader {
	rr.trimPolicy = p
	return rr
}

// Position returns the reader's current position: the byte offset and
// line number just past the bytes consumed so far, and the ordinal of
// the next record to be read. Under a CRLF terminator the '\n' of a
// "\r\n" pair is consumed by the following read, so after such a
// record Byte points at that '\n' and Line does not yet count it.
func (rr *RecordReader) Position() Position {
	return rr.pos
}

// Err returns the first error encountered by Scan, or nil if Scan has
// never returned false due to an error (as opposed to clean EOF).
func (rr *RecordReader) Err() error {
	return rr.err
}

// Headers returns the header record, reading it from src on first
// call if necessary. It returns SeekError if called on a RecordReader
// obtained from an Index seek, since the header row is no longer
// reachable.
func (rr *RecordReader) Headers() (*StringRecord, error) {
	if rr.seeked {
		return nil, &SeekError{}
	}
	if !rr.hasHeaders {
		return nil, nil
	}
	if err := rr.ensureHeaders(); err != nil {
		return nil, err
	}
	return rr.headers, nil
}

func (rr *RecordReader) ensureHeaders() error {
	if rr.headerRead {
		return nil
	}
	rr.headerRead = true
	raw, err := rr.readRecordRaw()
	if err != nil {
		return err
	}
	if rr.trimPolicy == TrimHeaders || rr.trimPolicy == TrimAll {
		trimRecordInPlace(raw)
	}
	sr, err := raw.ToStringRecord(rr.pos)
	if err != nil {
		return err
	}
	rr.headers = sr
	if rr.strictLength && rr.expectedFields < 0 {
		rr.expectedFields = raw.NumFields()
	}
	return nil
}

// Scan reads the next data record. It returns false at end of stream
// or on error; distinguish the two with Err.
func (rr *RecordReader) Scan() bool {
	if rr.err != nil {
		return false
	}
	if rr.hasHeaders && !rr.headerRead {
		if err := rr.ensureHeaders(); err != nil {
			if err != io.EOF {
				rr.err = err
			}
			return false
		}
	}

	raw, err := rr.readRecordRaw()
	if err != nil {
		if err != io.EOF {
			rr.err = err
		}
		return false
	}

	if rr.trimPolicy == TrimAll || rr.trimPolicy == TrimFields {
		trimRecordInPlace(raw)
	}

	if rr.strictLength {
		if rr.expectedFields < 0 {
			rr.expectedFields = raw.NumFields()
		} else if raw.NumFields() != rr.expectedFields {
			rr.err = &UnequalLengthsError{
				Position: rr.pos,
				Expected: rr.expectedFields,
				Actual:   raw.NumFields(),
			}
			return false
		}
	}

	rr.rec = *raw
	rr.pos.Record++
	return true
}

// Record returns the record produced by the most recent successful
// Scan. The returned ByteRecord is only valid until the next Scan
// call.
func (rr *RecordReader) Record() *ByteRecord {
	return &rr.rec
}

// StringRecord validates the most recent record as UTF-8 and returns
// it as a StringRecord.
func (rr *RecordReader) StringRecord() (*StringRecord, error) {
	return rr.rec.ToStringRecord(rr.pos)
}

// readRecordRaw drives the resumable Parser to completion for one
// record, filling from src as needed and growing its output/ends
// buffers on demand. It returns io.EOF for a clean end of stream and
// passes any other error from src through unchanged.
func (rr *RecordReader) readRecordRaw() (*ByteRecord, error) {
	outOff, endsOff := 0, 0
	for {
		res, nIn, nOut, nEnds := rr.parser.ReadRecord(rr.in, rr.out[outOff:], rr.ends[endsOff:], rr.inEOF)
		rr.pos.Byte += uint64(nIn)
		rr.pos.Line += uint64(countNewlines(rr.in[:nIn]))
		rr.in = rr.in[nIn:]
		// ReadRecord's ends are offsets into the output slice it was
		// given, which starts at outOff; make them offsets into rr.out.
		for i := endsOff; i < endsOff+nEnds; i++ {
			rr.ends[i] += outOff
		}
		outOff += nOut
		endsOff += nEnds

		switch res.Status {
		case StatusField:
			data := append([]byte(nil), rr.out[:outOff]...)
			ends := append([]int(nil), rr.ends[:endsOff]...)
			return &ByteRecord{buf: data, ends: ends}, nil

		case StatusOutputFull:
			rr.growOut()

		case StatusOutputEndsFull:
			rr.growEnds()

		case StatusEnd:
			return nil, io.EOF

		case StatusInputEmpty:
			if rr.inEOF {
				return nil, io.EOF
			}
			n, rerr := rr.src.Read(rr.readBuf)
			if n > 0 {
				rr.in = append(rr.in, rr.readBuf[:n]...)
			}
			if rerr != nil {
				if rerr == io.EOF {
					rr.inEOF = true
				} else {
					return nil, rerr
				}
			}
		}
	}
}

func (rr *RecordReader) growOut() {
	want := len(rr.out)*2 + 64
	grown := bufpool.Get()
	if cap(grown) < want {
		grown = make([]byte, 0, want)
	}
	grown = grown[:want]
	copy(grown, rr.out)
	bufpool.Put(rr.out)
	rr.out = grown
}

func (rr *RecordReader) growEnds() {
	want := len(rr.ends)*2 + 16
	grown := bufpool.GetInts()
	if cap(grown) < want {
		grown = make([]int, 0, want)
	}
	grown = grown[:want]
	copy(grown, rr.ends)
	bufpool.PutInts(rr.ends)
	rr.ends = grown
}

// trimRecordInPlace rebuilds rec's buffer with each field's leading
// and trailing ' '/'\t' bytes stripped.
func trimRecordInPlace(rec *ByteRecord) {
	newBuf := make([]byte, 0, len(rec.buf))
	newEnds := make([]int, len(rec.ends))
	start := 0
	for i, end := range rec.ends {
		trimmed := trimHorizontal(rec.buf[start:end])
		newBuf = append(newBuf, trimmed...)
		newEnds[i] = len(newBuf)
		start = end
	}
	rec.buf = newBuf
	rec.ends = newEnds
}

func countNewlines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

func trimHorizontal(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	for j > i && (b[j-1] == ' ' || b[j-1] == '\t') {
		j--
	}
	return b[i:j]
}
