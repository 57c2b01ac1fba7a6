package csv

import (
	"unicode/utf8"

	"github.com/shapestone/csvcore/internal/bufpool"
)

// ByteRecord is one CSV record as a contiguous byte buffer plus a
// parallel list of field end offsets. Representing fields this way —
// rather than as a []byte per field — means reading a record costs at
// most one buffer growth and no per-field allocation.
type ByteRecord struct {
	buf  []byte
	ends []int
}

// NewByteRecord returns an empty ByteRecord ready for reuse with
// Parser.ReadRecord.
func NewByteRecord() *ByteRecord {
	return &ByteRecord{}
}

// Reset empties r while retaining its buffers' capacity, so a caller
// can reuse the same ByteRecord without reallocating its buffers.
func (r *ByteRecord) Reset() {
	r.buf = r.buf[:0]
	r.ends = r.ends[:0]
}

// NumFields returns the number of fields in r.
func (r *ByteRecord) NumFields() int {
	return len(r.ends)
}

// Field returns the bytes of field i. The returned slice aliases r's
// internal buffer and is only valid until the next call that mutates
// r.
func (r *ByteRecord) Field(i int) []byte {
	start := 0
	if i > 0 {
		start = r.ends[i-1]
	}
	return r.buf[start:r.ends[i]]
}

// Fields returns every field as a slice of byte slices, each aliasing
// r's internal buffer.
func (r *ByteRecord) Fields() [][]byte {
	out := make([][]byte, len(r.ends))
	start := 0
	for i, end := range r.ends {
		out[i] = r.buf[start:end]
		start = end
	}
	return out
}

// growBuf returns r.buf grown to have room for at least n more bytes,
// along with its current length, so a caller can write directly into
// the tail and then call commitField.
func (r *ByteRecord) growBuf(n int) (buf []byte, offset int) {
	offset = len(r.buf)
	need := offset + n
	if cap(r.buf) < need {
		grown := make([]byte, offset, need*2+64)
		copy(grown, r.buf)
		r.buf = grown
	}
	return r.buf[:need], offset
}

// commitField records that the field currently being built ends at the
// current length of r.buf.
func (r *ByteRecord) commitField() {
	r.ends = append(r.ends, len(r.buf))
}

// isASCII reports whether every byte in b is plain 7-bit ASCII, the
// fast path for UTF-8 validation: ASCII text is trivially valid UTF-8
// and needs no decoding at all.
func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ToStringRecord validates r's bytes as UTF-8 and returns the
// equivalent StringRecord. pos is used only to annotate a Utf8Error if
// validation fails; it does not affect the bytes examined.
func (r *ByteRecord) ToStringRecord(pos Position) (*StringRecord, error) {
	if isASCII(r.buf) {
		return &StringRecord{
			s:    bufpool.UnsafeString(r.buf),
			ends: append([]int(nil), r.ends...),
		}, nil
	}
	if utf8.Valid(r.buf) {
		return &StringRecord{
			s:    string(r.buf),
			ends: append([]int(nil), r.ends...),
		}, nil
	}
	fieldIdx, validUpTo := r.invalidUTF8Field()
	return nil, &Utf8Error{Position: pos, FieldIndex: fieldIdx, ValidUpTo: validUpTo}
}

// invalidUTF8Field locates the first field containing invalid UTF-8
// and how many of its leading bytes are valid.
func (r *ByteRecord) invalidUTF8Field() (fieldIndex, validUpTo int) {
	start := 0
	for i, end := range r.ends {
		field := r.buf[start:end]
		if !utf8.Valid(field) {
			n := 0
			for n < len(field) {
				_, size := utf8.DecodeRune(field[n:])
				if size == 1 && field[n] >= utf8.RuneSelf {
					return i, n
				}
				n += size
			}
			return i, n
		}
		start = end
	}
	return 0, 0
}

// StringRecord is one CSV record whose bytes have been validated as
// UTF-8. Like ByteRecord, fields share one backing string sliced by a
// parallel ends offset list.
type StringRecord struct {
	s    string
	ends []int
}

// NumFields returns the number of fields in r.
func (r *StringRecord) NumFields() int {
	return len(r.ends)
}

// Field returns field i.
func (r *StringRecord) Field(i int) string {
	start := 0
	if i > 0 {
		start = r.ends[i-1]
	}
	return r.s[start:r.ends[i]]
}

// Fields returns every field as a []string.
func (r *StringRecord) Fields() []string {
	out := make([]string, len(r.ends))
	start := 0
	for i, end := range r.ends {
		out[i] = r.s[start:end]
		start = end
	}
	return out
}
