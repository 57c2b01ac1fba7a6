package csv

import "fmt"

// Utf8Error reports that a field's bytes are not valid UTF-8, which
// prevents promoting a ByteRecord to a StringRecord. ValidUpTo is the
// number of leading bytes of the field that were valid.
type Utf8Error struct {
	Position   Position
	FieldIndex int
	ValidUpTo  int
}

func (e *Utf8Error) Error() string {
	return fmt.Sprintf("csv: invalid utf-8 in field %d at %s (valid up to byte %d)",
		e.FieldIndex, e.Position, e.ValidUpTo)
}

// UnequalLengthsError reports that a record's field count did not
// match the first record read (or the header, if one was set), while
// the reader is running under strict length checking.
type UnequalLengthsError struct {
	Position Position
	Expected int
	Actual   int
}

func (e *UnequalLengthsError) Error() string {
	return fmt.Sprintf("csv: record at %s has %d fields, expected %d", e.Position, e.Actual, e.Expected)
}

// SeekError reports that headers were requested from a RecordReader
// after it had already been seeked past its first record, so the
// header row is no longer available to read.
type SeekError struct{}

func (e *SeekError) Error() string {
	return "csv: cannot read headers after seeking past the first record"
}

// WriterNeedsQuotesError reports that QuoteStyle was Never but a field
// contains a byte that cannot be represented unquoted (the delimiter,
// the terminator, '\r', '\n', or the quote byte itself), or is an empty
// field at the start of a record.
type WriterNeedsQuotesError struct {
	Field string
}

func (e *WriterNeedsQuotesError) Error() string {
	return fmt.Sprintf("csv: field %q requires quoting but QuoteStyle is Never", e.Field)
}

// Position renders as "line L, byte B" for use in error messages.
func (p Position) String() string {
	return fmt.Sprintf("line %d, byte %d", p.Line, p.Byte)
}
