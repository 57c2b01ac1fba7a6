package csv

import (
	"bufio"
	"io"
)

// QuoteStyle controls when Writer wraps a field in quote bytes.
type QuoteStyle int

const (
	// QuoteNecessary quotes a field only when it contains the
	// delimiter, the terminator, the quote byte, or (for the first
	// field of a record) could otherwise be mistaken for a different
	// record. This is the default and matches ordinary CSV output.
	QuoteNecessary QuoteStyle = iota
	// QuoteAlways quotes every field regardless of content.
	QuoteAlways
	// QuoteNever never quotes; WriteField returns
	// WriterNeedsQuotesError if a field needs quoting to round-trip.
	QuoteNever
)

// Writer serializes records byte-by-byte according to a Dialect,
// mirroring Parser's resumable design: WriteField/WriteDelimiter/
// WriteTerminator are the primitives, and a record is just a sequence
// of field-then-delimiter calls ending in WriteTerminator.
type Writer struct {
	dst         *bufio.Writer
	d           Dialect
	style       QuoteStyle
	atLineStart bool
}

// NewWriter returns a Writer for dst using dialect d and the default
// QuoteStyle (QuoteNecessary).
func NewWriter(dst io.Writer, d Dialect) *Writer {
	return &Writer{
		dst:         bufio.NewWriter(dst),
		d:           d,
		style:       QuoteNecessary,
		atLineStart: true,
	}
}

// SetQuoteStyle sets the quoting policy. Returns w for chaining.
func (w *Writer) SetQuoteStyle(s QuoteStyle) *Writer {
	w.style = s
	return w
}

// WriteRecord writes every field of fields, each separated by the
// dialect's delimiter, followed by one terminator.
func (w *Writer) WriteRecord(fields [][]byte) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteDelimiter(); err != nil {
				return err
			}
		}
		if err := w.WriteField(f); err != nil {
			return err
		}
	}
	return w.WriteTerminator()
}

// WriteRecordStrings is WriteRecord for string fields.
func (w *Writer) WriteRecordStrings(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteDelimiter(); err != nil {
				return err
			}
		}
		if err := w.WriteField([]byte(f)); err != nil {
			return err
		}
	}
	return w.WriteTerminator()
}

// WriteField writes one field, quoting it according to w's QuoteStyle.
func (w *Writer) WriteField(field []byte) error {
	needs := w.needsQuotes(field)
	w.atLineStart = false
	switch w.style {
	case QuoteNever:
		if needs {
			return &WriterNeedsQuotesError{Field: string(field)}
		}
		_, err := w.dst.Write(field)
		return err
	case QuoteAlways:
		return w.writeQuoted(field)
	default: // QuoteNecessary
		if !needs {
			_, err := w.dst.Write(field)
			return err
		}
		return w.writeQuoted(field)
	}
}

func (w *Writer) writeQuoted(field []byte) error {
	if err := w.dst.WriteByte(w.d.Quote); err != nil {
		return err
	}
	for _, b := range field {
		if b == w.d.Quote {
			if w.d.Escape != nil && !w.d.DoubleQuote {
				if err := w.dst.WriteByte(*w.d.Escape); err != nil {
					return err
				}
			} else {
				if err := w.dst.WriteByte(w.d.Quote); err != nil {
					return err
				}
			}
		} else if w.d.Escape != nil && b == *w.d.Escape {
			if err := w.dst.WriteByte(*w.d.Escape); err != nil {
				return err
			}
		}
		if err := w.dst.WriteByte(b); err != nil {
			return err
		}
	}
	return w.dst.WriteByte(w.d.Quote)
}

// WriteDelimiter writes one delimiter byte.
func (w *Writer) WriteDelimiter() error {
	return w.dst.WriteByte(w.d.Delimiter)
}

// WriteTerminator writes one record terminator ("\r\n" if the dialect
// is CRLF, otherwise the single configured terminator byte) and resets
// the writer's at-line-start bookkeeping.
func (w *Writer) WriteTerminator() error {
	w.atLineStart = true
	if w.d.Terminator.CRLF {
		if err := w.dst.WriteByte('\r'); err != nil {
			return err
		}
		return w.dst.WriteByte('\n')
	}
	return w.dst.WriteByte(w.d.Terminator.Any)
}

// Finish flushes any buffered output. Callers must call Finish before
// discarding a Writer, the same way a bufio.Writer needs Flush.
func (w *Writer) Finish() error {
	return w.dst.Flush()
}

// needsQuotes reports whether field must be quoted to round-trip
// through this dialect: it contains the delimiter, either terminator
// byte, the quote byte, or a carriage return/line feed. An empty field
// needs quoting only at the start of a record, where an unquoted empty
// field would otherwise be indistinguishable from a blank line.
func (w *Writer) needsQuotes(field []byte) bool {
	if len(field) == 0 {
		return w.atLineStart
	}
	for _, b := range field {
		if w.byteNeedsQuotes(b) {
			return true
		}
	}
	return false
}

func (w *Writer) byteNeedsQuotes(b byte) bool {
	if b == w.d.Delimiter || b == w.d.Quote || b == '\r' || b == '\n' {
		return true
	}
	if !w.d.Terminator.CRLF && b == w.d.Terminator.Any {
		return true
	}
	return false
}
