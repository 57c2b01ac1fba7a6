// Package index implements a random-access offset index over a CSV
// stream: the byte offset of every record, stored append-only so an
// index can be built in one pass while writing the data it indexes.
package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// offsetSize is the width of one stored offset and of the trailing
// record count: a plain big-endian uint64.
const offsetSize = 8

// ErrOutOfRange is returned by Get when i is not less than Len.
var ErrOutOfRange = errors.New("index: record number out of range")

// Index is an opened, read-only offset index: N big-endian uint64
// byte offsets followed by one trailing big-endian uint64 giving N
// itself. The trailing count lets Open determine N with a single seek
// to the end, without reading the whole index up front.
type Index struct {
	rs  io.ReadSeeker
	len uint64
}

// Build writes an index for the records whose byte offsets are
// produced by next. next should return io.EOF once there are no more
// records; any other error aborts and is returned to the caller. If
// headerOffset is non-nil, its value is written first, so an index
// built over a file with headers can still seek directly to the first
// data record without re-deriving the header's width.
func Build(w io.Writer, headerOffset *uint64, next func() (uint64, error)) error {
	var count uint64
	var buf [offsetSize]byte

	writeOffset := func(off uint64) error {
		binary.BigEndian.PutUint64(buf[:], off)
		_, err := w.Write(buf[:])
		return err
	}

	if headerOffset != nil {
		if err := writeOffset(*headerOffset); err != nil {
			return err
		}
		count++
	}

	for {
		off, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := writeOffset(off); err != nil {
			return err
		}
		count++
	}

	return writeOffset(count)
}

// Open reads the trailing record count from rs and returns an Index
// ready for Get/SeekRecord. rs must support Seek, since Open seeks to
// the end to read the count before any Get call seeks back into the
// body.
func Open(rs io.ReadSeeker) (*Index, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if end < offsetSize {
		return nil, fmt.Errorf("index: file too short to contain a record count (%d bytes)", end)
	}
	if _, err := rs.Seek(end-offsetSize, io.SeekStart); err != nil {
		return nil, err
	}
	var buf [offsetSize]byte
	if _, err := io.ReadFull(rs, buf[:]); err != nil {
		return nil, err
	}
	return &Index{rs: rs, len: binary.BigEndian.Uint64(buf[:])}, nil
}

// Len returns the number of records indexed.
func (idx *Index) Len() uint64 {
	return idx.len
}

// Get returns the byte offset of record i, seeking to and reading its
// stored offset. It returns ErrOutOfRange if i >= idx.Len().
func (idx *Index) Get(i uint64) (uint64, error) {
	if i >= idx.len {
		return 0, ErrOutOfRange
	}
	if _, err := idx.rs.Seek(int64(i*offsetSize), io.SeekStart); err != nil {
		return 0, err
	}
	var buf [offsetSize]byte
	if _, err := io.ReadFull(idx.rs, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// SeekRecord looks up record i's byte offset and seeks data (the
// stream this index was built over) directly to it, so the next read
// from data begins at record i with no records before it re-parsed.
func (idx *Index) SeekRecord(data io.Seeker, i uint64) error {
	off, err := idx.Get(i)
	if err != nil {
		return err
	}
	_, err = data.Seek(int64(off), io.SeekStart)
	return err
}
