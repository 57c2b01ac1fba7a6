// Package bufpool provides pooled scratch buffers for the record layer
// so repeated buffer growth doesn't pay for a fresh allocation on every
// call.
package bufpool

import (
	"sync"
	"unsafe"
)

// bufferPool holds []byte scratch buffers used for growing a
// RecordReader's field-data buffer without allocating on every grow.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 64)
		return &b
	},
}

// Get returns a []byte buffer from the pool with length 0 but possibly
// nonzero capacity.
func Get() []byte {
	p := bufferPool.Get().(*[]byte)
	buf := *p
	return buf[:0]
}

// Put returns buf to the pool. Oversized buffers are dropped instead of
// retained, so one large record doesn't inflate the pool forever.
func Put(buf []byte) {
	const maxCapacity = 64 << 10
	if cap(buf) > maxCapacity {
		return
	}
	buf = buf[:0]
	bufferPool.Put(&buf)
}

// intBufferPool holds []int scratch buffers used for growing a
// RecordReader's field-end-offset buffer the same way bufferPool grows
// its field-data buffer.
var intBufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]int, 0, 16)
		return &b
	},
}

// GetInts returns a []int buffer from the pool with length 0 but
// possibly nonzero capacity.
func GetInts() []int {
	p := intBufferPool.Get().(*[]int)
	buf := *p
	return buf[:0]
}

// PutInts returns buf to the pool. Oversized buffers are dropped
// instead of retained, mirroring Put.
func PutInts(buf []int) {
	const maxCapacity = 8 << 10
	if cap(buf) > maxCapacity {
		return
	}
	buf = buf[:0]
	intBufferPool.Put(&buf)
}

// UnsafeString converts b to a string without copying. The caller must
// guarantee b is not mutated afterward; this is safe whenever b is a
// subslice of immutable input data.
func UnsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
