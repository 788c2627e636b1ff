// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"io"
)

// Buffer is a write buffer whose storage lives in an arena. It
// implements io.Writer, io.StringWriter and io.ReaderFrom. With a nil
// arena it degrades to ordinary heap-backed appends.
//
// The buffer borrows from the arena: it must not be used after the
// arena is reset or released.
type Buffer struct {
	arena   Arena
	buf     []byte
	scratch []byte // chunk buffer for ReadFrom
}

// readChunkSize is the granularity of ReadFrom reads.
const readChunkSize = 4 * 1024

// NewBuffer creates an empty Buffer drawing storage from a.
func NewBuffer(a Arena) *Buffer {
	return &Buffer{arena: a}
}

// Write appends p to the buffer. It never returns an error.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.buf = SliceAppend(b.arena, b.buf, p...)
	return len(p), nil
}

// WriteString appends s to the buffer. It never returns an error.
func (b *Buffer) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	b.buf = SliceAppend(b.arena, b.buf, []byte(s)...)
	return len(s), nil
}

// WriteByte appends a single byte. It never returns an error.
func (b *Buffer) WriteByte(c byte) error {
	b.buf = SliceAppend(b.arena, b.buf, c)
	return nil
}

// ReadFrom appends r's contents to the buffer until EOF. The chunk
// buffer it reads through is itself arena-allocated.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	if b.scratch == nil {
		b.scratch = AllocateSlice[byte](b.arena, readChunkSize, readChunkSize)
	}
	var n int64
	for {
		nr, err := r.Read(b.scratch)
		if nr > 0 {
			b.buf = SliceAppend(b.arena, b.buf, b.scratch[:nr]...)
			n += int64(nr)
		}
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}

// WriteTo writes the buffered bytes to w and drops whatever was
// written from the buffer.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if len(b.buf) == 0 {
		return 0, nil
	}
	n, err := w.Write(b.buf)
	if n > 0 {
		b.buf = b.buf[:copy(b.buf, b.buf[n:])]
	}
	return int64(n), err
}

// Bytes returns the buffered bytes. The slice aliases arena memory and
// is valid only until the next buffer modification.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// String returns a heap copy of the buffered bytes.
func (b *Buffer) String() string {
	return string(b.buf)
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying storage.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Truncate keeps the first n buffered bytes. It panics if n is
// negative or past the end of the buffer.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.buf) {
		panic("arena: buffer truncation out of range")
	}
	b.buf = b.buf[:n]
}

// Reset empties the buffer, keeping its storage for reuse.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}
