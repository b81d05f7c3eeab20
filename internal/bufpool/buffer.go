// Package bufpool implements the scratch-buffer discipline the connection
// loop relies on: a resizable byte buffer with an explicit read cursor, and
// a bounded process-wide pool of pre-sized buffers so steady-state traffic
// does not allocate.
package bufpool

// Buffer is a resizable byte buffer that tracks a logical read cursor
// separately from its backing array. Advance drops a consumed prefix
// without necessarily reallocating or even copying: the backing array is
// only shifted left when the caller actually needs the headroom back.
//
// The zero value is not usable; construct one with newBuffer or via Pool.
type Buffer struct {
	buf   []byte
	start int // read cursor: logical data begins at buf[start:]
}

func newBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.buf) - b.start
}

// Cap returns the total capacity of the backing array.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Headroom returns the number of bytes that can be written into the tail
// of the backing array (via ChunkMut) before it needs to grow. This is
// distinct from Cap()-Len(): Len() only counts unread bytes, while
// Headroom() accounts for the already-consumed prefix too.
func (b *Buffer) Headroom() int {
	return cap(b.buf) - len(b.buf)
}

// Bytes returns the unread portion of the buffer. The slice is only valid
// until the next call to Append, Reserve, Advance, or Reset.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.start:]
}

// Append appends p to the buffer, growing the backing array if needed.
func (b *Buffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// Advance drops the first n unread bytes, shifting the read cursor forward.
// It is the caller's responsibility to ensure n <= Len(); advancing past
// the end of the buffer is a programming error and panics.
func (b *Buffer) Advance(n int) {
	if n == 0 {
		return
	}
	if n > b.Len() {
		panic("bufpool: Advance past buffer end")
	}
	b.start += n
	// Once the cursor has eaten the whole buffer, reset both to zero so
	// repeated Advance/Reserve cycles don't walk the backing array off
	// into ever-growing territory.
	if b.start == len(b.buf) {
		b.buf = b.buf[:0]
		b.start = 0
	}
}

// Reset empties the buffer, discarding unread bytes, and keeps the backing
// array for reuse.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.start = 0
}

// ChunkMut exposes n bytes of uninitialized tail capacity for a direct
// read (e.g. net.Conn.Read) to fill; the caller must follow with Grow(n)
// once it knows how many bytes were actually written.
func (b *Buffer) ChunkMut(n int) []byte {
	b.growCap(n)
	l := len(b.buf)
	return b.buf[l : l+n : l+n]
}

// Grow extends the logical length by n bytes that a prior ChunkMut caller
// has already filled in.
func (b *Buffer) Grow(n int) {
	b.buf = b.buf[:len(b.buf)+n]
}

// growCap ensures at least n bytes of spare capacity exist past the
// current length, compacting the consumed prefix first if that alone is
// enough headroom.
func (b *Buffer) growCap(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	// Compacting (dropping the already-consumed prefix) is cheaper than
	// growing and usually recovers enough room on its own.
	if b.start > 0 {
		copy(b.buf[:len(b.buf)-b.start], b.buf[b.start:])
		b.buf = b.buf[:len(b.buf)-b.start]
		b.start = 0
		if cap(b.buf)-len(b.buf) >= n {
			return
		}
	}
	grown := make([]byte, len(b.buf), len(b.buf)+n)
	copy(grown, b.buf)
	b.buf = grown
}
