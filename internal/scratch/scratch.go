// Package scratch provides an unbounded-growth companion to bufpool for
// one-off allocations the bounded C1 pool intentionally does not cover;
// its one caller is the wisp package's logAccept, which formats
// accept-error and connection-error log lines in it. Unlike
// bufpool, buffers here are not capped at a fixed reserved size or a
// MaxBufs ceiling — they're for rare, bursty formatting work, not the
// steady-state per-connection hot path.
package scratch

import "github.com/valyala/bytebufferpool"

var pool bytebufferpool.Pool

// Get returns a zero-length scratch buffer from the shared pool.
func Get() *bytebufferpool.ByteBuffer {
	return pool.Get()
}

// Put returns buf to the shared pool for reuse.
func Put(buf *bytebufferpool.ByteBuffer) {
	pool.Put(buf)
}
