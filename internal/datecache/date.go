// Package datecache maintains the process-wide "current Date header"
// service: a single shared 29-byte RFC 1123 timestamp, refreshed by a
// background goroutine roughly twice a second, so the connection hot path
// never has to format time.Now() per response.
package datecache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Len is the exact width of an HTTP-date value, e.g.
// "Sun, 06 Nov 1994 08:49:37 GMT".
const Len = 29

const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

const refreshInterval = 500 * time.Millisecond

// cache publishes the current date by double-buffering: the writer fills
// the slot that readers are not currently pointed at, then flips active
// with a single atomic store. Readers never block the writer and may
// observe either the previous or current snapshot, never a torn one.
type cache struct {
	slots  [2][Len]byte
	active atomic.Uint32
}

var (
	shared   cache
	initOnce sync.Once
)

// Get returns the current 29-byte HTTP-date snapshot. The background
// refresher is started lazily on first call and then runs for the
// lifetime of the process.
func Get() [Len]byte {
	initOnce.Do(start)
	return shared.slots[shared.active.Load()]
}

// AppendTo appends the current HTTP-date to dst without allocating an
// intermediate snapshot copy.
func AppendTo(dst []byte) []byte {
	initOnce.Do(start)
	snap := shared.slots[shared.active.Load()]
	return append(dst, snap[:]...)
}

func start() {
	shared.slots[0] = format(time.Now())
	shared.slots[1] = shared.slots[0]
	go refreshLoop()
}

func refreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for range ticker.C {
		next := 1 - shared.active.Load()
		shared.slots[next] = format(time.Now())
		shared.active.Store(next)
	}
}

func format(t time.Time) [Len]byte {
	var out [Len]byte
	b := t.UTC().AppendFormat(out[:0], httpDateLayout)
	copy(out[:], b)
	return out
}
