package wisp

import "github.com/wisphttp/wisp/internal/unsafe"

// b2s views b as a string without copying. The result must not outlive
// the next mutation of b — in practice, not past the next Decode call on
// the request buffer that b was sliced from.
func b2s(b []byte) string {
	return unsafe.B2S(b)
}

// s2b views s as a byte slice without copying. The result must never be
// written to.
func s2b(s string) []byte {
	return unsafe.S2B(s)
}

// headerEqualFold reports whether name (as spelled on the wire, in any
// case) matches want under ASCII case-insensitive comparison, without
// allocating a byte slice out of want.
func headerEqualFold(name []byte, want string) bool {
	return unsafe.EqualFold(name, want)
}
