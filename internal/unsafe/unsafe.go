// Package unsafe provides the zero-copy byte/string conversions the
// decoder and encoder rely on to keep the connection hot path
// allocation-free.
package unsafe

import "unsafe"

// B2S views b as a string without copying. The caller must not mutate b
// afterwards, since the returned string would then appear to change.
func B2S(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// S2B views s as a byte slice without copying. The returned slice must
// never be written to — the backing array belongs to a Go string.
func S2B(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// EqualFold reports whether b equals want under ASCII case-insensitive
// comparison, without allocating a byte slice out of want. Used for
// header-name matching, where the wire may spell a name in any case.
func EqualFold(b []byte, want string) bool {
	if len(b) != len(want) {
		return false
	}
	for i := 0; i < len(b); i++ {
		bc, wc := b[i], want[i]
		if bc >= 'A' && bc <= 'Z' {
			bc += 'a' - 'A'
		}
		if wc >= 'A' && wc <= 'Z' {
			wc += 'a' - 'A'
		}
		if bc != wc {
			return false
		}
	}
	return true
}
