package datecache

import (
	"testing"
	"time"
)

func TestGetReturnsValidHTTPDate(t *testing.T) {
	snap := Get()
	if len(snap) != Len {
		t.Fatalf("snapshot length = %d, want %d", len(snap), Len)
	}
	if _, err := time.Parse(httpDateLayout, string(snap[:])); err != nil {
		t.Fatalf("snapshot %q does not parse as an HTTP-date: %v", snap, err)
	}
}

func TestAppendToAppendsExactly29Bytes(t *testing.T) {
	dst := []byte("Date: ")
	dst = AppendTo(dst)
	if len(dst) != len("Date: ")+Len {
		t.Fatalf("AppendTo grew dst by %d bytes, want %d", len(dst)-len("Date: "), Len)
	}
}

func TestFormatMatchesRFC1123GMT(t *testing.T) {
	ts := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)
	got := format(ts)
	want := "Sun, 06 Nov 1994 08:49:37 GMT"
	if string(got[:]) != want {
		t.Fatalf("format() = %q, want %q", got, want)
	}
}
