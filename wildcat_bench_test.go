package wisp

import (
	"strings"
	"testing"

	"github.com/evanphx/wildcat"

	"github.com/stretchr/testify/require"

	"github.com/wisphttp/wisp/internal/bufpool"
)

// requestFixtures is the shared corpus both the hand-rolled C3 decoder
// and wildcat's independent tokenizer parse, to cross-check the
// round-trip header-parse property (spec.md §8 item 1) against a
// second implementation rather than only against itself.
var requestFixtures = []string{
	"GET /plaintext HTTP/1.1\r\nHost: x\r\n\r\n",
	"GET /json HTTP/1.1\r\nHost: example.com\r\nAccept: */*\r\n\r\n",
	"POST /submit HTTP/1.1\r\nHost: x\r\nContent-Type: application/json\r\nContent-Length: 13\r\n\r\n",
}

// TestWildcatCrossCheckAgreesOnMethodPath parses each fixture with both
// this module's Decode and wildcat's HTTPHeader, asserting they agree on
// method and path. wildcat is not on the production hot path (see
// SPEC_FULL.md §3) — this is its only exercised home.
func TestWildcatCrossCheckAgreesOnMethodPath(t *testing.T) {
	for _, fixture := range requestFixtures {
		fixture := fixture
		t.Run(fixture[:strings.IndexByte(fixture, ' ')], func(t *testing.T) {
			pool := bufpool.New()
			reqBuf := pool.Acquire()
			reqBuf.Append([]byte(fixture))

			var headers [MaxHeaders]HeaderField
			req, status, err := Decode(reqBuf, &headers, &fakeConn{r: strings.NewReader("")})
			require.NoError(t, err)
			require.Equal(t, Complete, status)

			raw := []byte(fixture)
			hdr := wildcat.NewHeader(raw, MaxHeaders)
			_, err = hdr.Parse(raw)
			require.NoError(t, err)

			require.Equal(t, req.Method, string(hdr.Method()))
			require.Equal(t, req.Path, string(hdr.Path()))
		})
	}
}
