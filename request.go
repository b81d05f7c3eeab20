package wisp

import (
	"math"

	"github.com/wisphttp/wisp/internal/bufpool"
)

// HeaderField is one parsed (name, value) pair. Both fields are zero-copy
// views into the connection's request buffer, valid only until the next
// Decode call on that same buffer — see Request's doc comment.
type HeaderField struct {
	Name  string
	Value string
}

// Request is a view over a connection's request buffer produced by
// Decode. Method, Path, and every HeaderField's Name/Value alias the
// buffer's backing array: they are valid only until the connection loop
// advances or otherwise mutates that buffer, which in practice means
// "until the next Decode call on this connection". Never retain a
// Request, or strings sliced from it, past the iteration that produced
// it — copy anything that needs to outlive the call to Service.Call.
type Request struct {
	Method      string
	Path        string
	VersionMinor byte

	headers    *[MaxHeaders]HeaderField
	numHeaders int

	reqBuf     *bufpool.Buffer
	conn       netReader
	contentLen int64
	hasBody    bool

	body *BodyReader
}

// Headers returns the request's parsed header fields.
func (r *Request) Headers() []HeaderField {
	return r.headers[:r.numHeaders]
}

// Header looks up a header by name, case-insensitively. It returns
// ("", false) if no such header was present.
func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers() {
		if headerEqualFold(s2b(h.Name), name) {
			return h.Value, true
		}
	}
	return "", false
}

// noBodyLimit is the sentinel used when a request has no Content-Length
// (or an invalid one): the body reader behaves as "read until EOF"
// rather than "read zero bytes", per spec.md §9's open question.
const noBodyLimit = int64(math.MaxInt64)

// Body returns the Request's BodyReader, bound to whatever body bytes
// are already buffered, the underlying connection for further reads, and
// the Content-Length-derived limit. The same *BodyReader is returned on
// every call: a Service that reads its own request body and the
// connection loop's post-handler drain (conn.go's serveOne) must observe
// and advance the one shared cursor, not two independent ones racing to
// consume the same bytes — see DESIGN.md. Callers that don't need the
// body at all may simply ignore it; serveOne's drain-on-Close still runs
// against the same lazily-created reader.
func (r *Request) Body() *BodyReader {
	if r.body == nil {
		limit := r.contentLen
		if !r.hasBody {
			limit = noBodyLimit
		}
		r.body = &BodyReader{
			reqBuf: r.reqBuf,
			conn:   r.conn,
			limit:  limit,
		}
	}
	return r.body
}
