package wisp

import "github.com/wisphttp/wisp/internal/bufpool"

// bodyKind discriminates Response's body representation without an
// interface allocation.
type bodyKind int

const (
	bodyEmpty bodyKind = iota
	bodyStatic
	bodyBuffered
)

// Response is a single request's response builder. It is reused across
// pipelined requests on a connection via Reset, so it never allocates
// beyond its fixed header array and whatever BodyBuf's scratch buffer
// grows to.
type Response struct {
	code   int
	reason string

	fixedHeader []byte

	headers    [16]string
	numHeaders int

	kind       bodyKind
	staticBody string
	bodyBuf    *bufpool.Buffer
}

// NewResponse returns a Response defaulted to 200/"Ok", with body
// storage backed by bodyBuf (typically a connection's body scratch
// buffer, reused across requests).
func NewResponse(bodyBuf *bufpool.Buffer) *Response {
	return &Response{
		code:   StatusOK,
		reason: "Ok",
		bodyBuf: bodyBuf,
	}
}

// StatusCode sets the numeric status code and reason phrase. The
// default, if never called, is 200/"Ok".
func (r *Response) StatusCode(code int, reason string) {
	r.code = code
	r.reason = reason
}

// Header appends a fully-formed "Name: value" header line. It is a
// programming error to call this more than 16 times for one response —
// matching spec.md §4.4's fixed 16-slot array — and panics past the
// limit rather than silently dropping a header.
func (r *Response) Header(line string) {
	if r.numHeaders >= len(r.headers) {
		panic("wisp: too many response headers (max 16)")
	}
	r.headers[r.numHeaders] = line
	r.numHeaders++
}

// HeaderKV appends a header given as separate name/value, formatting
// "name: value" for the caller.
func (r *Response) HeaderKV(name, value string) {
	r.Header(name + ": " + value)
}

// FixedHeader installs a preformed status-line-and-standard-headers
// prelude (up to and including "Date: "), bypassing StatusCode/Header/
// HeaderKV and Content-Length entirely — the fast path spec.md §4.4
// describes for handlers that know their exact wire prelude. It is the
// caller's responsibility to keep the prelude semantically equivalent
// to what the general encoder would have produced.
func (r *Response) FixedHeader(prelude []byte) {
	r.fixedHeader = prelude
}

// BodyString sets a borrowed static body: no copy is made, so s must
// outlive the encode call (a string literal or other process-lifetime
// constant satisfies this trivially).
func (r *Response) BodyString(s string) {
	r.kind = bodyStatic
	r.staticBody = s
}

// BodyBuf returns the scratch buffer for a dynamically constructed
// body; the caller appends to it directly (e.g. via a JSON encoder).
// Using the returned buffer implicitly selects the buffered body
// representation.
func (r *Response) BodyBuf() *bufpool.Buffer {
	r.kind = bodyBuffered
	return r.bodyBuf
}

// bodyLen reports the current body's length in bytes without copying.
func (r *Response) bodyLen() int {
	switch r.kind {
	case bodyStatic:
		return len(r.staticBody)
	case bodyBuffered:
		return r.bodyBuf.Len()
	default:
		return 0
	}
}

// bodyBytes returns the current body's bytes. For the static case this
// aliases the caller-supplied string via s2b; callers must not retain
// or mutate the result past the encode call.
func (r *Response) bodyBytes() []byte {
	switch r.kind {
	case bodyStatic:
		return s2b(r.staticBody)
	case bodyBuffered:
		return r.bodyBuf.Bytes()
	default:
		return nil
	}
}

// Reset clears the builder back to its 200/"Ok"/empty-body defaults so
// it can be reused for the next request on a pipelined connection. The
// body scratch buffer is reset too, freeing its bytes for the next
// response's use.
func (r *Response) Reset() {
	r.code = StatusOK
	r.reason = "Ok"
	r.fixedHeader = nil
	r.numHeaders = 0
	r.kind = bodyEmpty
	r.staticBody = ""
	if r.bodyBuf != nil {
		r.bodyBuf.Reset()
	}
}
