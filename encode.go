package wisp

import (
	"errors"

	"github.com/wisphttp/wisp/internal/bufpool"
	"github.com/wisphttp/wisp/internal/datecache"
)

const serverHeaderLine = "Server: " + ServerName + "\r\nDate: "

// Encode serializes rsp onto the tail of dst following spec.md §4.4's
// algorithm exactly: status line, Server/Date, Content-Length, user
// headers, blank line, body. If rsp.FixedHeader was set, that prelude
// replaces everything through "Date: " and user headers/Content-Length
// are skipped entirely.
//
// After encoding, rsp is reset so its body scratch buffer is ready for
// reuse by the next request in a pipelined batch.
func Encode(rsp *Response, dst *bufpool.Buffer) {
	body := rsp.bodyBytes()

	if rsp.fixedHeader != nil {
		dst.Append(rsp.fixedHeader)
		dst.Append(datecache.AppendTo(nil))
		dst.Append(crlf)
		dst.Append(body)
		rsp.Reset()
		return
	}

	appendStatusLine(dst, rsp.code, rsp.reason)
	dst.Append([]byte(serverHeaderLine))
	dst.Append(datecache.AppendTo(nil))
	dst.Append([]byte("\r\nContent-Length: "))
	appendInt(dst, len(body))

	for i := 0; i < rsp.numHeaders; i++ {
		dst.Append(singleCRLF)
		dst.Append(s2b(rsp.headers[i]))
	}

	dst.Append(crlf)
	dst.Append(body)

	rsp.Reset()
}

// EncodeError is the convenience 500 encoder spec.md §4.4 and §7
// describe: Server/Date/Content-Length only, body is err's message, no
// user headers. A wrapped *HttpError's code replaces the 500. The
// connection loop does not call it: a Service error there goes through
// Config.ErrorHandler and Encode (see serveOne in conn.go).
func EncodeError(err error, dst *bufpool.Buffer) {
	msg := errorMessage(err)

	code, reason := StatusInternalServerError, StatusText(StatusInternalServerError)
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if t := StatusText(code); t != unknownStatusCode {
			reason = t
		}
	}

	appendStatusLine(dst, code, reason)
	dst.Append([]byte(serverHeaderLine))
	dst.Append(datecache.AppendTo(nil))
	dst.Append([]byte("\r\nContent-Length: "))
	appendInt(dst, len(msg))
	dst.Append(crlf)
	dst.Append(s2b(msg))
}

// statusLineOK is the precomputed literal for the overwhelmingly common
// 200/"Ok" case, avoiding appendInt/string-building work per response.
var statusLineOK = []byte("HTTP/1.1 200 Ok\r\n")

func appendStatusLine(dst *bufpool.Buffer, code int, reason string) {
	if code == StatusOK && reason == "Ok" {
		dst.Append(statusLineOK)
		return
	}
	dst.Append([]byte("HTTP/1.1 "))
	appendInt(dst, code)
	dst.Append([]byte(" "))
	dst.Append(s2b(reason))
	dst.Append(singleCRLF)
}

// appendInt appends the decimal representation of n to dst without
// going through fmt or allocating an intermediate string for the
// common small-integer case.
func appendInt(dst *bufpool.Buffer, n int) {
	if n == 0 {
		dst.Append([]byte("0"))
		return
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	dst.Append(buf[i:])
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
