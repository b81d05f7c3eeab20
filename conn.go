package wisp

import (
	"net"
	"time"

	"github.com/wisphttp/wisp/internal/bufpool"
)

// serveConn runs the write-then-read-then-decode/serve loop of spec.md
// §4.5 for one accepted connection, using svc to produce each response.
// It returns when the connection is closed — by the peer, by a fatal
// parse error, or by a fatal transport error — after shutting down both
// halves of conn. serveConn owns reqBuf/rspBuf/bodyBuf exclusively for
// its lifetime; nothing else may touch them.
//
// Per SPEC_FULL.md §0, the single park point spec.md §4.5 names (park
// on socket readiness) is realized as an ordinary blocking net.Conn.Read
// call: the Go runtime already parks the calling goroutine off its OS
// thread via the netpoller and wakes it on readiness, so a ready-to-read
// connection and an idle-then-woken one take the same code path — there
// is no separate non-blocking-drain-then-park phase to hand-roll.
func serveConn(conn net.Conn, svc Service, cfg Config, pool *bufpool.Pool) {
	reqBuf := pool.Acquire()
	rspBuf := pool.Acquire()
	bodyBuf := pool.Acquire()
	defer func() {
		pool.Release(reqBuf)
		pool.Release(rspBuf)
		pool.Release(bodyBuf)
		conn.Close()
	}()

	var headers [MaxHeaders]HeaderField
	rsp := NewResponse(bodyBuf)

	for {
		if !drainWrites(conn, rspBuf, cfg.WriteTimeout) {
			return
		}

		if !fillRequestBuffer(conn, reqBuf, cfg.ReadTimeout) {
			return
		}

		for {
			req, status, err := Decode(reqBuf, &headers, conn)
			if err != nil {
				logAccept("connection %s: %v", conn.RemoteAddr(), err)
				return
			}
			if status == NeedMore {
				break
			}

			serveOne(req, rsp, svc, cfg)
			Encode(rsp, rspBuf)
		}
	}
}

// serveOne calls svc for req, converting a returned error into a 500 via
// cfg.ErrorHandler (defaulting to defaultErrorHandler), and drains any
// unread body bytes so the next Decode on this connection starts at a
// clean boundary (spec.md §8 item 6, body-drop safety).
func serveOne(req *Request, rsp *Response, svc Service, cfg Config) {
	rsp.Reset()

	if err := svc.Call(req, rsp); err != nil {
		rsp.Reset()
		handler := cfg.ErrorHandler
		if handler == nil {
			handler = defaultErrorHandler
		}
		handler(err, rsp)
	}

	req.Body().Close()
	releaseRequest(req)
}

// drainWrites flushes rspBuf. A single Write call is sufficient: unlike
// a raw non-blocking socket, net.Conn.Write already loops internally
// until all of p is written or an error occurs, so there is no WouldBlock
// state to re-enter the loop over. It returns false if the connection
// should be torn down.
func drainWrites(conn net.Conn, rspBuf *bufpool.Buffer, timeout time.Duration) bool {
	if rspBuf.Len() == 0 {
		return true
	}
	if timeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	n, err := conn.Write(rspBuf.Bytes())
	if n > 0 {
		rspBuf.Advance(n)
	}
	return err == nil
}

// fillRequestBuffer reserves headroom on reqBuf and issues one blocking
// Read — the park point described on serveConn — then greedily drains
// any further bytes that arrive within a 1ms read deadline per Read, so
// a pipelined burst that arrived in one TCP segment is picked up in a
// single loop iteration. Before returning after that drain it puts back
// the cfg.ReadTimeout-based deadline (or none), so a BodyReader reading
// past reqBuf does not inherit the expired 1ms one. It reports whether
// the connection is still alive.
func fillRequestBuffer(conn net.Conn, reqBuf *bufpool.Buffer, timeout time.Duration) bool {
	bufpool.Reserve(reqBuf)
	if timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(timeout))
	}

	n, err := conn.Read(reqBuf.ChunkMut(reqBuf.Headroom()))
	if n > 0 {
		reqBuf.Grow(n)
	}
	if err != nil {
		return false
	}
	if n == 0 {
		return false
	}

	defer func() {
		if timeout > 0 {
			conn.SetReadDeadline(time.Now().Add(timeout))
		} else {
			conn.SetReadDeadline(time.Time{})
		}
	}()

	for {
		bufpool.Reserve(reqBuf)
		room := reqBuf.Headroom()
		if room == 0 {
			return true
		}
		conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		n, err := conn.Read(reqBuf.ChunkMut(room))
		if n > 0 {
			reqBuf.Grow(n)
		}
		if err != nil || n == 0 {
			return true
		}
	}
}
