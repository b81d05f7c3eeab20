package wisp

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/wisphttp/wisp/internal/bufpool"
)

// Service is the boundary to user code (spec.md §6): Call populates rsp
// for req and returns an error only for conditions the caller wants
// mapped to a 500 (or, wrapped in an *HttpError, a specific status).
type Service interface {
	Call(req *Request, rsp *Response) error
}

// Cloneable is implemented by a stateless Service the acceptor can copy
// once per accepted connection instead of constructing a fresh instance
// via a ServiceFactory.
type Cloneable interface {
	Service
	Clone() Service
}

// ServiceFactory produces a fresh Service per accepted connection,
// optionally keyed by connID — a monotonically increasing identifier
// derived from acceptance order, not from any socket handle, since Go's
// net.Conn does not expose a stable raw descriptor portably. This
// mirrors may_minihttp's HttpServiceFactory: a factory can use connID to
// pick, e.g., a dedicated pooled resource per connection-fiber.
type ServiceFactory interface {
	NewService(connID uint64) Service
}

// Server binds a listener and dispatches each accepted connection's
// serveConn onto a bounded worker pool, sized by Config.Workers/
// Config.PoolCapacity (spec.md §6's io_workers/workers/pool_capacity
// knobs, realized per SPEC_FULL.md §0 as an ants.Pool instead of a
// hand-rolled thread affinity scheme).
type Server struct {
	cfg  Config
	pool *bufpool.Pool
}

// NewServer constructs a Server with the given configuration and its
// own buffer pool.
func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg, pool: bufpool.New()}
}

// Acceptor is the running accept loop returned by Start. Wait blocks
// until the listener closes; Shutdown closes it, cancelling the accept
// loop cooperatively at its next iteration.
type Acceptor struct {
	ln       net.Listener
	workers  *ants.Pool
	limiter  *rate.Limiter
	done     chan struct{}
	nextConn atomic.Uint64
}

// Start binds addr and begins accepting connections, dispatching each
// one onto the worker pool with a per-connection Service produced from
// svc: a ServiceFactory is asked for one keyed by connID; a Cloneable
// Service is cloned; a plain Service is reused as-is (the caller's
// responsibility to make that concurrency-safe). svc must implement one
// of Service, Cloneable, or ServiceFactory, or Start returns an error.
func (s *Server) Start(addr string, svc any) (*Acceptor, error) {
	if !implementsServiceContract(svc) {
		return nil, errors.New("wisp: svc must implement Service or ServiceFactory")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	// PoolCapacity, if set, is the hard cap on live connection fibers
	// (spec.md's pool_capacity). Otherwise IOWorkers+Workers sizes the
	// pool directly, folding spec.md's separate io-bound/compute-bound
	// thread-count knobs into the one dimension Go's goroutine pool
	// actually has — see DESIGN.md.
	poolSize := s.cfg.PoolCapacity
	if poolSize <= 0 {
		poolSize = s.cfg.IOWorkers + s.cfg.Workers
	}
	if poolSize <= 0 {
		poolSize = ants.DefaultAntsPoolSize
	}
	workers, err := ants.NewPool(poolSize, ants.WithNonblocking(false))
	if err != nil {
		ln.Close()
		return nil, err
	}

	var limiter *rate.Limiter
	if rl := s.cfg.AcceptRateLimit; rl != nil {
		limiter = rate.NewLimiter(rate.Every(rl.Duration/time.Duration(max(rl.Requests, 1))), rl.Burst)
	}

	a := &Acceptor{ln: ln, workers: workers, limiter: limiter, done: make(chan struct{})}

	if !s.cfg.DisableStartupMessage {
		logStartup(ln.Addr().String())
	}

	go s.acceptLoop(a, svc)

	return a, nil
}

func (s *Server) acceptLoop(a *Acceptor, svc any) {
	defer close(a.done)
	defer a.workers.Release()

	for {
		conn, err := a.ln.Accept()
		if err != nil {
			select {
			case <-a.done:
				return
			default:
			}
			if isClosedErr(err) {
				return
			}
			logAccept("accept: %v", err)
			continue
		}

		if a.limiter != nil {
			if err := a.limiter.Wait(context.Background()); err != nil {
				conn.Close()
				continue
			}
		}

		connID := a.nextConn.Add(1)
		connSvc := instantiateService(svc, connID)
		cfg := s.cfg
		pool := s.pool

		submitErr := a.workers.Submit(func() {
			serveConn(conn, connSvc, cfg, pool)
		})
		if submitErr != nil {
			logAccept("dispatch: %v", submitErr)
			conn.Close()
		}
	}
}

// instantiateService resolves the per-connection Service instance: a
// ServiceFactory is asked for one keyed by connID; a Cloneable service
// is cloned; anything else (a stateless, concurrency-safe Service) is
// reused as-is. svc is assumed to already satisfy implementsServiceContract.
func instantiateService(svc any, connID uint64) Service {
	if factory, ok := svc.(ServiceFactory); ok {
		return factory.NewService(connID)
	}
	if cloneable, ok := svc.(Cloneable); ok {
		return cloneable.Clone()
	}
	return svc.(Service)
}

// implementsServiceContract reports whether svc satisfies one of the
// three shapes Start accepts.
func implementsServiceContract(svc any) bool {
	if _, ok := svc.(Service); ok {
		return true
	}
	_, ok := svc.(ServiceFactory)
	return ok
}

// Wait blocks until the acceptor's listener has closed and its accept
// loop has returned.
func (a *Acceptor) Wait() {
	<-a.done
}

// Shutdown closes the listener, cancelling the accept loop at its next
// Accept call. It does not wait for in-flight connections to finish —
// spec.md's Non-goals explicitly exclude graceful shutdown beyond
// cancelling the acceptor.
func (a *Acceptor) Shutdown(ctx context.Context) error {
	err := a.ln.Close()
	select {
	case <-a.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// defaultErrorHandler is Config.ErrorHandler's default: a 500 whose body
// is the error's message, per spec.md §7's "unhandled service errors ⇒
// 500 with plaintext message". A wrapped *HttpError's code (and its
// reason phrase, when StatusText knows it) replaces the 500. It only
// shapes the Response that Encode (not EncodeError) will serialize, since
// the connection loop always goes through the ordinary Response/Encode
// path for consistency with pipelining.
func defaultErrorHandler(err error, rsp *Response) {
	code, reason := StatusInternalServerError, StatusText(StatusInternalServerError)
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if t := StatusText(code); t != unknownStatusCode {
			reason = t
		}
	}
	rsp.StatusCode(code, reason)
	rsp.BodyString(err.Error())
}

// isClosedErr reports whether err is the result of Accept being called
// on a listener this process already closed — net.Listener has no typed
// sentinel for this, so matching the message text is the same approach
// net/http's own Server.Serve uses.
func isClosedErr(err error) bool {
	return strings.Contains(err.Error(), "use of closed network connection")
}
