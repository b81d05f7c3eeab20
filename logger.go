package wisp

import (
	"fmt"
	"os"

	"github.com/wisphttp/wisp/internal/scratch"
	"github.com/wisphttp/wisp/log"
)

// init installs wisp's own default logger ahead of the first
// log.GetLogger() call: a plain log.Logger writes raw
// "timestamp | LEVEL | msg" lines, so without this the engine's
// accept-error and startup-banner output would never pass through
// log.ConsoleWriter's timestamp reformatting and colorized output
// (log/console.go) at all. Routing the engine's default logger through
// log.NewConsoleWriter gives it a real caller. The helpers in
// log/color.go are not called by ConsoleWriter and remain exercised only
// by their own package tests.
func init() {
	log.SetLogger(log.New(log.NewConsoleWriter(os.Stdout), log.InfoLevel))
}

// logAccept logs an accept-loop or connection-level error through the
// package's default logger. The message is assembled in a scratch
// buffer from internal/scratch rather than via fmt.Sprintf directly,
// since accept-error bursts (e.g. a file-descriptor exhaustion storm)
// are exactly the unbounded, bursty formatting work that pool is for —
// see SPEC_FULL.md §3.
func logAccept(format string, v ...interface{}) {
	buf := scratch.Get()
	defer scratch.Put(buf)
	fmt.Fprintf(buf, format, v...)
	log.GetLogger().Error().Msg(string(buf.B))
}

// logStartup prints the one-line startup banner Start emits unless
// Config.DisableStartupMessage is set.
func logStartup(addr string) {
	log.GetLogger().Info().Msgf("%s listening on %s", ServerName, addr)
}

// SetLogger replaces the logger the engine uses for accept-error and
// startup-banner messages with any implementation of log.ILogger — a
// thin pass-through to log.SetLogger so callers don't need to import
// the log package just to customize this.
func SetLogger(l log.ILogger) {
	log.SetLogger(l)
}
