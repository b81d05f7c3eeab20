package wisp

// Wire-protocol constants shared by the decoder and encoder.
const (
	// MaxHeaders bounds the number of header fields a single request may
	// carry; the decoder writes into a caller-owned array of exactly this
	// many slots so parsing never allocates.
	MaxHeaders = 16

	// ServerName is the value of the fixed "Server" response header.
	ServerName = "wisp"
)

// crlf is the HTTP header-block terminator.
var crlf = []byte("\r\n\r\n")

// singleCRLF separates a header line (or the status line) from the next.
var singleCRLF = []byte("\r\n")
