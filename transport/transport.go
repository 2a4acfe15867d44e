// Package transport moves opaque byte payloads to and from a peer over
// a stream (TCP), datagram (UDP), or receive-only multicast socket.
package transport

import (
	"errors"
	"time"
)

// Transport-level errors, per spec.md §7.
var (
	ErrConnectRefused = errors.New("transport: connection refused")
	ErrConnectTimeout = errors.New("transport: connect timeout")
	ErrReadError      = errors.New("transport: read error")
	ErrWriteError     = errors.New("transport: write error")
	ErrClosed         = errors.New("transport: closed")
	ErrFrameTooLarge  = errors.New("transport: frame too large")
	ErrSendOnReadOnly = errors.New("transport: send on read-only transport")
)

// MaxFrameSize bounds a single stream frame payload.
const MaxFrameSize = 65535

// MaxDatagramSize bounds a single datagram payload.
const MaxDatagramSize = 65536

// Transport is the capability every concrete variant implements: send
// one payload, receive at most one payload before a deadline, and
// close idempotently.
type Transport interface {
	// Send transmits one payload. On the stream variant this applies
	// length-prefix framing; on datagram the bytes become the
	// datagram body verbatim. The multicast variant never sends and
	// returns ErrSendOnReadOnly.
	Send(payload []byte) error

	// Recv waits until deadline for one payload. It returns (nil, nil)
	// on deadline with nothing received.
	Recv(deadline time.Time) ([]byte, error)

	// Close is idempotent. Pending Recv calls terminate with
	// (nil, ErrClosed) or (nil, nil) rather than blocking forever.
	Close() error

	// Connected reports whether the underlying handle looks alive. It
	// may be conservative (a false negative under a race) but must
	// never report true after Close.
	Connected() bool
}
