package transport

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"
)

// StreamTransport is a connection-oriented, length-prefixed transport
// over TCP. Every payload is preceded on the wire by a 4-byte
// big-endian length; NoDelay is enabled because orders are
// latency-sensitive.
type StreamTransport struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// DialStream connects to addr within connectTimeout and returns a
// ready-to-use stream transport.
func DialStream(addr string, connectTimeout time.Duration) (*StreamTransport, error) {
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, ErrConnectTimeout
		}
		return nil, ErrConnectRefused
	}
	return NewStreamTransport(conn), nil
}

// NewStreamTransport wraps an already-connected TCP conn, e.g. one
// accepted by a listener.
func NewStreamTransport(conn net.Conn) *StreamTransport {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &StreamTransport{conn: conn}
}

func (t *StreamTransport) Send(payload []byte) error {
	if len(payload) < 1 || len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.mu.Unlock()

	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	if _, err := t.conn.Write(frame); err != nil {
		return ErrWriteError
	}
	return nil
}

func (t *StreamTransport) Recv(deadline time.Time) ([]byte, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}
	t.mu.Unlock()

	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, ErrReadError
	}

	var header [4]byte
	if _, err := io.ReadFull(t.conn, header[:]); err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		if t.isClosed() {
			return nil, ErrClosed
		}
		return nil, ErrReadError
	}

	length := binary.BigEndian.Uint32(header[:])
	if length < 1 || length > MaxFrameSize {
		_ = t.Close()
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(t.conn, payload); err != nil {
		if isTimeout(err) {
			// A payload split across the deadline boundary is a read
			// error, not a clean "nothing arrived" timeout: the frame
			// is already committed on the wire.
			return nil, ErrReadError
		}
		return nil, ErrReadError
	}
	return payload, nil
}

func (t *StreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

func (t *StreamTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

func (t *StreamTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
