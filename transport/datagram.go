package transport

import (
	"net"
	"sync"
	"time"
)

// DatagramTransport is a connectionless bidirectional UDP transport.
// Each Send emits exactly one datagram with no length prefix; each
// Recv returns at most one datagram's payload. Loss is tolerated at
// this layer.
type DatagramTransport struct {
	conn *net.UDPConn

	mu     sync.Mutex
	closed bool
}

// DialDatagram opens a UDP socket connected to addr.
func DialDatagram(addr string) (*DatagramTransport, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, ErrConnectRefused
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, ErrConnectRefused
	}
	return &DatagramTransport{conn: conn}, nil
}

// ListenDatagram opens a UDP socket bound to addr, for a peer acting
// as a server.
func ListenDatagram(addr string) (*DatagramTransport, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, ErrConnectRefused
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, ErrConnectRefused
	}
	return &DatagramTransport{conn: conn}, nil
}

func (t *DatagramTransport) Send(payload []byte) error {
	if len(payload) > MaxDatagramSize {
		return ErrFrameTooLarge
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.mu.Unlock()

	if _, err := t.conn.Write(payload); err != nil {
		return ErrWriteError
	}
	return nil
}

func (t *DatagramTransport) Recv(deadline time.Time) ([]byte, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}
	t.mu.Unlock()

	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, ErrReadError
	}

	buf := make([]byte, MaxDatagramSize)
	n, err := t.conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		if t.isClosed() {
			return nil, ErrClosed
		}
		return nil, ErrReadError
	}
	return buf[:n], nil
}

func (t *DatagramTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

func (t *DatagramTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

func (t *DatagramTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
