package transport

import (
	"net"
	"sync"
	"time"
)

// MulticastTransport joins a multicast group and receives datagrams
// from it. Sending is forbidden: reconciling who may publish to a
// multicast group is a higher-layer concern this transport does not
// take on.
type MulticastTransport struct {
	conn *net.UDPConn

	mu     sync.Mutex
	closed bool
}

// JoinMulticast joins the multicast group at addr (host:port), on the
// named interface if iface is non-empty.
func JoinMulticast(addr, iface string) (*MulticastTransport, error) {
	gaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, ErrConnectRefused
	}

	var ifi *net.Interface
	if iface != "" {
		ifi, err = net.InterfaceByName(iface)
		if err != nil {
			return nil, ErrConnectRefused
		}
	}

	conn, err := net.ListenMulticastUDP("udp", ifi, gaddr)
	if err != nil {
		return nil, ErrConnectRefused
	}
	return &MulticastTransport{conn: conn}, nil
}

func (t *MulticastTransport) Send([]byte) error {
	return ErrSendOnReadOnly
}

func (t *MulticastTransport) Recv(deadline time.Time) ([]byte, error) {
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
	n, _, err := t.conn.ReadFromUDP(buf)
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

func (t *MulticastTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

func (t *MulticastTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

func (t *MulticastTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
