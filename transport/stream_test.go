package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func loopbackPair(t *testing.T) (*StreamTransport, *StreamTransport) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverCh := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		require.NoError(t, err)
		serverCh <- conn
	}()

	client, err := DialStream(ln.Addr().String(), time.Second)
	require.NoError(t, err)
	server := NewStreamTransport(<-serverCh)
	return client, server
}

func TestStreamFrameBoundaries(t *testing.T) {
	client, server := loopbackPair(t)
	defer client.Close()
	defer server.Close()

	payloads := [][]byte{
		[]byte("first"),
		[]byte("second-payload"),
		[]byte("3"),
	}
	for _, p := range payloads {
		require.NoError(t, client.Send(p))
	}

	for _, want := range payloads {
		got, err := server.Recv(time.Now().Add(2 * time.Second))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestStreamRecvDeadlineReturnsNil(t *testing.T) {
	_, server := loopbackPair(t)
	defer server.Close()

	got, err := server.Recv(time.Now().Add(50 * time.Millisecond))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStreamRejectsEmptyPayload(t *testing.T) {
	client, server := loopbackPair(t)
	defer client.Close()
	defer server.Close()

	err := client.Send(nil)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestStreamRejectsOversizePayload(t *testing.T) {
	client, server := loopbackPair(t)
	defer client.Close()
	defer server.Close()

	err := client.Send(make([]byte, MaxFrameSize+1))
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	client, server := loopbackPair(t)
	defer server.Close()

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	require.False(t, client.Connected())
}
