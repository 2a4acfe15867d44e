package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAutoDetectBinaryVsCSV(t *testing.T) {
	binBuf := EncodeEventBinary(Event{Kind: KindAck, Symbol: "IBM", User: 1, OrderID: 7})
	csvBuf := EncodeEventCSV(Event{Kind: KindAck, Symbol: "IBM", User: 1, OrderID: 7})

	require.True(t, IsBinary(binBuf))
	require.False(t, IsBinary(csvBuf))

	e1, err := DecodeEventAuto(binBuf)
	require.NoError(t, err)
	require.Equal(t, KindAck, e1.Kind)

	e2, err := DecodeEventAuto(csvBuf)
	require.NoError(t, err)
	require.Equal(t, KindAck, e2.Kind)
}

func TestAutoDetectEliminatedTOBFromCSV(t *testing.T) {
	e, err := DecodeEventAuto([]byte("B,IBM,B,0,0\n"))
	require.NoError(t, err)
	require.Equal(t, KindTopOfBook, e.Kind)
	require.True(t, e.Eliminated)
}
