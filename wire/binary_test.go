package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeNewOrderBinary(t *testing.T) {
	r := NewOrderRequest(1, "IBM", 10050, 50, Buy, 7)
	buf := EncodeRequestBinary(r)
	require.Len(t, buf, 27)
	require.Equal(t, byte('M'), buf[0])
	require.Equal(t, byte('N'), buf[1])

	decoded, err := DecodeRequestBinary(buf)
	require.NoError(t, err)
	require.Equal(t, r, decoded)
}

func TestSymbolPaddingBothAccepted(t *testing.T) {
	buf := EncodeRequestBinary(NewOrderRequest(1, "IBM", 1, 1, Buy, 1))
	require.Equal(t, byte(0x00), buf[13]) // last symbol byte, default pad

	spacePadded := append([]byte(nil), buf...)
	for i := 13; i >= 6 && spacePadded[i] == 0x00; i-- {
		spacePadded[i] = 0x20
	}
	decoded, err := DecodeRequestBinary(spacePadded)
	require.NoError(t, err)
	require.Equal(t, "IBM", decoded.Symbol)
}

func TestDecodeTopOfBook(t *testing.T) {
	buf := []byte{0x4D, 0x42, 0x49, 0x42, 0x4D, 0x00, 0x00, 0x00, 0x00, 0x00, 0x53, 0x00, 0x00, 0x27, 0x10, 0x00, 0x00, 0x00, 0x64, 0x00}
	require.Len(t, buf, 20)
	e, err := DecodeEventBinary(buf)
	require.NoError(t, err)
	require.Equal(t, KindTopOfBook, e.Kind)
	require.Equal(t, "IBM", e.Symbol)
	require.Equal(t, Sell, e.Side)
	require.Equal(t, uint32(10000), e.Price)
	require.Equal(t, uint32(100), e.Qty)
	require.False(t, e.Eliminated)
}

func TestRequestRoundTripAllVariants(t *testing.T) {
	cases := []Request{
		NewOrderRequest(1, "GOOG", 2500, 10, Buy, 42),
		CancelRequest(2, "GOOG", 42),
		FlushRequest(),
	}
	for _, want := range cases {
		buf := EncodeRequestBinary(want)
		got, err := DecodeRequestBinary(buf)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestEventRoundTripAllVariants(t *testing.T) {
	cases := []Event{
		{Kind: KindAck, Symbol: "IBM", User: 1, OrderID: 7},
		{Kind: KindCancelAck, Symbol: "IBM", User: 1, OrderID: 7},
		{Kind: KindReject, Symbol: "IBM", User: 1, OrderID: 7, Reason: 3},
		{Kind: KindCancelReject, Symbol: "IBM", User: 1, OrderID: 7, Reason: 4},
		{Kind: KindTrade, Symbol: "GOOG", BuyUser: 1, BuyOrder: 11, SellUser: 2, SellOrder: 22, Price: 2500, Qty: 10},
		{Kind: KindTopOfBook, Symbol: "IBM", Side: Sell, Price: 10000, Qty: 100},
		{Kind: KindTopOfBook, Symbol: "IBM", Side: Buy, Price: 0, Qty: 0, Eliminated: true},
	}
	for _, want := range cases {
		buf := EncodeEventBinary(want)
		got, err := DecodeEventBinary(buf)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := DecodeEventBinary([]byte{0x4D, 0x99, 0, 0})
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := DecodeEventBinary([]byte{0x4D, 'A', 0, 0})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := DecodeEventBinary([]byte{0x00, 'A'})
	require.ErrorIs(t, err, ErrBadMagic)
}
