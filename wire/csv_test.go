package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVTradeDecode(t *testing.T) {
	e, err := DecodeEventCSV("T,GOOG,1,11,2,22,2500,10\n")
	require.NoError(t, err)
	require.Equal(t, Event{Kind: KindTrade, Symbol: "GOOG", BuyUser: 1, BuyOrder: 11, SellUser: 2, SellOrder: 22, Price: 2500, Qty: 10}, e)
}

func TestCSVEliminatedTOBDashForm(t *testing.T) {
	e, err := DecodeEventCSV("B,IBM,B,-,-\n")
	require.NoError(t, err)
	require.True(t, e.Eliminated)
	require.Equal(t, uint32(0), e.Price)
	require.Equal(t, uint32(0), e.Qty)
}

func TestCSVEliminatedTOBZeroForm(t *testing.T) {
	e, err := DecodeEventCSV("B,IBM,B,0,0\n")
	require.NoError(t, err)
	require.True(t, e.Eliminated)
}

func TestCSVEncodeEliminatedAlwaysZeroForm(t *testing.T) {
	buf := EncodeEventCSV(Event{Kind: KindTopOfBook, Symbol: "IBM", Side: Buy, Eliminated: true})
	require.Equal(t, "B,IBM,B,0,0\n", string(buf))
}

func TestCSVRoundTripRequests(t *testing.T) {
	cases := []Request{
		NewOrderRequest(1, "IBM", 10050, 50, Buy, 7),
		CancelRequest(2, "IBM", 7),
		FlushRequest(),
	}
	for _, want := range cases {
		got, err := DecodeRequestCSV(string(EncodeRequestCSV(want)))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCSVWhitespaceTolerated(t *testing.T) {
	e, err := DecodeEventCSV("A, IBM , 1 , 7 \n")
	require.NoError(t, err)
	require.Equal(t, "IBM", e.Symbol)
	require.Equal(t, uint32(1), e.User)
	require.Equal(t, uint32(7), e.OrderID)
}

func TestCSVParseFieldError(t *testing.T) {
	_, err := DecodeEventCSV("A,IBM,not-a-number,7\n")
	require.ErrorIs(t, err, ErrParseField)
}

func TestCSVUnknownType(t *testing.T) {
	_, err := DecodeEventCSV("Q,IBM,1,7\n")
	require.ErrorIs(t, err, ErrUnknownType)
}
