package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"tradewire/wire"
)

func TestSerializeAckEvent(t *testing.T) {
	buf := serializeEvent(wire.Event{Kind: wire.KindAck, Symbol: "IBM", User: 7, OrderID: 42})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf, &decoded))
	require.Equal(t, "ack", decoded["kind"])
	require.Equal(t, "IBM", decoded["symbol"])
	require.EqualValues(t, 42, decoded["order-id"])
	require.NotContains(t, decoded, "buy-user")
}

func TestSerializeTradeEventIncludesBothSides(t *testing.T) {
	buf := serializeEvent(wire.Event{
		Kind: wire.KindTrade, Symbol: "IBM",
		BuyUser: 1, BuyOrder: 10, SellUser: 2, SellOrder: 20, Price: 100, Qty: 5,
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf, &decoded))
	require.Equal(t, "trade", decoded["kind"])
	require.EqualValues(t, 1, decoded["buy-user"])
	require.EqualValues(t, 20, decoded["sell-order"])
	require.EqualValues(t, 5, decoded["qty"])
}

func TestSerializeTopOfBookIncludesSideAndEliminated(t *testing.T) {
	buf := serializeEvent(wire.Event{
		Kind: wire.KindTopOfBook, Symbol: "IBM", Side: wire.Buy, Price: 101, Qty: 3, Eliminated: true,
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf, &decoded))
	require.Equal(t, "top-of-book", decoded["kind"])
	require.Equal(t, "buy", decoded["side"])
	require.Equal(t, true, decoded["eliminated"])
}

func TestParseFilterNamesDefaultsWhenEmpty(t *testing.T) {
	filter, err := ParseFilterNames(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultFilter(), filter)
}

func TestParseFilterNamesRejectsUnknownKind(t *testing.T) {
	_, err := ParseFilterNames([]string{"trade", "bogus"})
	require.Error(t, err)
}

func TestParseFilterNamesSelectsOnlyNamed(t *testing.T) {
	filter, err := ParseFilterNames([]string{"trade", "ack"})
	require.NoError(t, err)
	require.True(t, filter[wire.KindTrade])
	require.True(t, filter[wire.KindAck])
	require.False(t, filter[wire.KindReject])
}
