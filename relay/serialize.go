package relay

import (
	"encoding/json"

	"tradewire/wire"
)

// wireEvent is the text-object form the relay broadcasts to
// subscribers (spec.md §4.5, "serialize to a text-object form"). Field
// names are kebab-case to match the browser-side position-manager UI
// this repo treats as an external collaborator.
type wireEvent struct {
	Kind string `json:"kind"`

	Symbol  string `json:"symbol,omitempty"`
	User    uint32 `json:"user,omitempty"`
	OrderID uint32 `json:"order-id,omitempty"`
	Reason  string `json:"reason,omitempty"`

	BuyUser   uint32 `json:"buy-user,omitempty"`
	BuyOrder  uint32 `json:"buy-order,omitempty"`
	SellUser  uint32 `json:"sell-user,omitempty"`
	SellOrder uint32 `json:"sell-order,omitempty"`
	Price     uint32 `json:"price,omitempty"`
	Qty       uint32 `json:"qty,omitempty"`

	Side       string `json:"side,omitempty"`
	Eliminated bool   `json:"eliminated,omitempty"`
}

func eventKindName(k wire.EventKind) string {
	switch k {
	case wire.KindAck:
		return "ack"
	case wire.KindCancelAck:
		return "cancel-ack"
	case wire.KindReject:
		return "reject"
	case wire.KindCancelReject:
		return "cancel-reject"
	case wire.KindTrade:
		return "trade"
	case wire.KindTopOfBook:
		return "top-of-book"
	default:
		return "unknown"
	}
}

// serializeEvent renders e as the JSON text object the relay
// broadcasts. It never fails: json.Marshal on this fixed shape cannot
// error.
func serializeEvent(e wire.Event) []byte {
	out := wireEvent{
		Kind:    eventKindName(e.Kind),
		Symbol:  e.Symbol,
		User:    e.User,
		OrderID: e.OrderID,
	}
	switch e.Kind {
	case wire.KindReject, wire.KindCancelReject:
		out.Reason = string(rune(e.Reason))
	case wire.KindTrade:
		out.BuyUser = e.BuyUser
		out.BuyOrder = e.BuyOrder
		out.SellUser = e.SellUser
		out.SellOrder = e.SellOrder
		out.Price = e.Price
		out.Qty = e.Qty
	case wire.KindTopOfBook:
		out.Side = e.Side.String()
		out.Price = e.Price
		out.Qty = e.Qty
		out.Eliminated = e.Eliminated
	}
	buf, _ := json.Marshal(out)
	return buf
}
