package wire

import "encoding/binary"

// padByte is the single pad byte this build emits when writing a
// Symbol field. Decode accepts both 0x00 and 0x20 regardless.
const padByte byte = 0x00

func putSymbol(dst []byte, symbol string) {
	for i := range dst {
		dst[i] = padByte
	}
	copy(dst, symbol)
}

func getSymbol(src []byte) string {
	end := len(src)
	for end > 0 && (src[end-1] == 0x00 || src[end-1] == 0x20) {
		end--
	}
	return string(src[:end])
}

// EncodeRequestBinary renders a Request in the compact binary form.
func EncodeRequestBinary(r Request) []byte {
	switch r.Kind {
	case KindNewOrder:
		buf := make([]byte, 27)
		buf[0], buf[1] = magic, tagNewOrder
		binary.BigEndian.PutUint32(buf[2:6], r.User)
		putSymbol(buf[6:14], r.Symbol)
		binary.BigEndian.PutUint32(buf[14:18], r.Price)
		binary.BigEndian.PutUint32(buf[18:22], r.Qty)
		buf[22] = byte(r.Side)
		binary.BigEndian.PutUint32(buf[23:27], r.OrderID)
		return buf
	case KindCancel:
		buf := make([]byte, 18)
		buf[0], buf[1] = magic, tagCancel
		binary.BigEndian.PutUint32(buf[2:6], r.User)
		putSymbol(buf[6:14], r.Symbol)
		binary.BigEndian.PutUint32(buf[14:18], r.OrderID)
		return buf
	case KindFlush:
		return []byte{magic, tagFlush}
	default:
		panic("wire: unknown request kind")
	}
}

// DecodeRequestBinary parses the binary form of a Request. It exists so
// tests can assert the round-trip property; the production send path
// only ever encodes requests.
func DecodeRequestBinary(b []byte) (Request, error) {
	if len(b) < 2 {
		return Request{}, ErrTruncated
	}
	if b[0] != magic {
		return Request{}, ErrBadMagic
	}
	switch b[1] {
	case tagNewOrder:
		if len(b) < 27 {
			return Request{}, ErrTruncated
		}
		side, err := ParseSide(b[22])
		if err != nil {
			return Request{}, err
		}
		return Request{
			Kind:    KindNewOrder,
			User:    binary.BigEndian.Uint32(b[2:6]),
			Symbol:  getSymbol(b[6:14]),
			Price:   binary.BigEndian.Uint32(b[14:18]),
			Qty:     binary.BigEndian.Uint32(b[18:22]),
			Side:    side,
			OrderID: binary.BigEndian.Uint32(b[23:27]),
		}, nil
	case tagCancel:
		if len(b) < 18 {
			return Request{}, ErrTruncated
		}
		return Request{
			Kind:    KindCancel,
			User:    binary.BigEndian.Uint32(b[2:6]),
			Symbol:  getSymbol(b[6:14]),
			OrderID: binary.BigEndian.Uint32(b[14:18]),
		}, nil
	case tagFlush:
		return Request{Kind: KindFlush}, nil
	default:
		return Request{}, ErrUnknownType
	}
}

// EncodeEventBinary renders an Event in the compact binary form. Used
// by tests (build_wire_bytes) and by stub peers in the test suite.
func EncodeEventBinary(e Event) []byte {
	switch e.Kind {
	case KindAck:
		return encodeAckLike(tagAck, e)
	case KindCancelAck:
		return encodeAckLike(tagCancelAck, e)
	case KindReject:
		return encodeRejectLike(tagReject, e)
	case KindCancelReject:
		return encodeRejectLike(tagCancelReject, e)
	case KindTrade:
		buf := make([]byte, 34)
		buf[0], buf[1] = magic, tagTrade
		putSymbol(buf[2:10], e.Symbol)
		binary.BigEndian.PutUint32(buf[10:14], e.BuyUser)
		binary.BigEndian.PutUint32(buf[14:18], e.BuyOrder)
		binary.BigEndian.PutUint32(buf[18:22], e.SellUser)
		binary.BigEndian.PutUint32(buf[22:26], e.SellOrder)
		binary.BigEndian.PutUint32(buf[26:30], e.Price)
		binary.BigEndian.PutUint32(buf[30:34], e.Qty)
		return buf
	case KindTopOfBook:
		buf := make([]byte, 20)
		buf[0], buf[1] = magic, tagTopOfBook
		putSymbol(buf[2:10], e.Symbol)
		buf[10] = byte(e.Side)
		binary.BigEndian.PutUint32(buf[11:15], e.Price)
		binary.BigEndian.PutUint32(buf[15:19], e.Qty)
		buf[19] = 0x00 // pad, unvalidated on decode
		return buf
	default:
		panic("wire: unknown event kind")
	}
}

func encodeAckLike(tag byte, e Event) []byte {
	buf := make([]byte, 18)
	buf[0], buf[1] = magic, tag
	putSymbol(buf[2:10], e.Symbol)
	binary.BigEndian.PutUint32(buf[10:14], e.User)
	binary.BigEndian.PutUint32(buf[14:18], e.OrderID)
	return buf
}

func encodeRejectLike(tag byte, e Event) []byte {
	buf := make([]byte, 19)
	buf[0], buf[1] = magic, tag
	putSymbol(buf[2:10], e.Symbol)
	binary.BigEndian.PutUint32(buf[10:14], e.User)
	binary.BigEndian.PutUint32(buf[14:18], e.OrderID)
	buf[18] = e.Reason
	return buf
}

// DecodeEventBinary parses the binary form of an Event.
func DecodeEventBinary(b []byte) (Event, error) {
	if len(b) < 2 {
		return Event{}, ErrTruncated
	}
	if b[0] != magic {
		return Event{}, ErrBadMagic
	}
	switch b[1] {
	case tagAck, tagCancelAck:
		if len(b) < 18 {
			return Event{}, ErrTruncated
		}
		kind := KindAck
		if b[1] == tagCancelAck {
			kind = KindCancelAck
		}
		return Event{
			Kind:    kind,
			Symbol:  getSymbol(b[2:10]),
			User:    binary.BigEndian.Uint32(b[10:14]),
			OrderID: binary.BigEndian.Uint32(b[14:18]),
		}, nil
	case tagReject, tagCancelReject:
		if len(b) < 19 {
			return Event{}, ErrTruncated
		}
		kind := KindReject
		if b[1] == tagCancelReject {
			kind = KindCancelReject
		}
		return Event{
			Kind:    kind,
			Symbol:  getSymbol(b[2:10]),
			User:    binary.BigEndian.Uint32(b[10:14]),
			OrderID: binary.BigEndian.Uint32(b[14:18]),
			Reason:  b[18],
		}, nil
	case tagTrade:
		if len(b) < 34 {
			return Event{}, ErrTruncated
		}
		return Event{
			Kind:      KindTrade,
			Symbol:    getSymbol(b[2:10]),
			BuyUser:   binary.BigEndian.Uint32(b[10:14]),
			BuyOrder:  binary.BigEndian.Uint32(b[14:18]),
			SellUser:  binary.BigEndian.Uint32(b[18:22]),
			SellOrder: binary.BigEndian.Uint32(b[22:26]),
			Price:     binary.BigEndian.Uint32(b[26:30]),
			Qty:       binary.BigEndian.Uint32(b[30:34]),
		}, nil
	case tagTopOfBook:
		if len(b) < 20 {
			return Event{}, ErrTruncated
		}
		side, err := ParseSide(b[10])
		if err != nil {
			return Event{}, err
		}
		price := binary.BigEndian.Uint32(b[11:15])
		qty := binary.BigEndian.Uint32(b[15:19])
		// b[19] is the trailing pad byte: consumed, not validated.
		return Event{
			Kind:       KindTopOfBook,
			Symbol:     getSymbol(b[2:10]),
			Side:       side,
			Price:      price,
			Qty:        qty,
			Eliminated: price == 0 && qty == 0,
		}, nil
	default:
		return Event{}, ErrUnknownType
	}
}
