package wire

import (
	"strconv"
	"strings"
)

func splitFields(line string) []string {
	line = strings.TrimSuffix(line, "\n")
	raw := strings.Split(line, ",")
	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrParseField
	}
	return uint32(v), nil
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, ErrParseField
	}
	return byte(v), nil
}

// EncodeRequestCSV renders a Request as one LF-terminated CSV line.
func EncodeRequestCSV(r Request) []byte {
	var b strings.Builder
	switch r.Kind {
	case KindNewOrder:
		b.WriteString("N,")
		b.WriteString(strconv.FormatUint(uint64(r.User), 10))
		b.WriteByte(',')
		b.WriteString(r.Symbol)
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(r.Price), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(r.Qty), 10))
		b.WriteByte(',')
		b.WriteByte(byte(r.Side))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(r.OrderID), 10))
	case KindCancel:
		b.WriteString("C,")
		b.WriteString(strconv.FormatUint(uint64(r.User), 10))
		b.WriteByte(',')
		b.WriteString(r.Symbol)
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(r.OrderID), 10))
	case KindFlush:
		b.WriteString("F")
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// DecodeRequestCSV parses one CSV request line (trailing \n optional).
func DecodeRequestCSV(line string) (Request, error) {
	fields := splitFields(line)
	if len(fields) == 0 || fields[0] == "" {
		return Request{}, ErrParseField
	}
	switch fields[0] {
	case "N":
		if len(fields) != 7 {
			return Request{}, ErrParseField
		}
		user, err := parseUint32(fields[1])
		if err != nil {
			return Request{}, err
		}
		price, err := parseUint32(fields[3])
		if err != nil {
			return Request{}, err
		}
		qty, err := parseUint32(fields[4])
		if err != nil {
			return Request{}, err
		}
		if len(fields[5]) != 1 {
			return Request{}, ErrUnknownSide
		}
		side, err := ParseSide(fields[5][0])
		if err != nil {
			return Request{}, err
		}
		orderID, err := parseUint32(fields[6])
		if err != nil {
			return Request{}, err
		}
		return NewOrderRequest(user, fields[2], price, qty, side, orderID), nil
	case "C":
		if len(fields) != 4 {
			return Request{}, ErrParseField
		}
		user, err := parseUint32(fields[1])
		if err != nil {
			return Request{}, err
		}
		orderID, err := parseUint32(fields[3])
		if err != nil {
			return Request{}, err
		}
		return CancelRequest(user, fields[2], orderID), nil
	case "F":
		return FlushRequest(), nil
	default:
		return Request{}, ErrUnknownType
	}
}

// EncodeEventCSV renders an Event as one LF-terminated CSV line.
func EncodeEventCSV(e Event) []byte {
	var b strings.Builder
	switch e.Kind {
	case KindAck, KindCancelAck:
		if e.Kind == KindAck {
			b.WriteString("A,")
		} else {
			b.WriteString("X,")
		}
		b.WriteString(e.Symbol)
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.User), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.OrderID), 10))
	case KindReject, KindCancelReject:
		if e.Kind == KindReject {
			b.WriteString("R,")
		} else {
			b.WriteString("Z,")
		}
		b.WriteString(e.Symbol)
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.User), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.OrderID), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.Reason), 10))
	case KindTrade:
		b.WriteString("T,")
		b.WriteString(e.Symbol)
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.BuyUser), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.BuyOrder), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.SellUser), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.SellOrder), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.Price), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.Qty), 10))
	case KindTopOfBook:
		b.WriteString("B,")
		b.WriteString(e.Symbol)
		b.WriteByte(',')
		b.WriteByte(byte(e.Side))
		b.WriteByte(',')
		if e.Eliminated {
			b.WriteString("0,0")
		} else {
			b.WriteString(strconv.FormatUint(uint64(e.Price), 10))
			b.WriteByte(',')
			b.WriteString(strconv.FormatUint(uint64(e.Qty), 10))
		}
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// DecodeEventCSV parses one CSV event line (trailing \n optional).
func DecodeEventCSV(line string) (Event, error) {
	fields := splitFields(line)
	if len(fields) == 0 || fields[0] == "" {
		return Event{}, ErrParseField
	}
	switch fields[0] {
	case "A", "X":
		if len(fields) != 4 {
			return Event{}, ErrParseField
		}
		user, err := parseUint32(fields[2])
		if err != nil {
			return Event{}, err
		}
		orderID, err := parseUint32(fields[3])
		if err != nil {
			return Event{}, err
		}
		kind := KindAck
		if fields[0] == "X" {
			kind = KindCancelAck
		}
		return Event{Kind: kind, Symbol: fields[1], User: user, OrderID: orderID}, nil
	case "R", "Z":
		if len(fields) != 5 {
			return Event{}, ErrParseField
		}
		user, err := parseUint32(fields[2])
		if err != nil {
			return Event{}, err
		}
		orderID, err := parseUint32(fields[3])
		if err != nil {
			return Event{}, err
		}
		reason, err := parseByte(fields[4])
		if err != nil {
			return Event{}, err
		}
		kind := KindReject
		if fields[0] == "Z" {
			kind = KindCancelReject
		}
		return Event{Kind: kind, Symbol: fields[1], User: user, OrderID: orderID, Reason: reason}, nil
	case "T":
		if len(fields) != 8 {
			return Event{}, ErrParseField
		}
		buyUser, err := parseUint32(fields[2])
		if err != nil {
			return Event{}, err
		}
		buyOrder, err := parseUint32(fields[3])
		if err != nil {
			return Event{}, err
		}
		sellUser, err := parseUint32(fields[4])
		if err != nil {
			return Event{}, err
		}
		sellOrder, err := parseUint32(fields[5])
		if err != nil {
			return Event{}, err
		}
		price, err := parseUint32(fields[6])
		if err != nil {
			return Event{}, err
		}
		qty, err := parseUint32(fields[7])
		if err != nil {
			return Event{}, err
		}
		return Event{
			Kind:      KindTrade,
			Symbol:    fields[1],
			BuyUser:   buyUser,
			BuyOrder:  buyOrder,
			SellUser:  sellUser,
			SellOrder: sellOrder,
			Price:     price,
			Qty:       qty,
		}, nil
	case "B":
		if len(fields) != 5 {
			return Event{}, ErrParseField
		}
		if len(fields[2]) != 1 {
			return Event{}, ErrUnknownSide
		}
		side, err := ParseSide(fields[2][0])
		if err != nil {
			return Event{}, err
		}
		if fields[3] == "-" || fields[4] == "-" {
			return Event{Kind: KindTopOfBook, Symbol: fields[1], Side: side, Eliminated: true}, nil
		}
		price, err := parseUint32(fields[3])
		if err != nil {
			return Event{}, err
		}
		qty, err := parseUint32(fields[4])
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindTopOfBook, Symbol: fields[1], Side: side, Price: price, Qty: qty, Eliminated: price == 0 && qty == 0}, nil
	default:
		return Event{}, ErrUnknownType
	}
}
