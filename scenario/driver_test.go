package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tradewire/client"
	"tradewire/wire"
)

// stubEngine is an in-memory transport.Transport that behaves like a
// trivial matching engine: every NewOrder gets an Ack; a NewOrder at
// the same price as a still-open resting order on the opposite side
// produces one Trade naming both. Flush clears all resting state. Cancel is ignored
// beyond acking it.
type stubEngine struct {
	outbox  [][]byte
	resting map[string]wire.Request // key: symbol+side
}

func newStubEngine() *stubEngine {
	return &stubEngine{resting: make(map[string]wire.Request)}
}

func (s *stubEngine) Send(payload []byte) error {
	req, err := wire.DecodeRequestAuto(payload)
	if err != nil {
		return nil
	}
	switch req.Kind {
	case wire.KindFlush:
		s.resting = make(map[string]wire.Request)
	case wire.KindCancel:
		s.push(wire.Event{Kind: wire.KindCancelAck, Symbol: req.Symbol, User: req.User, OrderID: req.OrderID})
	case wire.KindNewOrder:
		s.push(wire.Event{Kind: wire.KindAck, Symbol: req.Symbol, User: req.User, OrderID: req.OrderID})
		oppSide := wire.Sell
		if req.Side == wire.Sell {
			oppSide = wire.Buy
		}
		key := req.Symbol + string(oppSide)
		if opp, ok := s.resting[key]; ok && opp.Price == req.Price {
			delete(s.resting, key)
			buyUser, buyOrder, sellUser, sellOrder := req.User, req.OrderID, opp.User, opp.OrderID
			if req.Side == wire.Sell {
				buyUser, buyOrder, sellUser, sellOrder = opp.User, opp.OrderID, req.User, req.OrderID
			}
			s.push(wire.Event{Kind: wire.KindTrade, Symbol: req.Symbol, BuyUser: buyUser, BuyOrder: buyOrder, SellUser: sellUser, SellOrder: sellOrder, Price: req.Price, Qty: req.Qty})
		} else {
			s.resting[req.Symbol+string(req.Side)] = req
		}
	}
	return nil
}

func (s *stubEngine) push(e wire.Event) {
	s.outbox = append(s.outbox, wire.EncodeEventBinary(e))
}

func (s *stubEngine) Recv(time.Time) ([]byte, error) {
	if len(s.outbox) == 0 {
		return nil, nil
	}
	next := s.outbox[0]
	s.outbox = s.outbox[1:]
	return next, nil
}

func (s *stubEngine) Close() error   { return nil }
func (s *stubEngine) Connected() bool { return true }

func TestScenarioMatchingSmokePasses(t *testing.T) {
	engine := newStubEngine()
	session := client.NewSession(engine)
	session.SetProtocol(client.Binary)

	result := Run(session, 2, Options{SettleDelay: time.Millisecond})
	require.True(t, result.Passed, result.Detail)
	require.Equal(t, 2, result.Stats.Acks)
	require.Equal(t, 1, result.Stats.Trades)
	require.Equal(t, 0, result.Stats.Rejects)
}

func TestScenario1KMatchingStressPasses(t *testing.T) {
	engine := newStubEngine()
	session := client.NewSession(engine)
	session.SetProtocol(client.Binary)

	result := Run(session, 20, Options{SettleDelay: time.Millisecond})
	require.True(t, result.Passed, result.Detail)
	require.Equal(t, 2000, result.Stats.Acks)
	require.Equal(t, 1000, result.Stats.Trades)
}

func TestScenarioUnknownIDFails(t *testing.T) {
	engine := newStubEngine()
	session := client.NewSession(engine)
	result := Run(session, 999999, Options{})
	require.False(t, result.Passed)
	require.Contains(t, result.Detail, "known scenarios")
}

func TestScenarioCancelPasses(t *testing.T) {
	engine := newStubEngine()
	session := client.NewSession(engine)
	session.SetProtocol(client.Binary)

	result := Run(session, 3, Options{})
	require.True(t, result.Passed, result.Detail)
	require.Equal(t, 1, result.Stats.Acks)
	require.Equal(t, 1, result.Stats.CancelAcks)
}

func TestPacingTableBuckets(t *testing.T) {
	require.Equal(t, 50, PacingFor(500).PairsPerBatch)
	require.Equal(t, 75, PacingFor(50_000).PairsPerBatch)
	require.Equal(t, 100, PacingFor(500_000).PairsPerBatch)
	require.Equal(t, 100, PacingFor(5_000_000).PairsPerBatch)
	require.Equal(t, 60*time.Second, PacingFor(500).FinalDrainBound)
	require.Equal(t, 30*time.Minute, PacingFor(5_000_000).FinalDrainBound)
}
