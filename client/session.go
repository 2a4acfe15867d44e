// Package client composes a codec (wire) with a transport into a
// bidirectional session that tracks protocol discovery state.
package client

import (
	"sync/atomic"
	"time"

	"tradewire/transport"
	"tradewire/wire"
)

// Protocol is the detected or overridden wire form a peer uses.
type Protocol int32

const (
	Unknown Protocol = iota
	Binary
	CSV
)

func (p Protocol) String() string {
	switch p {
	case Binary:
		return "binary"
	case CSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Session composes a transport with the wire codec and a small
// protocol-discovery state machine. detected is accessed with atomics
// because a caller may read it from a different goroutine than the one
// driving Send/Recv, while the driver thread owns every other field.
type Session struct {
	transport transport.Transport
	detected  int32 // Protocol, atomic
}

// NewSession wraps an already-connected transport.
func NewSession(t transport.Transport) *Session {
	return &Session{transport: t}
}

// Protocol returns the current detected/overridden protocol.
func (s *Session) Protocol() Protocol {
	return Protocol(atomic.LoadInt32(&s.detected))
}

// SetProtocol overrides detection. This is the only transition out of
// Unknown besides Detect, and it may overwrite an already-detected
// value (spec.md §4.3, transition rule 6).
func (s *Session) SetProtocol(p Protocol) {
	atomic.StoreInt32(&s.detected, int32(p))
}

// probe constants from spec.md §4.3.
const (
	probeUser        = 999999
	probeOrderIDBin  = 999999
	probeOrderIDCSV  = 1000000
	probeSymbol      = "PROBE"
	probeWait        = 500 * time.Millisecond
	probeDrainBinary = 100 * time.Millisecond
)

// Detect runs the protocol discovery probe sequence described in
// spec.md §4.3 and returns the protocol it settled on. It only ever
// transitions Unknown -> a concrete value.
func (s *Session) Detect() (Protocol, error) {
	// Step 1-2: binary probe.
	probe := wire.NewOrderRequest(probeUser, probeSymbol, 1, 1, wire.Buy, probeOrderIDBin)
	if err := s.transport.Send(wire.EncodeRequestBinary(probe)); err != nil {
		return s.Protocol(), err
	}

	payload, err := s.transport.Recv(time.Now().Add(probeWait))
	if err != nil {
		return s.Protocol(), err
	}

	if payload != nil {
		if wire.IsBinary(payload) {
			s.SetProtocol(Binary)
			cancel := wire.CancelRequest(probeUser, probeSymbol, probeOrderIDBin)
			_ = s.transport.Send(wire.EncodeRequestBinary(cancel))
			s.drainBriefly(probeDrainBinary)
			return Binary, nil
		}
		s.SetProtocol(CSV)
		s.drainBriefly(probeDrainBinary)
		return CSV, nil
	}

	// Step 5: no response, fall back to a CSV probe.
	csvProbe := wire.NewOrderRequest(probeUser, probeSymbol, 1, 1, wire.Buy, probeOrderIDCSV)
	if err := s.transport.Send(wire.EncodeRequestCSV(csvProbe)); err != nil {
		return s.Protocol(), err
	}
	payload, err = s.transport.Recv(time.Now().Add(probeWait))
	if err != nil {
		return s.Protocol(), err
	}
	if payload != nil {
		if wire.IsBinary(payload) {
			s.SetProtocol(Binary)
			return Binary, nil
		}
		s.SetProtocol(CSV)
		return CSV, nil
	}

	// No response at all: default to Binary.
	s.SetProtocol(Binary)
	return Binary, nil
}

func (s *Session) drainBriefly(budget time.Duration) {
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		if _, err := s.transport.Recv(deadline); err != nil {
			return
		}
	}
}

// SendRequest encodes req in the session's current form (Binary if
// still Unknown) and hands it to the transport.
func (s *Session) SendRequest(req wire.Request) error {
	var payload []byte
	if s.Protocol() == CSV {
		payload = wire.EncodeRequestCSV(req)
	} else {
		payload = wire.EncodeRequestBinary(req)
	}
	return s.transport.Send(payload)
}

// Result is one outcome of Recv/Drain: either a decoded Event or a
// ParseError, never both.
type Result struct {
	Event      wire.Event
	ParseError *wire.ParseError
}

// Recv waits for one payload and decodes it. A decode failure is
// returned as a *wire.ParseError inside Result, not a session-ending
// error. A nil Result with a nil error means the deadline passed with
// nothing received.
func (s *Session) Recv(deadline time.Time) (*Result, error) {
	payload, err := s.transport.Recv(deadline)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	kind := byte(0)
	if len(payload) > 0 {
		kind = payload[0]
	}
	event, decErr := wire.DecodeEventAuto(payload)
	if decErr != nil {
		return &Result{ParseError: &wire.ParseError{Kind: kind, Raw: payload, Err: decErr}}, nil
	}
	return &Result{Event: event}, nil
}

// DrainOptions controls the low-level drain primitive.
type DrainOptions struct {
	PollDeadline   time.Duration
	MaxEmptyPolls  int
	BudgetDeadline time.Time
}

// DefaultDrainOptions matches spec.md §4.3's "100 polls x 100ms = 10s
// upper bound" default.
func DefaultDrainOptions(budget time.Duration) DrainOptions {
	return DrainOptions{
		PollDeadline:  100 * time.Millisecond,
		MaxEmptyPolls: 100,
		BudgetDeadline: time.Now().Add(budget),
	}
}

// Drain repeatedly calls Recv with a short poll deadline until either
// the budget deadline passes or MaxEmptyPolls consecutive empty polls
// occur.
func (s *Session) Drain(opts DrainOptions) []Result {
	var results []Result
	emptyPolls := 0
	for time.Now().Before(opts.BudgetDeadline) {
		if opts.MaxEmptyPolls > 0 && emptyPolls >= opts.MaxEmptyPolls {
			break
		}
		pollDeadline := time.Now().Add(opts.PollDeadline)
		if pollDeadline.After(opts.BudgetDeadline) {
			pollDeadline = opts.BudgetDeadline
		}
		result, err := s.Recv(pollDeadline)
		if err != nil {
			break
		}
		if result == nil {
			emptyPolls++
			continue
		}
		emptyPolls = 0
		results = append(results, *result)
	}
	return results
}

// Close releases the underlying transport.
func (s *Session) Close() error {
	return s.transport.Close()
}
