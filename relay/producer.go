package relay

import (
	"errors"
	"fmt"
	"time"

	"tradewire/client"
	"tradewire/transport"
	"tradewire/wire"
)

// pollDeadline is how long the producer waits on each Recv before
// checking the stop flag and looping again.
const pollDeadline = 200 * time.Millisecond

// readErrorBackoff is the spec.md §7 retry pause after a transient
// transport read error.
const readErrorBackoff = 100 * time.Millisecond

// DefaultFilter is the event-kind set the relay forwards when the
// caller supplies none (spec.md §4.5, "Producer side").
func DefaultFilter() map[wire.EventKind]bool {
	return map[wire.EventKind]bool{
		wire.KindAck:          true,
		wire.KindReject:       true,
		wire.KindCancelAck:    true,
		wire.KindCancelReject: true,
		wire.KindTrade:        true,
		wire.KindTopOfBook:    true,
	}
}

// ParseFilterNames turns the kebab-case kind names accepted on the
// config layer's -filter flag into a filter set. An empty or nil
// names slice yields DefaultFilter.
func ParseFilterNames(names []string) (map[wire.EventKind]bool, error) {
	if len(names) == 0 {
		return DefaultFilter(), nil
	}
	out := make(map[wire.EventKind]bool, len(names))
	for _, name := range names {
		switch name {
		case "ack":
			out[wire.KindAck] = true
		case "cancel-ack":
			out[wire.KindCancelAck] = true
		case "reject":
			out[wire.KindReject] = true
		case "cancel-reject":
			out[wire.KindCancelReject] = true
		case "trade":
			out[wire.KindTrade] = true
		case "top-of-book":
			out[wire.KindTopOfBook] = true
		default:
			return nil, fmt.Errorf("relay: unknown filter kind %q", name)
		}
	}
	return out, nil
}

// Producer is the single reader goroutine that owns the engine session
// and drives the fan-out. It never shares session with anyone else:
// spec.md §5 makes session ownership single-threaded by construction.
type Producer struct {
	session *client.Session
	filter  map[wire.EventKind]bool
	metrics *Metrics
	logger  Logger

	onEvent func(wire.Event)

	stop chan struct{}
	done chan struct{}
}

// Logger is the minimal sink the producer logs connect/disconnect and
// transient-error lines to.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NewProducer wraps session. filter may be nil for DefaultFilter.
// onEvent is invoked, on the producer's own goroutine, for every event
// that survives the filter; the caller (Server) is expected to
// serialize and broadcast it without blocking this goroutine for long.
func NewProducer(session *client.Session, filter map[wire.EventKind]bool, metrics *Metrics, logger Logger, onEvent func(wire.Event)) *Producer {
	if filter == nil {
		filter = DefaultFilter()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Producer{
		session: session,
		filter:  filter,
		metrics: metrics,
		logger:  logger,
		onEvent: onEvent,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run drains the engine session until Stop is called or the transport
// closes terminally. It tolerates transient read errors by retrying
// after a short backoff; a closed transport ends the task.
func (p *Producer) Run() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		result, err := p.session.Recv(time.Now().Add(pollDeadline))
		if err != nil {
			if errors.Is(err, transport.ErrClosed) {
				p.logger.Infof("producer: engine transport closed, stopping")
				return
			}
			p.logger.Warnf("producer: transient read error: %v", err)
			time.Sleep(readErrorBackoff)
			continue
		}
		if result == nil {
			continue // deadline passed, nothing received
		}
		if result.ParseError != nil {
			if p.metrics != nil {
				p.metrics.parseErrors.Inc()
			}
			continue
		}
		if !p.filter[result.Event.Kind] {
			continue
		}
		if p.metrics != nil {
			p.metrics.eventsBroadcast.Inc()
		}
		p.onEvent(result.Event)
	}
}

// Stop signals Run to return and blocks until it has.
func (p *Producer) Stop() {
	close(p.stop)
	<-p.done
}
