// Package scenario drives a client.Session through pre-registered load
// programs and validates the resulting event stream for completeness.
package scenario

import (
	"fmt"
	"time"

	"tradewire/client"
	"tradewire/wire"
)

// Logger is the minimal sink the driver writes progress and verdict
// lines to. cmd/scenario-runner supplies one backed by zap; tests can
// supply a no-op.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// FailReason names why a scenario failed. It is a value, not an error:
// a failed scenario is a normal return, never a panic.
type FailReason string

const (
	ReasonNone         FailReason = ""
	ReasonMissingAcks  FailReason = "missing_acks"
	ReasonMissingTrades FailReason = "missing_trades"
	ReasonRejects      FailReason = "rejects"
	ReasonSendErrors   FailReason = "send_errors"
)

// Result is the outcome of a scenario run.
type Result struct {
	Passed   bool
	Reason   FailReason
	Stats    Stats
	Elapsed  time.Duration
	Detail   string
}

// Options tunes a run. Zero value is usable; Logger defaults to a
// no-op sink.
type Options struct {
	Logger  Logger
	BuyUser  uint32
	SellUser uint32

	// SettleDelay is the pause before the final drain, letting
	// in-flight writes reach the wire (spec.md §4.4.2). Defaults to
	// 3s; tests override it to keep runs fast against an in-memory
	// stub with no real network latency to wait out.
	SettleDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	if o.BuyUser == 0 {
		o.BuyUser = 1
	}
	if o.SellUser == 0 {
		o.SellUser = 2
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = 3 * time.Second
	}
	return o
}

// orderIDSeq is the driver's own monotonically increasing order id
// generator, reset before every scenario per spec.md §4.4.5.
type orderIDSeq struct{ next uint32 }

func (s *orderIDSeq) take() uint32 {
	s.next++
	return s.next
}

// Run executes the scenario named by id against session and returns
// its verdict. An unknown id yields a failed result listing the
// catalog instead of raising.
func Run(session *client.Session, id int, opts Options) Result {
	opts = opts.withDefaults()
	entry, ok := Catalog[id]
	if !ok {
		return Result{Passed: false, Reason: ReasonSendErrors, Detail: catalogListing()}
	}

	resetBeforeScenario(session, opts)

	switch entry.Kind {
	case KindSimple:
		return runSimple(session, entry, opts)
	case KindMatchingSmoke:
		return runMatchingStress(session, entry, opts)
	case KindCancel:
		return runCancel(session, entry, opts)
	case KindUnmatchedStress:
		return runUnmatchedStress(session, entry, opts)
	case KindMatchingStress:
		return runMatchingStress(session, entry, opts)
	case KindDual:
		return runDual(session, entry, opts)
	default:
		return Result{Passed: false, Reason: ReasonSendErrors, Detail: "unhandled scenario kind"}
	}
}

func catalogListing() string {
	s := "known scenarios: "
	for id := range Catalog {
		s += fmt.Sprintf("%d ", id)
	}
	return s
}

// resetBeforeScenario implements spec.md §4.4.5.
func resetBeforeScenario(session *client.Session, opts Options) {
	_ = session.SendRequest(wire.FlushRequest())
	time.Sleep(200 * time.Millisecond)
	session.Drain(client.DrainOptions{
		PollDeadline:   20 * time.Millisecond,
		MaxEmptyPolls:  25,
		BudgetDeadline: time.Now().Add(500 * time.Millisecond),
	})
}

func runSimple(session *client.Session, entry Entry, opts Options) Result {
	start := time.Now()
	var stats Stats
	seq := &orderIDSeq{}
	symbol := entry.Symbols[0]

	for i := 0; i < entry.N; i++ {
		req := wire.NewOrderRequest(opts.BuyUser, symbol, uint32(100+i), 1, wire.Buy, seq.take())
		if err := session.SendRequest(req); err != nil {
			return Result{Passed: false, Reason: ReasonSendErrors, Stats: stats, Elapsed: time.Since(start), Detail: err.Error()}
		}
	}

	drainInto(session, &stats, 5*time.Second)
	return finalize(stats, entry.N, 0, start)
}

func runCancel(session *client.Session, entry Entry, opts Options) Result {
	start := time.Now()
	var stats Stats
	seq := &orderIDSeq{}
	symbol := entry.Symbols[0]
	orderID := seq.take()

	if err := session.SendRequest(wire.NewOrderRequest(opts.BuyUser, symbol, 100, 1, wire.Buy, orderID)); err != nil {
		return Result{Passed: false, Reason: ReasonSendErrors, Elapsed: time.Since(start), Detail: err.Error()}
	}
	if err := session.SendRequest(wire.CancelRequest(opts.BuyUser, symbol, orderID)); err != nil {
		return Result{Passed: false, Reason: ReasonSendErrors, Elapsed: time.Since(start), Detail: err.Error()}
	}

	drainInto(session, &stats, 5*time.Second)
	// One ack for the order, one cancel-ack for the withdrawal.
	if stats.Acks < 1 || stats.CancelAcks < 1 {
		return Result{Passed: false, Reason: ReasonMissingAcks, Stats: stats, Elapsed: time.Since(start)}
	}
	if stats.Rejects > 0 {
		return Result{Passed: false, Reason: ReasonRejects, Stats: stats, Elapsed: time.Since(start)}
	}
	return Result{Passed: true, Stats: stats, Elapsed: time.Since(start)}
}

// runMatchingStress covers scenario 2 (a single pair) and 20-25 (N
// pairs) alike: both submit one buy+sell pair per iteration.
func runMatchingStress(session *client.Session, entry Entry, opts Options) Result {
	start := time.Now()
	var stats Stats
	seq := &orderIDSeq{}
	symbol := entry.Symbols[0]
	pacing := PacingFor(entry.N)

	for i := 0; i < entry.N; i++ {
		price := uint32(10000)
		buyID := seq.take()
		sellID := seq.take()
		buy := wire.NewOrderRequest(opts.BuyUser, symbol, price, 1, wire.Buy, buyID)
		sell := wire.NewOrderRequest(opts.SellUser, symbol, price, 1, wire.Sell, sellID)

		if err := session.SendRequest(buy); err != nil {
			return Result{Passed: false, Reason: ReasonSendErrors, Stats: stats, Elapsed: time.Since(start), Detail: err.Error()}
		}
		if err := session.SendRequest(sell); err != nil {
			return Result{Passed: false, Reason: ReasonSendErrors, Stats: stats, Elapsed: time.Since(start), Detail: err.Error()}
		}

		maybeDrainBatch(session, &stats, i, pacing, opts)
		maybeReportProgress(opts, entry.N, i, pacing, start, stats)
	}

	finalDrain(session, &stats, pacing.FinalDrainBound, opts.SettleDelay)
	return finalize(stats, 2*entry.N, entry.N, start)
}

func runUnmatchedStress(session *client.Session, entry Entry, opts Options) Result {
	start := time.Now()
	var stats Stats
	seq := &orderIDSeq{}
	symbol := entry.Symbols[0]
	pacing := PacingFor(entry.N)

	for i := 0; i < entry.N; i++ {
		price := uint32(1 + i%50_000)
		req := wire.NewOrderRequest(opts.BuyUser, symbol, price, 1, wire.Buy, seq.take())
		if err := session.SendRequest(req); err != nil {
			return Result{Passed: false, Reason: ReasonSendErrors, Stats: stats, Elapsed: time.Since(start), Detail: err.Error()}
		}

		maybeDrainBatch(session, &stats, i, pacing, opts)
		maybeReportProgress(opts, entry.N, i, pacing, start, stats)
	}

	finalDrain(session, &stats, pacing.FinalDrainBound, opts.SettleDelay)
	return finalize(stats, entry.N, 0, start)
}

func runDual(session *client.Session, entry Entry, opts Options) Result {
	start := time.Now()
	var stats Stats
	seq := &orderIDSeq{}
	pacing := PacingFor(entry.N)

	for i := 0; i < entry.N; i++ {
		symbol := entry.Symbols[i%len(entry.Symbols)]
		price := uint32(10000)
		buy := wire.NewOrderRequest(opts.BuyUser, symbol, price, 1, wire.Buy, seq.take())
		sell := wire.NewOrderRequest(opts.SellUser, symbol, price, 1, wire.Sell, seq.take())

		if err := session.SendRequest(buy); err != nil {
			return Result{Passed: false, Reason: ReasonSendErrors, Stats: stats, Elapsed: time.Since(start), Detail: err.Error()}
		}
		if err := session.SendRequest(sell); err != nil {
			return Result{Passed: false, Reason: ReasonSendErrors, Stats: stats, Elapsed: time.Since(start), Detail: err.Error()}
		}

		maybeDrainBatch(session, &stats, i, pacing, opts)
		maybeReportProgress(opts, entry.N, i, pacing, start, stats)
	}

	finalDrain(session, &stats, pacing.FinalDrainBound, opts.SettleDelay)
	return finalize(stats, 2*entry.N, entry.N, start)
}

// maybeDrainBatch implements spec.md §4.4.2 step 2: on batch
// boundaries, aggressively drain then sleep.
func maybeDrainBatch(session *client.Session, stats *Stats, i int, pacing Pacing, opts Options) {
	if i == 0 || i%pacing.PairsPerBatch != 0 {
		return
	}
	drainTarget := 5 * pacing.PairsPerBatch
	deadline := time.Now().Add(time.Duration(drainTarget) * 2 * time.Millisecond)
	drainInto(session, stats, time.Until(deadline))
	time.Sleep(pacing.InterBatchSleep)
}

func maybeReportProgress(opts Options, n, i int, pacing Pacing, start time.Time, stats Stats) {
	if pacing.ProgressInterval <= 0 || i == 0 || i%pacing.ProgressInterval != 0 {
		return
	}
	elapsed := time.Since(start)
	rate := float64(i) / elapsed.Seconds()
	pct := 100 * float64(i) / float64(n)
	opts.Logger.Infof("progress %.0f%% sent=%d elapsed=%s rate=%.0f/s events=%d",
		pct, i, elapsed.Truncate(time.Millisecond), rate, tally(stats))
}

func tally(s Stats) int {
	return s.Acks + s.CancelAcks + s.Trades + s.TOB + s.Rejects
}

// drainInto pulls events for up to budget and tallies them.
func drainInto(session *client.Session, stats *Stats, budget time.Duration) {
	opts := client.DrainOptions{
		PollDeadline:   2 * time.Millisecond,
		MaxEmptyPolls:  100,
		BudgetDeadline: time.Now().Add(budget),
	}
	results := session.Drain(opts)
	applyResults(stats, results)
}

func finalDrain(session *client.Session, stats *Stats, bound, settleDelay time.Duration) {
	time.Sleep(settleDelay)
	opts := client.DrainOptions{
		PollDeadline:   100 * time.Millisecond,
		MaxEmptyPolls:  100,
		BudgetDeadline: time.Now().Add(bound),
	}
	results := session.Drain(opts)
	applyResults(stats, results)
}

func applyResults(stats *Stats, results []client.Result) {
	for _, r := range results {
		if r.ParseError != nil {
			stats.ParseErrors++
			continue
		}
		switch r.Event.Kind {
		case wire.KindAck:
			stats.Acks++
		case wire.KindCancelAck:
			stats.CancelAcks++
		case wire.KindTrade:
			stats.Trades++
		case wire.KindTopOfBook:
			stats.TOB++
		case wire.KindReject, wire.KindCancelReject:
			stats.Rejects++
		}
	}
}

// finalize implements the pass/fail rule of spec.md §4.4.3.
func finalize(stats Stats, expectedAcks, expectedTrades int, start time.Time) Result {
	if stats.Rejects > 0 {
		return Result{Passed: false, Reason: ReasonRejects, Stats: stats, Elapsed: time.Since(start),
			Detail: fmt.Sprintf("%d rejects observed", stats.Rejects)}
	}
	if stats.Acks < expectedAcks {
		return Result{Passed: false, Reason: ReasonMissingAcks, Stats: stats, Elapsed: time.Since(start),
			Detail: fmt.Sprintf("acks %d short of expected %d", expectedAcks-stats.Acks, expectedAcks)}
	}
	if expectedTrades > 0 && stats.Trades < expectedTrades {
		return Result{Passed: false, Reason: ReasonMissingTrades, Stats: stats, Elapsed: time.Since(start),
			Detail: fmt.Sprintf("trades %d short of expected %d", expectedTrades-stats.Trades, expectedTrades)}
	}
	return Result{Passed: true, Stats: stats, Elapsed: time.Since(start)}
}
