package scenario

import "time"

// Kind selects the request shape a scenario drives.
type Kind int

const (
	// KindSimple submits a handful of resting orders, no matching.
	KindSimple Kind = iota
	// KindMatchingSmoke submits one matched buy/sell pair.
	KindMatchingSmoke
	// KindCancel submits an order then cancels it.
	KindCancel
	// KindUnmatchedStress submits N one-sided orders that never match.
	KindUnmatchedStress
	// KindMatchingStress submits N buy/sell pairs designed to match.
	KindMatchingStress
	// KindDual alternates two symbols round-robin, matching pairs.
	KindDual
)

// Entry is one catalog row: a scenario ID and its shape.
type Entry struct {
	ID      int
	Kind    Kind
	N       int // target trade/order count
	Symbols []string
}

// Catalog is keyed by the scenario IDs spec.md §4.4.4 names.
var Catalog = buildCatalog()

func buildCatalog() map[int]Entry {
	c := map[int]Entry{
		1: {ID: 1, Kind: KindSimple, N: 5, Symbols: []string{"IBM"}},
		2: {ID: 2, Kind: KindMatchingSmoke, N: 1, Symbols: []string{"IBM"}},
		3: {ID: 3, Kind: KindCancel, N: 1, Symbols: []string{"IBM"}},
	}

	unmatched := []int{1_000, 10_000, 100_000}
	for i, n := range unmatched {
		id := 10 + i
		c[id] = Entry{ID: id, Kind: KindUnmatchedStress, N: n, Symbols: []string{"IBM"}}
	}

	matching := []int{1_000, 10_000, 100_000, 250_000, 500_000, 250_000_000}
	for i, n := range matching {
		id := 20 + i
		c[id] = Entry{ID: id, Kind: KindMatchingStress, N: n, Symbols: []string{"IBM"}}
	}

	dual := []int{500_000, 1_000_000, 100_000_000}
	for i, n := range dual {
		id := 30 + i
		c[id] = Entry{ID: id, Kind: KindDual, N: n, Symbols: []string{"IBMA", "IBMB"}}
	}

	return c
}

// Pacing is the batching/drain shape selected by a scenario's target
// trade count N, per spec.md §4.4.1.
type Pacing struct {
	PairsPerBatch    int
	InterBatchSleep  time.Duration
	FinalDrainBound  time.Duration
	ProgressInterval int // report every N iterations
}

// PacingFor returns the pacing row for a given target trade count.
func PacingFor(n int) Pacing {
	switch {
	case n < 10_000:
		return Pacing{PairsPerBatch: 50, InterBatchSleep: 10 * time.Millisecond, FinalDrainBound: 60 * time.Second, ProgressInterval: progressInterval(n, 0.10)}
	case n < 100_000:
		return Pacing{PairsPerBatch: 75, InterBatchSleep: 25 * time.Millisecond, FinalDrainBound: 120 * time.Second, ProgressInterval: progressInterval(n, 0.10)}
	case n < 1_000_000:
		return Pacing{PairsPerBatch: 100, InterBatchSleep: 40 * time.Millisecond, FinalDrainBound: 10 * time.Minute, ProgressInterval: progressInterval(n, 0.05)}
	default:
		return Pacing{PairsPerBatch: 100, InterBatchSleep: 50 * time.Millisecond, FinalDrainBound: 30 * time.Minute, ProgressInterval: progressInterval(n, 0.05)}
	}
}

func progressInterval(n int, fraction float64) int {
	interval := int(float64(n) * fraction)
	if interval < 1 {
		interval = 1
	}
	return interval
}
