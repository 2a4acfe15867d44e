package scenario

// Stats tallies engine responses observed during a scenario run. Every
// field is monotonically non-decreasing over the life of a run.
type Stats struct {
	Acks        int
	CancelAcks  int
	Trades      int
	TOB         int
	Rejects     int
	ParseErrors int
}

func (s *Stats) add(other Stats) {
	s.Acks += other.Acks
	s.CancelAcks += other.CancelAcks
	s.Trades += other.Trades
	s.TOB += other.TOB
	s.Rejects += other.Rejects
	s.ParseErrors += other.ParseErrors
}
