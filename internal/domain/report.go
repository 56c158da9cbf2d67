package domain

// Stats aggregates a set of operation records. Always derived by folding
// over a filtered listing, never cached.
type Stats struct {
	TotalOperations int
	Successful      int
	Failed          int
	SuccessRate     float64 // Successful / TotalOperations, 0 when empty
	TotalWithdrawn  Amount  // Sum of successful withdrawal amounts
	TotalDeposited  Amount  // Sum of successful deposit amounts
}

// Report folds the given operations into aggregate statistics.
func Report(ops []*Operation) Stats {
	stats := Stats{
		TotalWithdrawn: ZeroAmount(),
		TotalDeposited: ZeroAmount(),
	}

	for _, op := range ops {
		stats.TotalOperations++

		if op.Outcome != OutcomeSuccess {
			stats.Failed++
			continue
		}
		stats.Successful++

		if op.Amount == nil {
			continue
		}
		switch op.Kind {
		case OperationWithdrawal:
			stats.TotalWithdrawn = stats.TotalWithdrawn.Add(*op.Amount)
		case OperationDeposit:
			stats.TotalDeposited = stats.TotalDeposited.Add(*op.Amount)
		}
	}

	if stats.TotalOperations > 0 {
		stats.SuccessRate = float64(stats.Successful) / float64(stats.TotalOperations)
	}
	return stats
}
