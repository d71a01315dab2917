package service

import "time"

const (
	MaxDebtAmount    = 1_000_000_000.0 // 1 billion
	MaxPaymentAmount = MaxDebtAmount
	MaxNameLength    = 100
	MinPaymentAmount = 0.01

	// keeps derived payoff dates well inside time.Time's range
	MaxPaymentCount = 10_000_000

	// caps the periods posted for one item in a single ProcessDue run
	MaxCatchUpPeriods = 3660

	DebtCalculationCacheTTL = 10 * time.Minute
	debtCalculationCacheKey = "debtcalc:"

	DateLayout        = "2006-01-02"
	payoffLabelLayout = "January 2, 2006"
)
