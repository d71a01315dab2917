package service

import (
	"testing"
	"time"

	"finance-dashboard/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

func fixedCalculator() *DebtCalculator {
	return NewDebtCalculatorWithClock(func() time.Time {
		return date(2024, time.March, 15)
	})
}

func TestSolve_ByDateMonthly(t *testing.T) {

	calc := fixedCalculator()

	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount: 1200,
		PaidAmount:  0,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   date(2024, time.January, 1),
		SolveMode:   domain.SolveByDate,
		EndDate:     ptr(date(2025, time.January, 1)),
	})

	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Message)
	}
	if result.PaymentCount != 12 {
		t.Errorf("expected 12 payments, got %d", result.PaymentCount)
	}
	if result.PaymentAmount == nil || *result.PaymentAmount != 100 {
		t.Fatalf("expected payment 100.00, got %v", result.PaymentAmount)
	}
	if result.SummaryLabel != "12 months × 100.00 = 1200.00" {
		t.Errorf("unexpected summary %q", result.SummaryLabel)
	}
	if result.PayoffDateLabel != "Payoff by: January 1, 2025" {
		t.Errorf("unexpected payoff label %q", result.PayoffDateLabel)
	}
	if result.AmountLabel != "Monthly Payment (auto-calculated)" {
		t.Errorf("unexpected amount label %q", result.AmountLabel)
	}
}

func TestSolve_ByAmountMonthly(t *testing.T) {

	calc := fixedCalculator()

	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount:   1000,
		PaidAmount:    200,
		Frequency:     domain.FrequencyMonthly,
		StartDate:     date(2024, time.January, 1),
		SolveMode:     domain.SolveByAmount,
		PaymentAmount: ptr(150.0),
	})

	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Message)
	}
	if result.Remaining != 800 {
		t.Errorf("expected remaining 800, got %.2f", result.Remaining)
	}
	if result.PaymentCount != 6 {
		t.Errorf("expected 6 payments, got %d", result.PaymentCount)
	}
	if result.EndDate == nil || !result.EndDate.Equal(date(2024, time.July, 1)) {
		t.Errorf("expected end date 2024-07-01, got %v", result.EndDate)
	}
	if result.DurationLabel != "~6 months" {
		t.Errorf("expected ~6 months, got %q", result.DurationLabel)
	}
	if result.SummaryLabel != "Estimated duration: ~6 months (6 months)" {
		t.Errorf("unexpected summary %q", result.SummaryLabel)
	}
	if result.PayoffDateLabel != "Estimated payoff: July 1, 2024" {
		t.Errorf("unexpected payoff label %q", result.PayoffDateLabel)
	}
	if result.ProgressPercent != 20 {
		t.Errorf("expected 20%% progress, got %.2f", result.ProgressPercent)
	}
}

func TestSolve_PaidOff(t *testing.T) {

	calc := fixedCalculator()

	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount:   500,
		PaidAmount:    500,
		Frequency:     domain.FrequencyMonthly,
		SolveMode:     domain.SolveByAmount,
		PaymentAmount: ptr(50.0),
	})

	if result.Status != domain.StatusPaidOff {
		t.Fatalf("expected paid-off, got %s", result.Status)
	}
	if result.PaymentAmount == nil || *result.PaymentAmount != 0 {
		t.Errorf("expected payment zeroed, got %v", result.PaymentAmount)
	}
	if result.DurationLabel != "" || result.EndDate != nil {
		t.Errorf("expected no duration output")
	}
	if result.ProgressPercent != 100 {
		t.Errorf("expected 100%% progress, got %.2f", result.ProgressPercent)
	}
}

func TestSolve_InvalidRange(t *testing.T) {

	calc := fixedCalculator()

	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount: 500,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   date(2024, time.June, 1),
		SolveMode:   domain.SolveByDate,
		EndDate:     ptr(date(2024, time.May, 1)),
	})

	if result.Status != domain.StatusInvalidRange {
		t.Fatalf("expected invalid-range, got %s", result.Status)
	}
	if result.PaymentAmount != nil {
		t.Errorf("expected no payment amount, got %v", *result.PaymentAmount)
	}
}

func TestSolve_IncompleteInputs(t *testing.T) {

	calc := fixedCalculator()

	cases := map[string]domain.DebtPlanInput{
		"zero total": {
			TotalAmount: 0,
			Frequency:   domain.FrequencyMonthly,
			SolveMode:   domain.SolveByAmount,
		},
		"negative total": {
			TotalAmount: -10,
			Frequency:   domain.FrequencyMonthly,
			SolveMode:   domain.SolveByDate,
		},
		"by-date without end": {
			TotalAmount: 100,
			Frequency:   domain.FrequencyMonthly,
			SolveMode:   domain.SolveByDate,
		},
		"by-amount without payment": {
			TotalAmount: 100,
			Frequency:   domain.FrequencyMonthly,
			SolveMode:   domain.SolveByAmount,
		},
		"by-amount zero payment": {
			TotalAmount:   100,
			Frequency:     domain.FrequencyMonthly,
			SolveMode:     domain.SolveByAmount,
			PaymentAmount: ptr(0.0),
		},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			result := calc.Solve(input)
			if result.Status != domain.StatusIncomplete {
				t.Errorf("expected incomplete, got %s", result.Status)
			}
			if result.Message == "" {
				t.Errorf("expected a guidance message")
			}
		})
	}
}

func TestSolve_MissingStartUsesToday(t *testing.T) {

	calc := fixedCalculator()

	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount:   300,
		Frequency:     domain.FrequencyWeekly,
		SolveMode:     domain.SolveByAmount,
		PaymentAmount: ptr(100.0),
	})

	want := date(2024, time.April, 5)
	if result.EndDate == nil || !result.EndDate.Equal(want) {
		t.Errorf("expected %v, got %v", want, result.EndDate)
	}
}

func TestSolve_ByDateIgnoresStalePayment(t *testing.T) {

	calc := fixedCalculator()

	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount:   100,
		Frequency:     domain.FrequencyMonthly,
		StartDate:     date(2024, time.January, 1),
		SolveMode:     domain.SolveByDate,
		EndDate:       ptr(date(2024, time.April, 1)),
		PaymentAmount: ptr(999.0),
	})

	if result.PaymentAmount == nil || *result.PaymentAmount != 33.34 {
		t.Fatalf("expected 33.34, got %v", result.PaymentAmount)
	}
	if result.PaymentsRemaining != 3 {
		t.Errorf("expected 3 payments remaining, got %d", result.PaymentsRemaining)
	}
}

func TestSolve_IsIdempotent(t *testing.T) {

	calc := fixedCalculator()
	input := domain.DebtPlanInput{
		TotalAmount:   2500,
		PaidAmount:    120,
		Frequency:     domain.FrequencyWeekly,
		StartDate:     date(2024, time.February, 10),
		SolveMode:     domain.SolveByAmount,
		PaymentAmount: ptr(75.5),
	}

	first := calc.Solve(input)
	second := calc.Solve(input)

	if first.PaymentCount != second.PaymentCount ||
		!first.EndDate.Equal(*second.EndDate) ||
		first.SummaryLabel != second.SummaryLabel {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestSolve_ByDateCeilingProperty(t *testing.T) {

	calc := fixedCalculator()
	start := date(2024, time.January, 1)

	remainders := []float64{1, 99.99, 100, 1234.56, 5000, 10000.01, 87654.32}
	freqs := []domain.Frequency{
		domain.FrequencyDaily,
		domain.FrequencyWeekly,
		domain.FrequencyMonthly,
		domain.FrequencyYearly,
	}
	ends := []time.Time{
		date(2024, time.March, 1),
		date(2025, time.January, 1),
		date(2029, time.July, 15),
	}

	for _, remaining := range remainders {
		for _, freq := range freqs {
			for _, end := range ends {
				result := calc.Solve(domain.DebtPlanInput{
					TotalAmount: remaining,
					Frequency:   freq,
					StartDate:   start,
					SolveMode:   domain.SolveByDate,
					EndDate:     ptr(end),
				})
				if result.Status != domain.StatusOK {
					t.Fatalf("expected ok for %.2f %s %v, got %s", remaining, freq, end, result.Status)
				}

				cents := int64(*result.PaymentAmount*100 + 0.5)
				owed := int64(remaining*100 + 0.5)
				n := int64(result.PaymentCount)

				if cents*n < owed {
					t.Errorf("%.2f %s: %d × %d cents falls short of %d", remaining, freq, n, cents, owed)
				}
				if cents > 1 && (cents-1)*n >= owed {
					t.Errorf("%.2f %s: %d cents is not the smallest covering payment", remaining, freq, cents)
				}
			}
		}
	}
}

func TestSolve_ByAmountCeilingProperty(t *testing.T) {

	calc := fixedCalculator()

	remainders := []float64{1, 50, 800, 999.99, 12345.67}
	payments := []float64{0.01, 1, 33.33, 150, 1000, 20000}

	for _, remaining := range remainders {
		for _, payment := range payments {
			result := calc.Solve(domain.DebtPlanInput{
				TotalAmount:   remaining,
				Frequency:     domain.FrequencyMonthly,
				StartDate:     date(2024, time.January, 1),
				SolveMode:     domain.SolveByAmount,
				PaymentAmount: ptr(payment),
			})

			owed := int64(remaining*100 + 0.5)
			cents := int64(payment*100 + 0.5)
			n := int64(result.PaymentCount)

			if cents*n < owed {
				t.Errorf("%.2f / %.2f: %d payments fall short", remaining, payment, n)
			}
			if cents*(n-1) >= owed {
				t.Errorf("%.2f / %.2f: %d payments is one too many", remaining, payment, n)
			}
		}
	}
}

func TestSolve_ByAmountTinyPaymentIsIncomplete(t *testing.T) {

	calc := fixedCalculator()
	start := date(2024, time.January, 1)

	for _, payment := range []float64{1e-6, 1e-12} {
		result := calc.Solve(domain.DebtPlanInput{
			TotalAmount:   1e9,
			Frequency:     domain.FrequencyDaily,
			StartDate:     start,
			SolveMode:     domain.SolveByAmount,
			PaymentAmount: ptr(payment),
		})

		if result.Status != domain.StatusIncomplete {
			t.Errorf("payment %g: expected incomplete, got %s (count %d)", payment, result.Status, result.PaymentCount)
		}
		if result.EndDate != nil || result.PaymentCount != 0 {
			t.Errorf("payment %g: no end date should be derived, got %v", payment, result.EndDate)
		}
	}

	// the largest allowed plan still ends after it starts
	result := calc.Solve(domain.DebtPlanInput{
		TotalAmount:   MaxPaymentCount * 0.01,
		Frequency:     domain.FrequencyYearly,
		StartDate:     start,
		SolveMode:     domain.SolveByAmount,
		PaymentAmount: ptr(0.01),
	})
	if result.Status != domain.StatusOK || result.PaymentCount != MaxPaymentCount {
		t.Fatalf("expected ok with %d payments, got %s %d", MaxPaymentCount, result.Status, result.PaymentCount)
	}
	if !result.EndDate.After(start) {
		t.Errorf("end date %v should be after start", result.EndDate)
	}
}

func TestCountPaymentsBetween(t *testing.T) {

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		freq  domain.Frequency
		want  int
	}{
		{"end before start", date(2024, 5, 1), date(2024, 4, 1), domain.FrequencyDaily, 0},
		{"same day", date(2024, 5, 1), date(2024, 5, 1), domain.FrequencyMonthly, 0},
		{"daily", date(2024, 1, 1), date(2024, 1, 31), domain.FrequencyDaily, 30},
		{"weekly floors", date(2024, 1, 1), date(2024, 1, 20), domain.FrequencyWeekly, 2},
		{"monthly calendar", date(2024, 1, 31), date(2024, 3, 1), domain.FrequencyMonthly, 2},
		{"monthly minimum one", date(2024, 1, 1), date(2024, 1, 20), domain.FrequencyMonthly, 1},
		{"monthly across years", date(2023, 11, 1), date(2025, 2, 1), domain.FrequencyMonthly, 15},
		{"yearly minimum one", date(2024, 1, 1), date(2024, 12, 31), domain.FrequencyYearly, 1},
		{"yearly", date(2024, 6, 1), date(2027, 1, 1), domain.FrequencyYearly, 3},
		{"unknown frequency", date(2024, 1, 1), date(2024, 4, 1), domain.Frequency("fortnightly"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountPaymentsBetween(tt.start, tt.end, tt.freq); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestAdvanceDate(t *testing.T) {

	start := date(2024, time.January, 31)

	tests := []struct {
		freq  domain.Frequency
		count int
		want  time.Time
	}{
		{domain.FrequencyDaily, 10, date(2024, time.February, 10)},
		{domain.FrequencyWeekly, 2, date(2024, time.February, 14)},
		{domain.FrequencyMonthly, 1, date(2024, time.March, 2)},
		{domain.FrequencyYearly, 2, date(2026, time.January, 31)},
		{domain.Frequency("other"), 5, start},
	}

	for _, tt := range tests {
		if got := AdvanceDate(start, tt.freq, tt.count); !got.Equal(tt.want) {
			t.Errorf("%s x%d: expected %v, got %v", tt.freq, tt.count, tt.want, got)
		}
	}
}

func TestAdvanceDate_RoundTripsWithCount(t *testing.T) {

	start := date(2024, time.January, 15)
	ends := []time.Time{
		date(2024, time.February, 1),
		date(2024, time.August, 20),
		date(2026, time.March, 3),
	}

	for _, end := range ends {
		// calendar counting ignores the day of month, so only the unit is compared;
		// a single period is always counted, even for spans shorter than one
		n := CountPaymentsBetween(start, end, domain.FrequencyMonthly)
		landed := AdvanceDate(start, domain.FrequencyMonthly, n)
		if n > 1 && monthIndex(landed) > monthIndex(end) {
			t.Errorf("monthly: advancing %d periods lands on %v past %v", n, landed, end)
		}

		n = CountPaymentsBetween(start, end, domain.FrequencyYearly)
		landed = AdvanceDate(start, domain.FrequencyYearly, n)
		if n > 1 && landed.Year() > end.Year() {
			t.Errorf("yearly: advancing %d periods lands on %v past %v", n, landed, end)
		}

		for _, freq := range []domain.Frequency{domain.FrequencyDaily, domain.FrequencyWeekly} {
			n := CountPaymentsBetween(start, end, freq)
			landed := AdvanceDate(start, freq, n)
			if landed.After(end) {
				t.Errorf("%s: %v after %v", freq, landed, end)
			}
			if next := AdvanceDate(start, freq, n+1); !next.After(end) {
				t.Errorf("%s: count %d is not the largest fitting count", freq, n)
			}
		}
	}
}

func TestFormatDuration(t *testing.T) {

	tests := []struct {
		count int
		freq  domain.Frequency
		want  string
	}{
		{1, domain.FrequencyMonthly, "~1 month"},
		{6, domain.FrequencyMonthly, "~6 months"},
		{12, domain.FrequencyMonthly, "~1 year"},
		{25, domain.FrequencyMonthly, "~2 years 1 month"},
		{1, domain.FrequencyYearly, "~1 year"},
		{4, domain.FrequencyYearly, "~4 years"},
		{60, domain.FrequencyWeekly, "~1 year 8 weeks"},
		{104, domain.FrequencyWeekly, "~2 years"},
		{3, domain.FrequencyWeekly, "~3 weeks"},
		{1, domain.FrequencyDaily, "~1 day"},
		{29, domain.FrequencyDaily, "~29 days"},
		{45, domain.FrequencyDaily, "~1 month"},
		{90, domain.FrequencyDaily, "~3 months"},
		{400, domain.FrequencyDaily, "~1 year 1 month"},
		{730, domain.FrequencyDaily, "~2 years"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.count, tt.freq); got != tt.want {
			t.Errorf("%d %s: expected %q, got %q", tt.count, tt.freq, tt.want, got)
		}
	}
}

func TestProgressPercent(t *testing.T) {

	if got := ProgressPercent(0, 50); got != 0 {
		t.Errorf("expected 0 for zero total, got %.2f", got)
	}
	if got := ProgressPercent(1000, 250); got != 25 {
		t.Errorf("expected 25, got %.2f", got)
	}
	if got := ProgressPercent(1000, 5000); got != 100 {
		t.Errorf("expected clamp at 100, got %.2f", got)
	}

	prev := -1.0
	for paid := 0.0; paid <= 1500; paid += 37.5 {
		got := ProgressPercent(1000, paid)
		if got < prev {
			t.Fatalf("progress decreased at paid=%.2f: %.2f < %.2f", paid, got, prev)
		}
		if got > 100 {
			t.Fatalf("progress above 100 at paid=%.2f", paid)
		}
		prev = got
	}
}

func TestPaymentsRemaining(t *testing.T) {

	if got := PaymentsRemaining(800, 150); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
	if got := PaymentsRemaining(800, 0); got != 0 {
		t.Errorf("expected 0 without payment amount, got %d", got)
	}
	if got := PaymentsRemaining(0, 100); got != 0 {
		t.Errorf("expected 0 when nothing remains, got %d", got)
	}
}

func TestPaymentAmountLabel(t *testing.T) {

	if got := PaymentAmountLabel(domain.FrequencyWeekly, domain.SolveByAmount); got != "Weekly Payment Amount" {
		t.Errorf("unexpected label %q", got)
	}
	if got := PaymentAmountLabel(domain.FrequencyYearly, domain.SolveByDate); got != "Yearly Payment (auto-calculated)" {
		t.Errorf("unexpected label %q", got)
	}
}
