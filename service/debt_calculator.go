package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance-dashboard/domain"
)

var (
	hundred = decimal.NewFromInt(100)

	periodUnit = map[domain.Frequency][2]string{
		domain.FrequencyDaily:   {"day", "days"},
		domain.FrequencyWeekly:  {"week", "weeks"},
		domain.FrequencyMonthly: {"month", "months"},
		domain.FrequencyYearly:  {"year", "years"},
	}

	frequencyName = map[domain.Frequency]string{
		domain.FrequencyDaily:   "Daily",
		domain.FrequencyWeekly:  "Weekly",
		domain.FrequencyMonthly: "Monthly",
		domain.FrequencyYearly:  "Yearly",
	}
)

// DebtCalculator derives the missing half of a debt plan: the periodic
// payment when the payoff date is fixed, or the payoff date when the
// payment is fixed. It holds no state besides its clock.
type DebtCalculator struct {
	now func() time.Time
}

func NewDebtCalculator() *DebtCalculator {
	return &DebtCalculator{now: time.Now}
}

// NewDebtCalculatorWithClock is used where "today" must be fixed, mostly tests.
func NewDebtCalculatorWithClock(now func() time.Time) *DebtCalculator {
	return &DebtCalculator{now: now}
}

// Solve computes the derived field of the plan. Inputs that cannot be
// resolved are reported through the result status, never as an error.
func (c *DebtCalculator) Solve(plan domain.DebtPlanInput) domain.DebtPlanResult {
	result := domain.DebtPlanResult{
		AmountLabel:     PaymentAmountLabel(plan.Frequency, plan.SolveMode),
		ProgressPercent: ProgressPercent(plan.TotalAmount, plan.PaidAmount),
	}

	total := decimal.NewFromFloat(plan.TotalAmount)
	if !total.IsPositive() {
		result.Status = domain.StatusIncomplete
		result.Message = "Enter total debt amount to begin"
		return result
	}

	remaining := remainingBalance(plan.TotalAmount, plan.PaidAmount)
	result.Remaining = remaining.InexactFloat64()

	if !remaining.IsPositive() {
		zero := 0.0
		result.Status = domain.StatusPaidOff
		result.Message = "Debt is already fully paid"
		result.PaymentAmount = &zero
		return result
	}

	start := dateOnly(plan.StartDate)
	if plan.StartDate.IsZero() {
		start = dateOnly(c.now())
	}

	if plan.SolveMode == domain.SolveByDate {
		return c.solveByDate(plan, start, remaining, result)
	}
	return c.solveByAmount(plan, start, remaining, result)
}

func (c *DebtCalculator) solveByDate(
	plan domain.DebtPlanInput,
	start time.Time,
	remaining decimal.Decimal,
	result domain.DebtPlanResult,
) domain.DebtPlanResult {

	if plan.EndDate == nil || plan.EndDate.IsZero() {
		result.Status = domain.StatusIncomplete
		result.Message = "Set an end date to auto-calculate payment amount"
		return result
	}

	end := dateOnly(*plan.EndDate)
	payments := CountPaymentsBetween(start, end, plan.Frequency)
	if payments <= 0 {
		result.Status = domain.StatusInvalidRange
		result.Message = "End date must be after start date"
		return result
	}

	amount := ceilDiv(remaining.Shift(2), decimal.NewFromInt(int64(payments))).Shift(-2)
	amountF := amount.InexactFloat64()

	result.Status = domain.StatusOK
	result.PaymentAmount = &amountF
	result.PaymentCount = payments
	result.EndDate = &end
	result.PaymentsRemaining = PaymentsRemaining(result.Remaining, amountF)
	result.SummaryLabel = fmt.Sprintf(
		"%d %s × %s = %s",
		payments,
		unitLabel(plan.Frequency, payments),
		amount.StringFixed(2),
		remaining.StringFixed(2),
	)
	result.PayoffDateLabel = "Payoff by: " + end.Format(payoffLabelLayout)
	return result
}

func (c *DebtCalculator) solveByAmount(
	plan domain.DebtPlanInput,
	start time.Time,
	remaining decimal.Decimal,
	result domain.DebtPlanResult,
) domain.DebtPlanResult {

	if plan.PaymentAmount == nil || *plan.PaymentAmount <= 0 {
		result.Status = domain.StatusIncomplete
		result.Message = "Enter a payment amount to see estimated duration"
		return result
	}

	payment := decimal.NewFromFloat(*plan.PaymentAmount)
	periods := ceilDiv(remaining, payment)
	if periods.GreaterThan(decimal.NewFromInt(MaxPaymentCount)) {
		result.Status = domain.StatusIncomplete
		result.Message = "Payment amount is too small to pay off this debt"
		return result
	}
	count := int(periods.IntPart())
	end := AdvanceDate(start, plan.Frequency, count)
	duration := FormatDuration(count, plan.Frequency)
	amountF := *plan.PaymentAmount

	result.Status = domain.StatusOK
	result.PaymentAmount = &amountF
	result.PaymentCount = count
	result.EndDate = &end
	result.PaymentsRemaining = count
	result.DurationLabel = duration
	result.SummaryLabel = fmt.Sprintf(
		"Estimated duration: %s (%d %s)",
		duration,
		count,
		unitLabel(plan.Frequency, count),
	)
	result.PayoffDateLabel = "Estimated payoff: " + end.Format(payoffLabelLayout)
	return result
}

// CountPaymentsBetween returns how many payments of the given frequency fit
// between start and end. Monthly and yearly spans count whole calendar units
// and never fall below one.
func CountPaymentsBetween(start, end time.Time, freq domain.Frequency) int {
	if !end.After(start) {
		return 0
	}
	days := end.Sub(start).Hours() / 24

	switch freq {
	case domain.FrequencyDaily:
		return int(math.Floor(days))
	case domain.FrequencyWeekly:
		return int(math.Floor(days / 7))
	case domain.FrequencyMonthly:
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		return max(1, months)
	case domain.FrequencyYearly:
		return max(1, end.Year()-start.Year())
	default:
		return int(math.Floor(days / 30))
	}
}

// AdvanceDate moves date forward by count periods. Month and year overflow
// normalises the way time.AddDate does (Jan 31 + 1 month is Mar 2 or 3).
func AdvanceDate(date time.Time, freq domain.Frequency, count int) time.Time {
	switch freq {
	case domain.FrequencyDaily:
		return date.AddDate(0, 0, count)
	case domain.FrequencyWeekly:
		return date.AddDate(0, 0, count*7)
	case domain.FrequencyMonthly:
		return date.AddDate(0, count, 0)
	case domain.FrequencyYearly:
		return date.AddDate(count, 0, 0)
	default:
		return date
	}
}

// FormatDuration renders an approximate, human readable duration for a
// number of payments, e.g. "~1 year 8 weeks".
func FormatDuration(count int, freq domain.Frequency) string {
	switch freq {
	case domain.FrequencyMonthly:
		if years := count / 12; years > 0 {
			return "~" + joinUnits(years, "year", count%12, "month")
		}
		return "~" + plural(count, "month")
	case domain.FrequencyYearly:
		return "~" + plural(count, "year")
	case domain.FrequencyWeekly:
		if count >= 52 {
			return "~" + joinUnits(count/52, "year", count%52, "week")
		}
		return "~" + plural(count, "week")
	default:
		if count >= 365 {
			return "~" + joinUnits(count/365, "year", (count%365)/30, "month")
		}
		if count >= 30 {
			return "~" + plural(count/30, "month")
		}
		return "~" + plural(count, "day")
	}
}

// ProgressPercent is the share of the debt already paid, clamped to [0, 100].
func ProgressPercent(total, paid float64) float64 {
	if total <= 0 || paid <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(paid).
		Div(decimal.NewFromFloat(total)).
		Mul(hundred).
		Round(2)
	return math.Min(100, pct.InexactFloat64())
}

// PaymentsRemaining is the number of payments still needed to clear
// remaining, or 0 when no payment amount is known.
func PaymentsRemaining(remaining, payment float64) int {
	if payment <= 0 || remaining <= 0 {
		return 0
	}
	return int(ceilDiv(decimal.NewFromFloat(remaining), decimal.NewFromFloat(payment)).IntPart())
}

// PaymentAmountLabel names the payment field for the current frequency and mode.
func PaymentAmountLabel(freq domain.Frequency, mode domain.SolveMode) string {
	name := frequencyName[freq]
	if mode == domain.SolveByDate {
		return strings.TrimSpace(name + " Payment (auto-calculated)")
	}
	return strings.TrimSpace(name + " Payment Amount")
}

func remainingBalance(total, paid float64) decimal.Decimal {
	return decimal.Max(
		decimal.Zero,
		decimal.NewFromFloat(total).Sub(decimal.NewFromFloat(paid)),
	)
}

// ceilDiv returns the smallest integer q with q*d >= n, for positive n and d.
func ceilDiv(n, d decimal.Decimal) decimal.Decimal {
	q, r := n.QuoRem(d, 0)
	if r.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func unitLabel(freq domain.Frequency, n int) string {
	units, ok := periodUnit[freq]
	if !ok {
		return "payments"
	}
	if n == 1 {
		return units[0]
	}
	return units[1]
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func joinUnits(major int, majorUnit string, minor int, minorUnit string) string {
	s := plural(major, majorUnit)
	if minor > 0 {
		s += " " + plural(minor, minorUnit)
	}
	return s
}
