package domain

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

type SolveMode string

const (
	SolveByAmount SolveMode = "by-amount"
	SolveByDate   SolveMode = "by-date"
)

type DebtPlanStatus string

const (
	StatusOK           DebtPlanStatus = "ok"
	StatusPaidOff      DebtPlanStatus = "paid-off"
	StatusIncomplete   DebtPlanStatus = "incomplete"
	StatusInvalidRange DebtPlanStatus = "invalid-range"
)

// DebtPlanInput holds the current values of a debt plan form.
// PaymentAmount is read only in by-amount mode and EndDate only in by-date mode.
type DebtPlanInput struct {
	TotalAmount   float64
	PaidAmount    float64
	Frequency     Frequency
	StartDate     time.Time
	SolveMode     SolveMode
	PaymentAmount *float64
	EndDate       *time.Time
}

type DebtPlanResult struct {
	Status            DebtPlanStatus `json:"status"`
	Message           string         `json:"message,omitempty"`
	Remaining         float64        `json:"remaining"`
	PaymentAmount     *float64       `json:"paymentAmount,omitempty"`
	PaymentCount      int            `json:"paymentCount,omitempty"`
	EndDate           *time.Time     `json:"endDate,omitempty"`
	AmountLabel       string         `json:"amountLabel,omitempty"`
	DurationLabel     string         `json:"durationLabel,omitempty"`
	PayoffDateLabel   string         `json:"payoffDateLabel,omitempty"`
	SummaryLabel      string         `json:"summaryLabel,omitempty"`
	ProgressPercent   float64        `json:"progressPercent"`
	PaymentsRemaining int            `json:"paymentsRemaining,omitempty"`
}
