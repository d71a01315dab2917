package domain

import "time"

type PaymentType string

const (
	PaymentStandard PaymentType = "standard"
	PaymentDebt     PaymentType = "debt"
)

// RecurringTransaction is a scheduled income or expense. Amount is signed:
// negative amounts are expenses. Debt items always carry a negative amount.
type RecurringTransaction struct {
	ID          string
	Name        string
	Amount      float64
	Frequency   Frequency
	StartDate   time.Time
	NextDueDate time.Time
	EndDate     *time.Time
	AccountID   string
	CategoryID  *string
	IsActive    bool
	PaymentType PaymentType
	TotalAmount *float64
	PaidAmount  float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RecurringInput struct {
	Name        string
	Amount      float64
	Frequency   Frequency
	StartDate   time.Time
	EndDate     *time.Time
	AccountID   string
	CategoryID  *string
	PaymentType PaymentType
	TotalAmount *float64
	PaidAmount  float64
}

// RecurringView is a recurring item as returned to clients, with the
// debt progress fields filled in for debt items.
type RecurringView struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Amount            float64     `json:"amount"`
	Frequency         Frequency   `json:"frequency"`
	StartDate         time.Time   `json:"start_date"`
	NextDueDate       time.Time   `json:"next_due_date"`
	EndDate           *time.Time  `json:"end_date"`
	AccountID         string      `json:"account_id"`
	AccountName       string      `json:"account_name"`
	CategoryID        *string     `json:"category_id"`
	IsActive          bool        `json:"is_active"`
	PaymentType       PaymentType `json:"payment_type"`
	TotalAmount       *float64    `json:"total_amount"`
	PaidAmount        float64     `json:"paid_amount"`
	RemainingAmount   *float64    `json:"remaining_amount,omitempty"`
	ProgressPercent   *float64    `json:"progress_percent,omitempty"`
	PaymentsRemaining *int        `json:"payments_remaining,omitempty"`
}

type ProcessResult struct {
	ProcessedItems      int `json:"processed_items"`
	CreatedTransactions int `json:"created_transactions"`
	Deactivated         int `json:"deactivated"`
}
