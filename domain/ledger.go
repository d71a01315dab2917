package domain

import "time"

type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountInput struct {
	Name    string
	Type    string
	Balance float64
}

type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	AccountID   string    `json:"account_id"`
	CategoryID  *string   `json:"category_id"`
	RecurringID *string   `json:"recurring_id,omitempty"`
}
