package repository

import (
	"context"
	"errors"
	"time"

	"finance-dashboard/domain"
)

var ErrNotFound = errors.New("record not found")

type RecurringRepository interface {
	Create(ctx context.Context, rt *domain.RecurringTransaction) error
	Update(ctx context.Context, rt *domain.RecurringTransaction) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.RecurringTransaction, error)
	// List returns every item ordered by next due date.
	List(ctx context.Context) ([]domain.RecurringTransaction, error)
	// ListDue returns active items whose next due date is on or before day.
	ListDue(ctx context.Context, day time.Time) ([]domain.RecurringTransaction, error)
}

type LedgerRepository interface {
	CreateAccount(ctx context.Context, acc *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	// PostTransaction stores tx and adds its amount to the account balance.
	PostTransaction(ctx context.Context, tx *domain.Transaction) error
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
}
