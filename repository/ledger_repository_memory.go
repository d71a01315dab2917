package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"finance-dashboard/domain"
)

// LedgerRepositoryMemory keeps accounts and posted transactions in memory.
type LedgerRepositoryMemory struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions []domain.Transaction
}

func NewLedgerRepositoryMemory() *LedgerRepositoryMemory {
	return &LedgerRepositoryMemory{
		accounts: make(map[string]domain.Account),
	}
}

func (r *LedgerRepositoryMemory) CreateAccount(_ context.Context, acc *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[acc.ID] = *acc
	return nil
}

func (r *LedgerRepositoryMemory) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &acc, nil
}

func (r *LedgerRepositoryMemory) ListAccounts(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *LedgerRepositoryMemory) PostTransaction(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[tx.AccountID]
	if !ok {
		return ErrNotFound
	}
	acc.Balance = decimal.NewFromFloat(acc.Balance).
		Add(decimal.NewFromFloat(tx.Amount)).
		InexactFloat64()
	r.accounts[acc.ID] = acc
	r.transactions = append(r.transactions, *tx)
	return nil
}

func (r *LedgerRepositoryMemory) ListTransactions(_ context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Transaction{}
	for _, tx := range r.transactions {
		if accountID == "" || tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
