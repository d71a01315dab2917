package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-dashboard/domain"
	"finance-dashboard/repository"
)

const defaultAccountType = "checking"

// AccountService covers the account operations recurring items depend on.
type AccountService struct {
	ledger repository.LedgerRepository
}

func NewAccountService(ledger repository.LedgerRepository) *AccountService {
	return &AccountService{ledger: ledger}
}

func (s *AccountService) Create(ctx context.Context, input domain.AccountInput) (domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Account{}, validationError("account name is required")
	}
	if len(name) > MaxNameLength {
		return domain.Account{}, validationError("account name must be at most %d characters", MaxNameLength)
	}
	if err := checkAmount("balance", input.Balance); err != nil {
		return domain.Account{}, err
	}

	accType := strings.TrimSpace(input.Type)
	if accType == "" {
		accType = defaultAccountType
	}

	acc := domain.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      accType,
		Balance:   input.Balance,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ledger.CreateAccount(ctx, &acc); err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	acc, err := s.ledger.GetAccount(ctx, id)
	if err != nil {
		return domain.Account{}, notFound("account", err)
	}
	return *acc, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.ledger.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Transactions lists the ledger entries of one account, newest first.
func (s *AccountService) Transactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return nil, notFound("account", err)
	}
	txs, err := s.ledger.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
