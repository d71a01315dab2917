package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance-dashboard/domain"
	"finance-dashboard/repository"
)

func TestAccountService_CreateAndList(t *testing.T) {

	ledger := repository.NewLedgerRepositoryMemory()
	service := NewAccountService(ledger)
	ctx := context.Background()

	acc, err := service.Create(ctx, domain.AccountInput{Name: " Savings ", Balance: 250})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.ID == "" {
		t.Errorf("expected generated id")
	}
	if acc.Name != "Savings" || acc.Type != "checking" {
		t.Errorf("unexpected account: %+v", acc)
	}

	if _, err := service.Create(ctx, domain.AccountInput{Name: "Card", Type: "credit"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accounts, err := service.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[0].Name != "Card" {
		t.Errorf("expected accounts sorted by name, got %+v", accounts)
	}

	got, err := service.Get(ctx, acc.ID)
	if err != nil || got.Balance != 250 {
		t.Errorf("expected stored account, got %+v (%v)", got, err)
	}
}

func TestAccountService_Validation(t *testing.T) {

	service := NewAccountService(repository.NewLedgerRepositoryMemory())

	if _, err := service.Create(context.Background(), domain.AccountInput{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}
	if _, err := service.Create(context.Background(), domain.AccountInput{Name: "x", Balance: MaxDebtAmount * 2}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for huge balance, got %v", err)
	}
}

func TestAccountService_Transactions(t *testing.T) {

	ledger := repository.NewLedgerRepositoryMemory()
	service := NewAccountService(ledger)
	ctx := context.Background()

	acc, err := service.Create(ctx, domain.AccountInput{Name: "Checking", Balance: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, amount := range []float64{-2.5, 7} {
		tx := &domain.Transaction{
			ID:        string(rune('a' + i)),
			Amount:    amount,
			Date:      date(2024, time.March, 1+i),
			AccountID: acc.ID,
		}
		if err := ledger.PostTransaction(ctx, tx); err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	txs, err := service.Transactions(ctx, acc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 || txs[0].Amount != 7 {
		t.Errorf("expected newest first, got %+v", txs)
	}

	if _, err := service.Transactions(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := service.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
