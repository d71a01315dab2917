package repository

import (
	"time"

	"finance-dashboard/domain"
)

type accountModel struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"size:100;not null"`
	Type      string  `gorm:"size:50;not null;default:checking"`
	Balance   float64 `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt time.Time
}

func (accountModel) TableName() string { return "accounts" }

type transactionModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Description string    `gorm:"size:100;not null"`
	Amount      float64   `gorm:"type:decimal(14,2);not null"`
	Date        time.Time `gorm:"index;not null"`
	AccountID   string    `gorm:"size:36;index;not null"`
	CategoryID  *string   `gorm:"size:36"`
	RecurringID *string   `gorm:"size:36;index"`
}

func (transactionModel) TableName() string { return "transactions" }

type recurringModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:100;not null"`
	Amount      float64   `gorm:"type:decimal(14,2);not null"`
	Frequency   string    `gorm:"size:10;not null"`
	StartDate   time.Time `gorm:"not null"`
	NextDueDate time.Time `gorm:"index;not null"`
	EndDate     *time.Time
	AccountID   string   `gorm:"size:36;index;not null"`
	CategoryID  *string  `gorm:"size:36"`
	IsActive    bool     `gorm:"index;not null"`
	PaymentType string   `gorm:"size:10;not null;default:standard"`
	TotalAmount *float64 `gorm:"type:decimal(14,2)"`
	PaidAmount  float64  `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (recurringModel) TableName() string { return "recurring_transactions" }

func toAccountModel(acc *domain.Account) accountModel {
	return accountModel{
		ID:        acc.ID,
		Name:      acc.Name,
		Type:      acc.Type,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
	}
}

func (m accountModel) toDomain() domain.Account {
	return domain.Account{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
	}
}

func toTransactionModel(tx *domain.Transaction) transactionModel {
	return transactionModel{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Date:        tx.Date,
		AccountID:   tx.AccountID,
		CategoryID:  tx.CategoryID,
		RecurringID: tx.RecurringID,
	}
}

func (m transactionModel) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:          m.ID,
		Description: m.Description,
		Amount:      m.Amount,
		Date:        m.Date,
		AccountID:   m.AccountID,
		CategoryID:  m.CategoryID,
		RecurringID: m.RecurringID,
	}
}

func toRecurringModel(rt *domain.RecurringTransaction) recurringModel {
	return recurringModel{
		ID:          rt.ID,
		Name:        rt.Name,
		Amount:      rt.Amount,
		Frequency:   string(rt.Frequency),
		StartDate:   rt.StartDate,
		NextDueDate: rt.NextDueDate,
		EndDate:     rt.EndDate,
		AccountID:   rt.AccountID,
		CategoryID:  rt.CategoryID,
		IsActive:    rt.IsActive,
		PaymentType: string(rt.PaymentType),
		TotalAmount: rt.TotalAmount,
		PaidAmount:  rt.PaidAmount,
		CreatedAt:   rt.CreatedAt,
		UpdatedAt:   rt.UpdatedAt,
	}
}

func (m recurringModel) toDomain() domain.RecurringTransaction {
	return domain.RecurringTransaction{
		ID:          m.ID,
		Name:        m.Name,
		Amount:      m.Amount,
		Frequency:   domain.Frequency(m.Frequency),
		StartDate:   m.StartDate,
		NextDueDate: m.NextDueDate,
		EndDate:     m.EndDate,
		AccountID:   m.AccountID,
		CategoryID:  m.CategoryID,
		IsActive:    m.IsActive,
		PaymentType: domain.PaymentType(m.PaymentType),
		TotalAmount: m.TotalAmount,
		PaidAmount:  m.PaidAmount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func recurringModelsToDomain(models []recurringModel) []domain.RecurringTransaction {
	out := make([]domain.RecurringTransaction, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out
}
