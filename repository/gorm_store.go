package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"finance-dashboard/domain"
)

type GormOptions struct {
	Driver          string // mysql or postgres
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool
}

// GormStore persists recurring items, accounts and transactions in a SQL
// database. It satisfies both RecurringRepository and LedgerRepository.
type GormStore struct {
	db *gorm.DB
}

func OpenGormStore(opts GormOptions) (*GormStore, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "mysql":
		dialector = mysql.Open(opts.DSN)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}

	level := gormlogger.Silent
	if opts.LogQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an already opened connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&accountModel{}, &transactionModel{}, &recurringModel{})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// recurring items

func (s *GormStore) Create(ctx context.Context, rt *domain.RecurringTransaction) error {
	m := toRecurringModel(rt)
	return s.db.WithContext(ctx).Create(&m).Error
}

func (s *GormStore) Update(ctx context.Context, rt *domain.RecurringTransaction) error {
	m := toRecurringModel(rt)
	res := s.db.WithContext(ctx).Model(&recurringModel{}).Where("id = ?", rt.ID).Select("*").Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when nothing changed
	var count int64
	if err := s.db.WithContext(ctx).Model(&recurringModel{}).Where("id = ?", rt.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&recurringModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*domain.RecurringTransaction, error) {
	var m recurringModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	rt := m.toDomain()
	return &rt, nil
}

func (s *GormStore) List(ctx context.Context) ([]domain.RecurringTransaction, error) {
	var models []recurringModel
	if err := s.db.WithContext(ctx).Order("next_due_date ASC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return recurringModelsToDomain(models), nil
}

func (s *GormStore) ListDue(ctx context.Context, day time.Time) ([]domain.RecurringTransaction, error) {
	var models []recurringModel
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND next_due_date <= ?", true, day).
		Order("next_due_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return recurringModelsToDomain(models), nil
}

// ledger

func (s *GormStore) CreateAccount(ctx context.Context, acc *domain.Account) error {
	m := toAccountModel(acc)
	return s.db.WithContext(ctx).Create(&m).Error
}

func (s *GormStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var m accountModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	acc := m.toDomain()
	return &acc, nil
}

func (s *GormStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var models []accountModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *GormStore) PostTransaction(ctx context.Context, tx *domain.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		res := db.Model(&accountModel{}).
			Where("id = ?", tx.AccountID).
			Update("balance", gorm.Expr("balance + ?", tx.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := db.Model(&accountModel{}).Where("id = ?", tx.AccountID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
		}
		m := toTransactionModel(tx)
		return db.Create(&m).Error
	})
}

func (s *GormStore) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	q := s.db.WithContext(ctx).Order("date DESC")
	if accountID != "" {
		q = q.Where("account_id = ?", accountID)
	}
	var models []transactionModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
