package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finance-dashboard/domain"
	"finance-dashboard/metrics"
	"finance-dashboard/repository"
)

type RecurringService struct {
	repo    repository.RecurringRepository
	ledger  repository.LedgerRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRecurringService(
	repo repository.RecurringRepository,
	ledger repository.LedgerRepository,
	m *metrics.Metrics,
) *RecurringService {
	return NewRecurringServiceWithClock(repo, ledger, m, time.Now)
}

func NewRecurringServiceWithClock(
	repo repository.RecurringRepository,
	ledger repository.LedgerRepository,
	m *metrics.Metrics,
	now func() time.Time,
) *RecurringService {
	return &RecurringService{repo: repo, ledger: ledger, metrics: m, now: now}
}

func (s *RecurringService) Create(
	ctx context.Context,
	input domain.RecurringInput,
) (domain.RecurringView, error) {

	input, err := s.normalize(ctx, input)
	if err != nil {
		return domain.RecurringView{}, err
	}

	now := s.now()
	rt := &domain.RecurringTransaction{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
	}
	s.apply(rt, input, now)

	if err := s.repo.Create(ctx, rt); err != nil {
		return domain.RecurringView{}, fmt.Errorf("create recurring item: %w", err)
	}
	return s.view(ctx, *rt), nil
}

func (s *RecurringService) Update(
	ctx context.Context,
	id string,
	input domain.RecurringInput,
) (domain.RecurringView, error) {

	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.RecurringView{}, notFound("recurring item", err)
	}

	input, err = s.normalize(ctx, input)
	if err != nil {
		return domain.RecurringView{}, err
	}

	s.apply(rt, input, s.now())
	if err := s.repo.Update(ctx, rt); err != nil {
		return domain.RecurringView{}, notFound("recurring item", err)
	}
	return s.view(ctx, *rt), nil
}

func (s *RecurringService) Get(ctx context.Context, id string) (domain.RecurringView, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.RecurringView{}, notFound("recurring item", err)
	}
	return s.view(ctx, *rt), nil
}

func (s *RecurringService) List(ctx context.Context) ([]domain.RecurringView, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	views := make([]domain.RecurringView, 0, len(items))
	for _, rt := range items {
		views = append(views, s.view(ctx, rt))
	}
	return views, nil
}

func (s *RecurringService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound("recurring item", err)
	}
	return nil
}

// Toggle flips the active flag.
func (s *RecurringService) Toggle(ctx context.Context, id string) (domain.RecurringView, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.RecurringView{}, notFound("recurring item", err)
	}
	rt.IsActive = !rt.IsActive
	rt.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rt); err != nil {
		return domain.RecurringView{}, notFound("recurring item", err)
	}
	return s.view(ctx, *rt), nil
}

// ProcessDue posts a ledger transaction for every elapsed period of every
// active item, then moves the item's next due date past today. Items that
// pass their end date, or debts that are paid off, are deactivated.
// A failure on one item does not stop the others.
func (s *RecurringService) ProcessDue(ctx context.Context) (domain.ProcessResult, error) {
	var result domain.ProcessResult
	today := dateOnly(s.now())

	due, err := s.repo.ListDue(ctx, today)
	if err != nil {
		return result, fmt.Errorf("list due recurring items: %w", err)
	}

	var errs []error
	for i := range due {
		rt := &due[i]
		posted, postErr := s.processItem(ctx, rt, today)

		if posted > 0 {
			result.ProcessedItems++
			result.CreatedTransactions += posted
		}
		if !rt.IsActive {
			result.Deactivated++
		}

		rt.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, rt); err != nil {
			errs = append(errs, fmt.Errorf("save recurring item %s: %w", rt.ID, err))
			continue
		}
		if postErr != nil {
			errs = append(errs, postErr)
		}
	}

	s.metrics.ObserveProcessed(result.ProcessedItems, result.CreatedTransactions)
	if len(errs) > 0 {
		slog.ErrorContext(ctx, "recurring processing finished with errors", "errors", len(errs))
	}
	return result, errors.Join(errs...)
}

func (s *RecurringService) processItem(
	ctx context.Context,
	rt *domain.RecurringTransaction,
	today time.Time,
) (int, error) {

	posted := 0
	current := rt.NextDueDate

	for periods := 0; !dateOnly(current).After(today); periods++ {
		if periods >= MaxCatchUpPeriods {
			slog.WarnContext(ctx, "recurring catch-up limit reached", "id", rt.ID, "periods", periods)
			break
		}
		if rt.EndDate != nil && dateOnly(current).After(dateOnly(*rt.EndDate)) {
			rt.IsActive = false
			break
		}

		amount := rt.Amount
		var paid decimal.Decimal
		if rt.PaymentType == domain.PaymentDebt {
			remaining := remainingBalance(derefOr(rt.TotalAmount, 0), rt.PaidAmount)
			if !remaining.IsPositive() {
				rt.IsActive = false
				break
			}
			payment := decimal.Min(decimal.NewFromFloat(math.Abs(rt.Amount)), remaining)
			amount = payment.Neg().InexactFloat64()
			paid = decimal.NewFromFloat(rt.PaidAmount).Add(payment)
		}

		recurringID := rt.ID
		tx := &domain.Transaction{
			ID:          uuid.NewString(),
			Description: rt.Name,
			Amount:      amount,
			Date:        current,
			AccountID:   rt.AccountID,
			CategoryID:  rt.CategoryID,
			RecurringID: &recurringID,
		}
		if err := s.ledger.PostTransaction(ctx, tx); err != nil {
			rt.NextDueDate = current
			return posted, fmt.Errorf("post transaction for recurring item %s: %w", rt.ID, err)
		}
		posted++

		if rt.PaymentType == domain.PaymentDebt {
			rt.PaidAmount = paid.InexactFloat64()
		}
		current = nextPeriod(current, rt.Frequency)

		if rt.PaymentType == domain.PaymentDebt &&
			!remainingBalance(derefOr(rt.TotalAmount, 0), rt.PaidAmount).IsPositive() {
			rt.IsActive = false
			break
		}
	}

	rt.NextDueDate = current
	if rt.EndDate != nil && dateOnly(current).After(dateOnly(*rt.EndDate)) {
		rt.IsActive = false
	}
	return posted, nil
}

// normalize trims and validates input and applies the debt sign rule.
func (s *RecurringService) normalize(
	ctx context.Context,
	input domain.RecurringInput,
) (domain.RecurringInput, error) {

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, validationError("name is required")
	}
	if len(input.Name) > MaxNameLength {
		return input, validationError("name must be at most %d characters", MaxNameLength)
	}
	if !IsValidFrequency(input.Frequency) {
		return input, validationError("unknown frequency %q", input.Frequency)
	}
	if input.StartDate.IsZero() {
		return input, validationError("start date is required")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return input, validationError("end date cannot be before start date")
	}
	if err := checkAmount("amount", math.Abs(input.Amount)); err != nil {
		return input, err
	}
	if input.AccountID == "" {
		return input, validationError("account is required")
	}
	if _, err := s.ledger.GetAccount(ctx, input.AccountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return input, validationError("account %s does not exist", input.AccountID)
		}
		return input, fmt.Errorf("look up account: %w", err)
	}

	switch input.PaymentType {
	case "", domain.PaymentStandard:
		input.PaymentType = domain.PaymentStandard
		input.TotalAmount = nil
		input.PaidAmount = 0
	case domain.PaymentDebt:
		if input.TotalAmount == nil || *input.TotalAmount <= 0 {
			return input, validationError("total debt amount is required for debt payments")
		}
		if err := checkAmount("total amount", *input.TotalAmount); err != nil {
			return input, err
		}
		if input.PaidAmount < 0 {
			return input, validationError("paid amount cannot be negative")
		}
		if input.Amount == 0 {
			return input, validationError("payment amount could not be calculated, check your inputs")
		}
		// debt payments are always expenses
		input.Amount = -math.Abs(input.Amount)
	default:
		return input, validationError("unknown payment type %q", input.PaymentType)
	}

	return input, nil
}

func (s *RecurringService) apply(rt *domain.RecurringTransaction, input domain.RecurringInput, now time.Time) {
	rt.Name = input.Name
	rt.Amount = input.Amount
	rt.Frequency = input.Frequency
	rt.StartDate = input.StartDate
	rt.EndDate = input.EndDate
	rt.AccountID = input.AccountID
	rt.CategoryID = input.CategoryID
	rt.PaymentType = input.PaymentType
	rt.TotalAmount = input.TotalAmount
	rt.PaidAmount = input.PaidAmount
	rt.NextDueDate = NextDueDate(input.StartDate, input.Frequency, dateOnly(now))
	rt.UpdatedAt = now
}

func (s *RecurringService) view(ctx context.Context, rt domain.RecurringTransaction) domain.RecurringView {
	v := domain.RecurringView{
		ID:          rt.ID,
		Name:        rt.Name,
		Amount:      rt.Amount,
		Frequency:   rt.Frequency,
		StartDate:   rt.StartDate,
		NextDueDate: rt.NextDueDate,
		EndDate:     rt.EndDate,
		AccountID:   rt.AccountID,
		AccountName: "N/A",
		CategoryID:  rt.CategoryID,
		IsActive:    rt.IsActive,
		PaymentType: rt.PaymentType,
		TotalAmount: rt.TotalAmount,
		PaidAmount:  rt.PaidAmount,
	}

	if acc, err := s.ledger.GetAccount(ctx, rt.AccountID); err == nil {
		v.AccountName = acc.Name
	}

	if rt.PaymentType == domain.PaymentDebt && rt.TotalAmount != nil {
		remaining := remainingBalance(*rt.TotalAmount, rt.PaidAmount).InexactFloat64()
		progress := ProgressPercent(*rt.TotalAmount, rt.PaidAmount)
		left := PaymentsRemaining(remaining, math.Abs(rt.Amount))
		v.RemainingAmount = &remaining
		v.ProgressPercent = &progress
		v.PaymentsRemaining = &left
	}
	return v
}

// NextDueDate advances start one period at a time until it is not before today.
func NextDueDate(start time.Time, freq domain.Frequency, today time.Time) time.Time {
	next := start
	for i := 0; dateOnly(next).Before(today) && i < MaxCatchUpPeriods*10; i++ {
		next = nextPeriod(next, freq)
	}
	return next
}

// nextPeriod steps one period forward. Unlike AdvanceDate, month and year
// steps clamp to the last day of the target month (Jan 31 -> Feb 29).
func nextPeriod(date time.Time, freq domain.Frequency) time.Time {
	switch freq {
	case domain.FrequencyMonthly:
		return addMonthsClamped(date, 1)
	case domain.FrequencyYearly:
		return addMonthsClamped(date, 12)
	default:
		return AdvanceDate(date, freq, 1)
	}
}

func addMonthsClamped(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last),
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

func derefOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
