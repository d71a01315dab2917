package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"finance-dashboard/domain"
	"finance-dashboard/metrics"
	"finance-dashboard/repository"
)

// DebtPlanService validates requests for the debt calculator and caches results.
type DebtPlanService struct {
	calc    *DebtCalculator
	cache   repository.CacheRepository
	metrics *metrics.Metrics
}

func NewDebtPlanService(
	calc *DebtCalculator,
	cache repository.CacheRepository,
	m *metrics.Metrics,
) *DebtPlanService {
	return &DebtPlanService{calc: calc, cache: cache, metrics: m}
}

// Calculate solves the plan. Only malformed input (unknown frequency or mode,
// out of range numbers) is an error; every other outcome is a result status.
func (s *DebtPlanService) Calculate(
	ctx context.Context,
	input domain.DebtPlanInput,
) (domain.DebtPlanResult, error) {

	if err := validatePlanInput(input); err != nil {
		return domain.DebtPlanResult{}, err
	}

	key := s.cacheKey(input)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.DebtPlanResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			s.metrics.ObserveCacheHit()
			return result, nil
		}
		slog.WarnContext(ctx, "discarding unreadable cached debt calculation", "key", key)
	}

	result := s.calc.Solve(input)
	s.metrics.ObserveCalculation(string(input.SolveMode), string(result.Status))

	// caching is best effort
	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), DebtCalculationCacheTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache debt calculation", "error", err)
		}
	}

	return result, nil
}

func validatePlanInput(input domain.DebtPlanInput) error {
	if !IsValidFrequency(input.Frequency) {
		return validationError("unknown frequency %q", input.Frequency)
	}
	if input.SolveMode != domain.SolveByAmount && input.SolveMode != domain.SolveByDate {
		return validationError("unknown solve mode %q", input.SolveMode)
	}
	if err := checkAmount("total amount", input.TotalAmount); err != nil {
		return err
	}
	if err := checkAmount("paid amount", input.PaidAmount); err != nil {
		return err
	}
	if input.PaidAmount < 0 {
		return validationError("paid amount cannot be negative")
	}
	if input.PaymentAmount != nil {
		if err := checkAmount("payment amount", *input.PaymentAmount); err != nil {
			return err
		}
		// zero and negative payments are reported as an incomplete plan
		if p := *input.PaymentAmount; p > 0 && p < MinPaymentAmount {
			return validationError("payment amount must be at least %.2f", MinPaymentAmount)
		}
	}
	return nil
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return validationError("%s must be a finite number", field)
	}
	if v > MaxDebtAmount {
		return validationError("%s exceeds the maximum of %.2f", field, MaxDebtAmount)
	}
	return nil
}

func IsValidFrequency(f domain.Frequency) bool {
	switch f {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyYearly:
		return true
	}
	return false
}

// cacheKey hashes every input that can change the result. A missing start
// date resolves to today, so today's date is part of the key in that case.
func (s *DebtPlanService) cacheKey(input domain.DebtPlanInput) string {
	start := input.StartDate
	if start.IsZero() {
		start = s.calc.now()
	}

	payment := "-"
	if input.PaymentAmount != nil {
		payment = strconv.FormatFloat(*input.PaymentAmount, 'f', -1, 64)
	}
	end := "-"
	if input.EndDate != nil {
		end = input.EndDate.Format(DateLayout)
	}

	raw := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		strconv.FormatFloat(input.TotalAmount, 'f', -1, 64),
		strconv.FormatFloat(input.PaidAmount, 'f', -1, 64),
		input.Frequency,
		input.SolveMode,
		start.Format(DateLayout),
		payment,
		end,
	)
	return debtCalculationCacheKey + strconv.FormatUint(xxhash.Sum64String(raw), 16)
}
