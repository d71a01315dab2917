package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"finance-dashboard/domain"
)

// RecurringRepositoryMemory is an in-memory implementation of RecurringRepository.
type RecurringRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.RecurringTransaction
}

// NewRecurringRepositoryMemory creates a new in-memory recurring repository.
func NewRecurringRepositoryMemory() *RecurringRepositoryMemory {
	return &RecurringRepositoryMemory{
		data: make(map[string]domain.RecurringTransaction),
	}
}

func (r *RecurringRepositoryMemory) Create(_ context.Context, rt *domain.RecurringTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[rt.ID] = cloneRecurring(*rt)
	return nil
}

func (r *RecurringRepositoryMemory) Update(_ context.Context, rt *domain.RecurringTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[rt.ID]; !ok {
		return ErrNotFound
	}
	r.data[rt.ID] = cloneRecurring(*rt)
	return nil
}

func (r *RecurringRepositoryMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *RecurringRepositoryMemory) GetByID(_ context.Context, id string) (*domain.RecurringTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneRecurring(rt)
	return &out, nil
}

func (r *RecurringRepositoryMemory) List(_ context.Context) ([]domain.RecurringTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RecurringTransaction, 0, len(r.data))
	for _, rt := range r.data {
		out = append(out, cloneRecurring(rt))
	}
	sortByNextDue(out)
	return out, nil
}

func (r *RecurringRepositoryMemory) ListDue(_ context.Context, day time.Time) ([]domain.RecurringTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.RecurringTransaction{}
	for _, rt := range r.data {
		if rt.IsActive && !rt.NextDueDate.After(day) {
			out = append(out, cloneRecurring(rt))
		}
	}
	sortByNextDue(out)
	return out, nil
}

func sortByNextDue(items []domain.RecurringTransaction) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].NextDueDate.Equal(items[j].NextDueDate) {
			return items[i].ID < items[j].ID
		}
		return items[i].NextDueDate.Before(items[j].NextDueDate)
	})
}

// cloneRecurring copies the pointer fields so callers cannot mutate stored state.
func cloneRecurring(rt domain.RecurringTransaction) domain.RecurringTransaction {
	if rt.EndDate != nil {
		end := *rt.EndDate
		rt.EndDate = &end
	}
	if rt.CategoryID != nil {
		cat := *rt.CategoryID
		rt.CategoryID = &cat
	}
	if rt.TotalAmount != nil {
		total := *rt.TotalAmount
		rt.TotalAmount = &total
	}
	return rt
}
