package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// MarketSnapshot is the reference data held by a MarketStore.
type MarketSnapshot struct {
	Tickers    []*domain.Ticker
	Currencies []*domain.Currency
	Lends      []*domain.Lend
	Borrows    []*domain.Borrow
}

// MarketStore is an in-memory implementation of storage.MarketStore.
type MarketStore struct {
	mu   sync.RWMutex
	data MarketSnapshot
}

// NewMarketStore creates an empty in-memory market store.
func NewMarketStore() *MarketStore {
	return &MarketStore{}
}

// Load replaces the stored reference data with a copy of snap.
func (s *MarketStore) Load(snap MarketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = MarketSnapshot{
		Tickers:    copyRows(snap.Tickers),
		Currencies: copyRows(snap.Currencies),
		Lends:      copyRows(snap.Lends),
		Borrows:    copyRows(snap.Borrows),
	}
}

// Tickers returns tickers in load order.
func (s *MarketStore) Tickers(_ context.Context) ([]*domain.Ticker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.data.Tickers), nil
}

// Currencies returns currencies, most recently updated first.
func (s *MarketStore) Currencies(_ context.Context) ([]*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := copyRows(s.data.Currencies)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// Lends returns the first loaded row of each currency, ordered by currency.
func (s *MarketStore) Lends(_ context.Context) ([]*domain.Lend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinctByCurrency(s.data.Lends, func(l *domain.Lend) string { return l.Currency }), nil
}

// LendsByCurrency returns every lend row of a currency.
func (s *MarketStore) LendsByCurrency(_ context.Context, currency string) ([]*domain.Lend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRows(s.data.Lends, func(l *domain.Lend) bool { return l.Currency == currency }), nil
}

// Borrows returns the first loaded row of each currency, ordered by currency.
func (s *MarketStore) Borrows(_ context.Context) ([]*domain.Borrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinctByCurrency(s.data.Borrows, func(b *domain.Borrow) string { return b.Currency }), nil
}

// BorrowsByCurrency returns every borrow row of a currency.
func (s *MarketStore) BorrowsByCurrency(_ context.Context, currency string) ([]*domain.Borrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRows(s.data.Borrows, func(b *domain.Borrow) bool { return b.Currency == currency }), nil
}

// copyRows returns a deep copy of a slice of row pointers.
func copyRows[T any](rows []*T) []*T {
	result := make([]*T, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		rowCopy := *r
		result = append(result, &rowCopy)
	}
	return result
}

func filterRows[T any](rows []*T, keep func(*T) bool) []*T {
	result := make([]*T, 0)
	for _, r := range rows {
		if r != nil && keep(r) {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}
	return result
}

func distinctByCurrency[T any](rows []*T, currency func(*T) string) []*T {
	seen := make(map[string]struct{})
	result := make([]*T, 0)
	for _, r := range rows {
		if r == nil {
			continue
		}
		c := currency(r)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		rowCopy := *r
		result = append(result, &rowCopy)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return currency(result[i]) < currency(result[j])
	})
	return result
}

var _ storage.MarketStore = (*MarketStore)(nil)
