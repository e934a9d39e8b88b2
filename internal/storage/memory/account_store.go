package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// AccountSnapshot is the account state held by an AccountStore.
type AccountSnapshot struct {
	Balances       []*domain.Balance
	ActiveOrders   []*domain.Order
	EventOrders    []*domain.Order
	PositionAssets []*domain.PositionAsset
	PositionDebts  []*domain.PositionDebt
	PositionRatios []*domain.PositionRatio
	Bots           []*domain.Bot
	Events         []*domain.Event
	Errors         []*domain.Event
}

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.RWMutex
	data AccountSnapshot
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

// Load replaces the stored account state with a copy of snap.
func (s *AccountStore) Load(snap AccountSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = AccountSnapshot{
		Balances:       copyRows(snap.Balances),
		ActiveOrders:   copyRows(snap.ActiveOrders),
		EventOrders:    copyRows(snap.EventOrders),
		PositionAssets: copyRows(snap.PositionAssets),
		PositionDebts:  copyRows(snap.PositionDebts),
		PositionRatios: copyRows(snap.PositionRatios),
		Bots:           copyRows(snap.Bots),
		Events:         copyRows(snap.Events),
		Errors:         copyRows(snap.Errors),
	}
}

func (s *AccountStore) Balances(_ context.Context) ([]*domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.Balances, func(b *domain.Balance) time.Time { return b.UpdatedAt }), nil
}

// ActiveOrders returns orders in load order.
func (s *AccountStore) ActiveOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.data.ActiveOrders), nil
}

// EventOrders returns orders in load order.
func (s *AccountStore) EventOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.data.EventOrders), nil
}

func (s *AccountStore) PositionAssets(_ context.Context) ([]*domain.PositionAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.PositionAssets, func(p *domain.PositionAsset) time.Time { return p.UpdatedAt }), nil
}

func (s *AccountStore) PositionDebts(_ context.Context) ([]*domain.PositionDebt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.PositionDebts, func(p *domain.PositionDebt) time.Time { return p.UpdatedAt }), nil
}

func (s *AccountStore) PositionRatios(_ context.Context) ([]*domain.PositionRatio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.PositionRatios, func(p *domain.PositionRatio) time.Time { return p.UpdatedAt }), nil
}

func (s *AccountStore) Bots(_ context.Context) ([]*domain.Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.Bots, func(b *domain.Bot) time.Time { return b.UpdatedAt }), nil
}

func (s *AccountStore) Events(_ context.Context) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.Events, eventTime), nil
}

func (s *AccountStore) Errors(_ context.Context) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.data.Errors, eventTime), nil
}

func eventTime(e *domain.Event) time.Time { return e.Timestamp }

// newestFirst copies rows and orders them by descending timestamp.
func newestFirst[T any](rows []*T, at func(*T) time.Time) []*T {
	result := copyRows(rows)
	sort.SliceStable(result, func(i, j int) bool {
		return at(result[i]).After(at(result[j]))
	})
	return result
}

var _ storage.AccountStore = (*AccountStore)(nil)
