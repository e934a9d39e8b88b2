package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// SymbolStore is an in-memory implementation of storage.SymbolStore.
type SymbolStore struct {
	mu       sync.RWMutex
	byKey    map[string]*domain.Symbol // keyed by exchange|symbol
	bySymbol map[string]*domain.Symbol // first inserted row per symbol
}

// NewSymbolStore creates a new in-memory symbol store.
func NewSymbolStore() *SymbolStore {
	return &SymbolStore{
		byKey:    make(map[string]*domain.Symbol),
		bySymbol: make(map[string]*domain.Symbol),
	}
}

// Insert adds a symbol. Returns ErrDuplicateKey if (exchange, symbol) already exists.
func (s *SymbolStore) Insert(_ context.Context, sym *domain.Symbol) error {
	if sym == nil || sym.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sym.Exchange + "|" + sym.Symbol
	if _, exists := s.byKey[key]; exists {
		return storage.ErrDuplicateKey
	}

	symCopy := *sym
	s.byKey[key] = &symCopy
	if _, exists := s.bySymbol[sym.Symbol]; !exists {
		s.bySymbol[sym.Symbol] = &symCopy
	}
	return nil
}

// GetAll retrieves all symbols ordered by symbol then exchange.
func (s *SymbolStore) GetAll(_ context.Context) ([]*domain.Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Symbol, 0, len(s.byKey))
	for _, sym := range s.byKey {
		symCopy := *sym
		result = append(result, &symCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Symbol != result[j].Symbol {
			return result[i].Symbol < result[j].Symbol
		}
		return result[i].Exchange < result[j].Exchange
	})
	return result, nil
}

// GetBySymbol retrieves a symbol. Returns ErrNotFound if not exists.
func (s *SymbolStore) GetBySymbol(_ context.Context, symbol string) (*domain.Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym, exists := s.bySymbol[symbol]
	if !exists {
		return nil, storage.ErrNotFound
	}

	symCopy := *sym
	return &symCopy, nil
}

var _ storage.SymbolStore = (*SymbolStore)(nil)
