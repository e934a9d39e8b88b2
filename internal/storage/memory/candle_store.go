package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// CandleStore is an in-memory implementation of storage.CandleStore.
type CandleStore struct {
	mu       sync.RWMutex
	bySymbol map[string][]*storedCandle // kept sorted by ts ASC
	keys     map[candleKey]struct{}
}

type candleKey struct {
	exchange  string
	symbol    string
	interval  string
	timestamp int64
}

type storedCandle struct {
	ts  int64
	raw domain.RawCandle
}

// NewCandleStore creates a new in-memory candle store.
func NewCandleStore() *CandleStore {
	return &CandleStore{
		bySymbol: make(map[string][]*storedCandle),
		keys:     make(map[candleKey]struct{}),
	}
}

// InsertBulk adds multiple candles. Fails entire batch on duplicate.
// Timestamps must be integer unix seconds.
func (s *CandleStore) InsertBulk(_ context.Context, candles []*domain.RawCandle) error {
	if len(candles) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]*storedCandle, 0, len(candles))
	batchKeys := make(map[candleKey]struct{}, len(candles))

	// First pass: validate and check for duplicates (existing + intra-batch)
	for _, c := range candles {
		if c == nil || c.Symbol == "" {
			return storage.ErrInvalidInput
		}
		ts, err := strconv.ParseInt(c.Timestamp, 10, 64)
		if err != nil {
			return storage.ErrInvalidInput
		}
		key := candleKey{c.Exchange, c.Symbol, c.Interval, ts}
		if _, exists := s.keys[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
		batch = append(batch, &storedCandle{ts: ts, raw: *c})
	}

	// Second pass: insert all
	touched := make(map[string]struct{})
	for _, sc := range batch {
		s.bySymbol[sc.raw.Symbol] = append(s.bySymbol[sc.raw.Symbol], sc)
		s.keys[candleKey{sc.raw.Exchange, sc.raw.Symbol, sc.raw.Interval, sc.ts}] = struct{}{}
		touched[sc.raw.Symbol] = struct{}{}
	}
	for symbol := range touched {
		series := s.bySymbol[symbol]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].ts < series[j].ts
		})
	}

	return nil
}

// GetBySymbol retrieves all candles for a symbol, ordered by timestamp ASC.
func (s *CandleStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.RawCandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyCandles(s.bySymbol[symbol]), nil
}

// GetLatest retrieves the most recent limit candles, ordered by timestamp ASC.
func (s *CandleStore) GetLatest(_ context.Context, symbol string, limit int) ([]*domain.RawCandle, error) {
	if limit < 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.bySymbol[symbol]
	if len(series) > limit {
		series = series[len(series)-limit:]
	}
	return copyCandles(series), nil
}

// GetLatestPerSymbol retrieves the most recent candle of every symbol, ordered by symbol.
func (s *CandleStore) GetLatestPerSymbol(_ context.Context) ([]*domain.RawCandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RawCandle, 0, len(s.bySymbol))
	for _, symbol := range s.sortedSymbols() {
		series := s.bySymbol[symbol]
		c := series[len(series)-1].raw
		result = append(result, &c)
	}
	return result, nil
}

// Symbols returns the distinct symbols that have candles, sorted.
func (s *CandleStore) Symbols(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedSymbols(), nil
}

func (s *CandleStore) sortedSymbols() []string {
	symbols := make([]string, 0, len(s.bySymbol))
	for symbol, series := range s.bySymbol {
		if len(series) > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

func copyCandles(series []*storedCandle) []*domain.RawCandle {
	result := make([]*domain.RawCandle, len(series))
	for i, sc := range series {
		c := sc.raw
		result[i] = &c
	}
	return result
}

var _ storage.CandleStore = (*CandleStore)(nil)
