package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// serve runs a store read and writes its result.
func serve[T any](s *Server, w http.ResponseWriter, r *http.Request, read func(ctx context.Context) (T, error)) {
	start := time.Now()
	data, err := read(r.Context())
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeData(w, start, data)
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.market.Tickers)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.symbols.GetAll)
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	serve(s, w, r, func(ctx context.Context) (*domain.Symbol, error) {
		return s.symbols.GetBySymbol(ctx, symbol)
	})
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.market.Currencies)
}

func (s *Server) handleLends(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.market.Lends)
}

func (s *Server) handleLendsByCurrency(w http.ResponseWriter, r *http.Request) {
	currency := r.PathValue("currency")
	serve(s, w, r, func(ctx context.Context) ([]*domain.Lend, error) {
		return s.market.LendsByCurrency(ctx, currency)
	})
}

func (s *Server) handleBorrows(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.market.Borrows)
}

func (s *Server) handleBorrowsByCurrency(w http.ResponseWriter, r *http.Request) {
	currency := r.PathValue("currency")
	serve(s, w, r, func(ctx context.Context) ([]*domain.Borrow, error) {
		return s.market.BorrowsByCurrency(ctx, currency)
	})
}

// handleLatestCandles returns the most recent candle of every symbol.
func (s *Server) handleLatestCandles(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.candles.GetLatestPerSymbol)
}

// handleSMASymbols lists the symbols an SMA sweep can run on.
func (s *Server) handleSMASymbols(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.candles.Symbols)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.Balances)
}

func (s *Server) handleActiveOrders(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.ActiveOrders)
}

func (s *Server) handleEventOrders(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.EventOrders)
}

func (s *Server) handlePositionAssets(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.PositionAssets)
}

func (s *Server) handlePositionDebts(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.PositionDebts)
}

func (s *Server) handlePositionRatios(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.PositionRatios)
}

func (s *Server) handleBots(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.Bots)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.Events)
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.account.Errors)
}

// handleDBStats returns database activity. Only the Postgres backend has statistics.
func (s *Server) handleDBStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.writeError(w, r, time.Now(), fmt.Errorf("database statistics: %w", storage.ErrNotFound))
		return
	}
	serve(s, w, r, s.stats.Stats)
}
