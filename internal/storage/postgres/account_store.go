package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

func (s *AccountStore) Balances(ctx context.Context) ([]*domain.Balance, error) {
	query := `
		SELECT exchange, account_id, available, available_change, currency,
			hold_value, hold_change, relation_event, relation_event_id,
			event_time, total, symbol, order_id, trade_id, updated_at
		FROM balance
		ORDER BY updated_at DESC
	`
	return queryAll(ctx, s.pool, "balances", query, scanBalance)
}

func (s *AccountStore) ActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	return queryAll(ctx, s.pool, "active orders",
		`SELECT exchange, order_id, symbol, side FROM orderactive`, scanOrder)
}

func (s *AccountStore) EventOrders(ctx context.Context) ([]*domain.Order, error) {
	return queryAll(ctx, s.pool, "event orders",
		`SELECT exchange, order_id, symbol, side FROM orderevent`, scanOrder)
}

func (s *AccountStore) PositionAssets(ctx context.Context) ([]*domain.PositionAsset, error) {
	query := `
		SELECT exchange, asset_symbol, asset_total, asset_available, asset_hold, updated_at
		FROM positionasset
		ORDER BY updated_at DESC
	`
	return queryAll(ctx, s.pool, "position assets", query, func(row pgx.Row) (*domain.PositionAsset, error) {
		var p domain.PositionAsset
		err := row.Scan(&p.Exchange, &p.AssetSymbol, &p.AssetTotal, &p.AssetAvailable, &p.AssetHold, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func (s *AccountStore) PositionDebts(ctx context.Context) ([]*domain.PositionDebt, error) {
	query := `
		SELECT exchange, debt_symbol, debt_value, updated_at
		FROM positiondebt
		ORDER BY updated_at DESC
	`
	return queryAll(ctx, s.pool, "position debts", query, func(row pgx.Row) (*domain.PositionDebt, error) {
		var p domain.PositionDebt
		if err := row.Scan(&p.Exchange, &p.DebtSymbol, &p.DebtValue, &p.UpdatedAt); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func (s *AccountStore) PositionRatios(ctx context.Context) ([]*domain.PositionRatio, error) {
	query := `
		SELECT exchange, debt_ratio, total_asset, margin_coefficient_total_asset, total_debt, updated_at
		FROM positionratio
		ORDER BY updated_at DESC
	`
	return queryAll(ctx, s.pool, "position ratios", query, func(row pgx.Row) (*domain.PositionRatio, error) {
		var p domain.PositionRatio
		err := row.Scan(&p.Exchange, &p.DebtRatio, &p.TotalAsset, &p.MarginCoefficientTotalAsset, &p.TotalDebt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func (s *AccountStore) Bots(ctx context.Context) ([]*domain.Bot, error) {
	query := `
		SELECT exchange, entry_id, exit_tp_id, exit_sl_id, balance, updated_at
		FROM bots
		ORDER BY updated_at DESC
	`
	return queryAll(ctx, s.pool, "bots", query, func(row pgx.Row) (*domain.Bot, error) {
		var b domain.Bot
		if err := row.Scan(&b.Exchange, &b.EntryID, &b.ExitTPID, &b.ExitSLID, &b.Balance, &b.UpdatedAt); err != nil {
			return nil, err
		}
		return &b, nil
	})
}

func (s *AccountStore) Events(ctx context.Context) ([]*domain.Event, error) {
	return queryAll(ctx, s.pool, "events",
		`SELECT exchange, msg, updated_at FROM events ORDER BY updated_at DESC`, scanEvent)
}

func (s *AccountStore) Errors(ctx context.Context) ([]*domain.Event, error) {
	return queryAll(ctx, s.pool, "errors",
		`SELECT exchange, msg, created_at FROM errors ORDER BY created_at DESC`, scanEvent)
}

func scanBalance(row pgx.Row) (*domain.Balance, error) {
	var b domain.Balance
	err := row.Scan(
		&b.Exchange, &b.AccountID, &b.Available, &b.AvailableChange, &b.Currency,
		&b.Hold, &b.HoldChange, &b.RelationEvent, &b.RelationEventID,
		&b.EventTime, &b.Total, &b.Symbol, &b.OrderID, &b.TradeID, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.Exchange, &o.OrderID, &o.Symbol, &o.Side); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(&e.Exchange, &e.Message, &e.Timestamp); err != nil {
		return nil, err
	}
	return &e, nil
}
