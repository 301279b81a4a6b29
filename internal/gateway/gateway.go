// Package gateway defines the capability interfaces the execution core
// consumes: the exchange connectivity collaborator, the activity logger,
// and an optional live price source. Concrete implementations live in
// internal/infra/binance and internal/logging; the core never depends on
// them directly, which keeps it testable without network access.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

// Gateway is the exchange connectivity collaborator. All calls are
// synchronous round-trips over an authenticated transport; authentication,
// signing, and transport concerns belong to the implementation.
type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderAck, error)
	CancelOrder(ctx context.Context, symbol, orderID string) (OrderAck, error)
	QueryOrder(ctx context.Context, symbol, orderID string) (OrderAck, error)
	ListOpenOrders(ctx context.Context, symbol string) ([]OrderAck, error)
	GetAccountInfo(ctx context.Context) (AccountInfo, error)
	GetSymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, error)
}

// ActivityLogger records every gateway interaction. Calls are
// fire-and-forget: a logging failure must never abort a trading operation.
type ActivityLogger interface {
	LogRequest(method string, params any)
	LogResponse(method string, params, result any)
	LogError(method string, params any, err error)
}

// PriceSource exposes the last observed market price for a symbol.
// Implementations may return ok=false when no price has been seen yet.
type PriceSource interface {
	LastPrice(symbol string) (decimal.Decimal, bool)
}
