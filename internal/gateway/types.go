package gateway

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

// CreateOrderRequest is the normalized create-order payload. The shape
// follows the exchange convention per order type: MARKET carries symbol,
// side, type and quantity; LIMIT adds price and timeInForce; STOP_LIMIT
// adds stopPrice on top of that.
type CreateOrderRequest struct {
	Symbol        string
	Side          domain.Side
	Type          domain.OrderType
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	StopPrice     decimal.Decimal
	TimeInForce   string
	ClientOrderID string
}

// OrderAck is the exchange's view of an order, returned by create, cancel
// and query calls. RawStatus is the untranslated exchange status string.
type OrderAck struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
	Side          string
	Type          string
	RawStatus     string
	Quantity      decimal.Decimal
	ExecutedQty   decimal.Decimal
	Price         decimal.Decimal
	StopPrice     decimal.Decimal
	AvgPrice      decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountInfo is the raw balance view returned by the exchange.
type AccountInfo struct {
	TotalBalance     decimal.Decimal
	AvailableBalance decimal.Decimal
	UnrealizedPnl    decimal.Decimal
}
