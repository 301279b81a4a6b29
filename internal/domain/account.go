package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is an immutable balance view captured at retrieval time.
// It is never cached beyond the call that produced it.
type AccountSnapshot struct {
	TotalBalance     decimal.Decimal
	AvailableBalance decimal.Decimal
	UnrealizedPnl    decimal.Decimal
	CapturedAt       time.Time
}

// SymbolInfo carries exchange metadata for a trading pair, used for
// precision validation and operator display.
type SymbolInfo struct {
	Symbol            string
	Status            string
	BaseAsset         string
	QuoteAsset        string
	LastPrice         decimal.Decimal
	MinQty            decimal.Decimal
	StepSize          decimal.Decimal
	TickSize          decimal.Decimal
	QuantityPrecision int32
	PricePrecision    int32
}
