package execution

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

// Intent is an operator-specified desired trade before validation.
// Side and Type are free-form strings; the validator normalizes them.
type Intent struct {
	Symbol     string
	Side       string
	Type       string
	Quantity   decimal.Decimal
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
}

// ValidatedOrder is an intent that passed all local checks, with every
// field in canonical form.
type ValidatedOrder struct {
	Symbol     string
	Side       domain.Side
	Type       domain.OrderType
	Quantity   decimal.Decimal
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
}

// Trading pairs are base+quote concatenations, e.g. BTCUSDT.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{5,20}$`)

// normalizeSymbol canonicalizes operator-typed symbols before they reach
// the exchange.
func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateIntent runs the deterministic, metadata-free checks in order;
// the first failure wins. Pure: no I/O.
//
// Stop/limit relation follows the exchange convention: a SELL stop-limit
// requires stopPrice <= limitPrice, a BUY stop-limit requires
// stopPrice >= limitPrice.
func ValidateIntent(in Intent) (ValidatedOrder, error) {
	symbol := normalizeSymbol(in.Symbol)
	if symbol == "" {
		return ValidatedOrder{}, invalid(CodeInvalidSymbol, "symbol", "symbol is required")
	}
	if !symbolPattern.MatchString(symbol) {
		return ValidatedOrder{}, invalid(CodeInvalidSymbol, "symbol",
			fmt.Sprintf("%q is not a valid trading pair", in.Symbol))
	}

	side, ok := domain.ParseSide(in.Side)
	if !ok {
		return ValidatedOrder{}, invalid(CodeInvalidSide, "side",
			fmt.Sprintf("%q is not BUY or SELL", in.Side))
	}

	typ, ok := domain.ParseOrderType(in.Type)
	if !ok {
		return ValidatedOrder{}, invalid(CodeInvalidOrderType, "type",
			fmt.Sprintf("%q is not MARKET, LIMIT or STOP_LIMIT", in.Type))
	}

	if !in.Quantity.IsPositive() {
		return ValidatedOrder{}, invalid(CodeInvalidQuantity, "quantity",
			"quantity must be a positive number")
	}

	switch typ {
	case domain.OrderTypeMarket:
		if !in.LimitPrice.IsZero() || !in.StopPrice.IsZero() {
			return ValidatedOrder{}, invalid(CodeInvalidPrice, "price",
				"market orders carry no price fields")
		}

	case domain.OrderTypeLimit:
		if !in.LimitPrice.IsPositive() {
			return ValidatedOrder{}, invalid(CodeInvalidPrice, "limitPrice",
				"limit price must be positive")
		}
		if !in.StopPrice.IsZero() {
			return ValidatedOrder{}, invalid(CodeInvalidStopPrice, "stopPrice",
				"limit orders carry no stop price")
		}

	case domain.OrderTypeStopLimit:
		if !in.LimitPrice.IsPositive() {
			return ValidatedOrder{}, invalid(CodeInvalidPrice, "limitPrice",
				"limit price must be positive")
		}
		if !in.StopPrice.IsPositive() {
			return ValidatedOrder{}, invalid(CodeInvalidStopPrice, "stopPrice",
				"stop price must be positive")
		}
		if side == domain.SideSell && in.StopPrice.GreaterThan(in.LimitPrice) {
			return ValidatedOrder{}, invalid(CodeInvalidStopPrice, "stopPrice",
				"sell stop-limit requires stopPrice <= limitPrice")
		}
		if side == domain.SideBuy && in.StopPrice.LessThan(in.LimitPrice) {
			return ValidatedOrder{}, invalid(CodeInvalidStopPrice, "stopPrice",
				"buy stop-limit requires stopPrice >= limitPrice")
		}
	}

	return ValidatedOrder{
		Symbol:     symbol,
		Side:       side,
		Type:       typ,
		Quantity:   in.Quantity,
		LimitPrice: in.LimitPrice,
		StopPrice:  in.StopPrice,
	}, nil
}

// ValidatePrecision checks quantity and price decimal places against the
// symbol's declared precision. Pure: the metadata is passed in by the
// caller, which obtained it through the gateway.
func ValidatePrecision(v ValidatedOrder, meta domain.SymbolInfo) error {
	if exceedsPrecision(v.Quantity, meta.QuantityPrecision) {
		return invalid(CodePrecision, "quantity",
			fmt.Sprintf("quantity %s exceeds %s precision of %d decimals",
				v.Quantity, meta.Symbol, meta.QuantityPrecision))
	}
	if v.Type == domain.OrderTypeLimit || v.Type == domain.OrderTypeStopLimit {
		if exceedsPrecision(v.LimitPrice, meta.PricePrecision) {
			return invalid(CodePrecision, "limitPrice",
				fmt.Sprintf("price %s exceeds %s precision of %d decimals",
					v.LimitPrice, meta.Symbol, meta.PricePrecision))
		}
	}
	if v.Type == domain.OrderTypeStopLimit {
		if exceedsPrecision(v.StopPrice, meta.PricePrecision) {
			return invalid(CodePrecision, "stopPrice",
				fmt.Sprintf("stop price %s exceeds %s precision of %d decimals",
					v.StopPrice, meta.Symbol, meta.PricePrecision))
		}
	}
	return nil
}

func exceedsPrecision(d decimal.Decimal, places int32) bool {
	return !d.Truncate(places).Equal(d)
}
