package execution

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func wantCode(t *testing.T, err error, code ValidationCode) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, verr.Code, verr)
	}
}

func TestValidateIntentMarket(t *testing.T) {
	v, err := ValidateIntent(Intent{
		Symbol: "btcusdt", Side: "buy", Type: "market", Quantity: d("0.001"),
	})
	if err != nil {
		t.Fatalf("valid market intent rejected: %v", err)
	}
	if v.Symbol != "BTCUSDT" || v.Side != domain.SideBuy || v.Type != domain.OrderTypeMarket {
		t.Errorf("normalization failed: %+v", v)
	}
}

func TestValidateIntentRejections(t *testing.T) {
	tests := []struct {
		name string
		in   Intent
		code ValidationCode
	}{
		{
			"empty symbol",
			Intent{Side: "BUY", Type: "MARKET", Quantity: d("1")},
			CodeInvalidSymbol,
		},
		{
			"malformed symbol",
			Intent{Symbol: "BTC/USDT", Side: "BUY", Type: "MARKET", Quantity: d("1")},
			CodeInvalidSymbol,
		},
		{
			"symbol too short",
			Intent{Symbol: "BTC", Side: "BUY", Type: "MARKET", Quantity: d("1")},
			CodeInvalidSymbol,
		},
		{
			"bad side",
			Intent{Symbol: "BTCUSDT", Side: "LONG", Type: "MARKET", Quantity: d("1")},
			CodeInvalidSide,
		},
		{
			"bad type",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "TRAILING", Quantity: d("1")},
			CodeInvalidOrderType,
		},
		{
			"zero quantity",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "MARKET"},
			CodeInvalidQuantity,
		},
		{
			"negative quantity",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "MARKET", Quantity: d("-0.5")},
			CodeInvalidQuantity,
		},
		{
			"market with price",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "MARKET", Quantity: d("1"), LimitPrice: d("65000")},
			CodeInvalidPrice,
		},
		{
			"limit without price",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "LIMIT", Quantity: d("1")},
			CodeInvalidPrice,
		},
		{
			"limit with negative price",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "LIMIT", Quantity: d("1"), LimitPrice: d("-1")},
			CodeInvalidPrice,
		},
		{
			"limit with stop price",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "LIMIT", Quantity: d("1"), LimitPrice: d("65000"), StopPrice: d("64000")},
			CodeInvalidStopPrice,
		},
		{
			"stop-limit without stop",
			Intent{Symbol: "BTCUSDT", Side: "SELL", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("64000")},
			CodeInvalidStopPrice,
		},
		{
			"stop-limit without limit",
			Intent{Symbol: "BTCUSDT", Side: "SELL", Type: "STOP_LIMIT", Quantity: d("1"), StopPrice: d("64000")},
			CodeInvalidPrice,
		},
		{
			"sell stop above limit",
			Intent{Symbol: "BTCUSDT", Side: "SELL", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("64000"), StopPrice: d("64500")},
			CodeInvalidStopPrice,
		},
		{
			"buy stop below limit",
			Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("66000"), StopPrice: d("65500")},
			CodeInvalidStopPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateIntent(tt.in)
			if err == nil {
				t.Fatal("expected rejection, got nil")
			}
			wantCode(t, err, tt.code)
		})
	}
}

func TestValidateIntentStopLimitAccepted(t *testing.T) {
	// Sell: stop at or below limit. Buy: stop at or above limit.
	tests := []struct {
		name string
		in   Intent
	}{
		{"sell stop below limit", Intent{Symbol: "BTCUSDT", Side: "SELL", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("64000"), StopPrice: d("63500")}},
		{"sell stop equals limit", Intent{Symbol: "BTCUSDT", Side: "SELL", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("64000"), StopPrice: d("64000")}},
		{"buy stop above limit", Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("66000"), StopPrice: d("66500")}},
		{"buy stop equals limit", Intent{Symbol: "BTCUSDT", Side: "BUY", Type: "STOP_LIMIT", Quantity: d("1"), LimitPrice: d("66000"), StopPrice: d("66000")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateIntent(tt.in); err != nil {
				t.Errorf("expected acceptance, got %v", err)
			}
		})
	}
}

func TestValidateIntentQuantityCheckedForAllTypes(t *testing.T) {
	for _, typ := range []string{"MARKET", "LIMIT", "STOP_LIMIT"} {
		in := Intent{Symbol: "BTCUSDT", Side: "BUY", Type: typ, LimitPrice: d("66000"), StopPrice: d("66500")}
		if typ == "MARKET" {
			in.LimitPrice, in.StopPrice = decimal.Zero, decimal.Zero
		}
		_, err := ValidateIntent(in)
		if err == nil {
			t.Fatalf("%s with zero quantity accepted", typ)
		}
		wantCode(t, err, CodeInvalidQuantity)
	}
}

func TestValidatePrecision(t *testing.T) {
	meta := domain.SymbolInfo{Symbol: "BTCUSDT", QuantityPrecision: 3, PricePrecision: 2}

	ok := ValidatedOrder{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: domain.OrderTypeLimit,
		Quantity: d("0.001"), LimitPrice: d("65000.25"),
	}
	if err := ValidatePrecision(ok, meta); err != nil {
		t.Errorf("precise order rejected: %v", err)
	}

	badQty := ok
	badQty.Quantity = d("0.0015")
	err := ValidatePrecision(badQty, meta)
	if err == nil {
		t.Fatal("over-precise quantity accepted")
	}
	wantCode(t, err, CodePrecision)

	badPrice := ok
	badPrice.LimitPrice = d("65000.255")
	err = ValidatePrecision(badPrice, meta)
	if err == nil {
		t.Fatal("over-precise price accepted")
	}
	wantCode(t, err, CodePrecision)

	// Market orders skip the price check entirely.
	market := ValidatedOrder{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: domain.OrderTypeMarket,
		Quantity: d("0.001"),
	}
	if err := ValidatePrecision(market, meta); err != nil {
		t.Errorf("market order rejected: %v", err)
	}
}
