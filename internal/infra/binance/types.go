package binance

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
)

const (
	MainnetRestURL = "https://fapi.binance.com"
	TestnetRestURL = "https://testnet.binancefuture.com"
	MainnetWSURL   = "wss://fstream.binance.com/ws"
	TestnetWSURL   = "wss://fstream.binancefuture.com/ws"

	maxRetries  = 10
	readTimeout = 60 * time.Second
)

// apiError is the error envelope returned by the futures REST API.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// orderResponse is returned by the order create/cancel/query endpoints.
type orderResponse struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Price         string `json:"price"`
	StopPrice     string `json:"stopPrice"`
	AvgPrice      string `json:"avgPrice"`
	TimeInForce   string `json:"timeInForce"`
	Time          int64  `json:"time"`
	UpdateTime    int64  `json:"updateTime"`
}

// accountResponse is the subset of /fapi/v2/account the client consumes.
type accountResponse struct {
	TotalWalletBalance    string `json:"totalWalletBalance"`
	AvailableBalance      string `json:"availableBalance"`
	TotalUnrealizedProfit string `json:"totalUnrealizedProfit"`
}

// exchangeInfoResponse carries per-symbol trading rules.
type exchangeInfoResponse struct {
	Symbols []exchangeSymbol `json:"symbols"`
}

type exchangeSymbol struct {
	Symbol            string           `json:"symbol"`
	Status            string           `json:"status"`
	BaseAsset         string           `json:"baseAsset"`
	QuoteAsset        string           `json:"quoteAsset"`
	PricePrecision    int32            `json:"pricePrecision"`
	QuantityPrecision int32            `json:"quantityPrecision"`
	Filters           []exchangeFilter `json:"filters"`
}

type exchangeFilter struct {
	FilterType string `json:"filterType"`
	MinQty     string `json:"minQty"`
	StepSize   string `json:"stepSize"`
	TickSize   string `json:"tickSize"`
}

type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// markPriceEvent is a <symbol>@markPrice stream payload.
type markPriceEvent struct {
	EventType string `json:"e"` // "markPriceUpdate"
	Symbol    string `json:"s"`
	MarkPrice string `json:"p"`
	EventTime int64  `json:"E"`
}

type subscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int      `json:"id"`
}

// parseDecimal tolerates the empty strings the API uses for absent values.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func ackFromOrderResponse(r orderResponse) gateway.OrderAck {
	return gateway.OrderAck{
		OrderID:       strconv.FormatInt(r.OrderID, 10),
		ClientOrderID: r.ClientOrderID,
		Symbol:        r.Symbol,
		Side:          r.Side,
		Type:          r.Type,
		RawStatus:     r.Status,
		Quantity:      parseDecimal(r.OrigQty),
		ExecutedQty:   parseDecimal(r.ExecutedQty),
		Price:         parseDecimal(r.Price),
		StopPrice:     parseDecimal(r.StopPrice),
		AvgPrice:      parseDecimal(r.AvgPrice),
		CreatedAt:     parseMillis(r.Time),
		UpdatedAt:     parseMillis(r.UpdateTime),
	}
}
