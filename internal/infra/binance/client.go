// Package binance implements the exchange gateway against the Binance
// USDⓈ-M futures REST and websocket APIs.
package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
	"github.com/ShoyebRampure/binance-trading-bot/internal/infra"
)

// Client is the authenticated futures REST client. It satisfies
// gateway.Gateway; the execution core only sees that interface.
type Client struct {
	baseURL    string
	isTestnet  bool
	signer     *Signer
	httpClient *http.Client
	recvWindow int
	breaker    *infra.CircuitBreaker

	orderLimiter   *infra.RateLimiter
	accountLimiter *infra.RateLimiter
	marketLimiter  *infra.RateLimiter
}

// NewClient creates a futures REST client. The testnet flag selects the
// default endpoint; an explicit rest_url in the config wins.
func NewClient(cfg *infra.Config, testnet bool) *Client {
	baseURL := cfg.API.Binance.RestURL
	if baseURL == "" {
		if testnet {
			baseURL = TestnetRestURL
		} else {
			baseURL = MainnetRestURL
		}
	}

	return &Client{
		baseURL:    baseURL,
		isTestnet:  testnet,
		signer:     NewSigner(cfg.API.Binance.APIKey, cfg.API.Binance.SecretKey),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		recvWindow: cfg.API.Binance.RecvWindowMS,
		breaker:    infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("binance-rest")),

		orderLimiter:   infra.GetBinanceOrderLimiter(),
		accountLimiter: infra.GetBinanceAccountLimiter(),
		marketLimiter:  infra.GetBinanceMarketLimiter(),
	}
}

// Ping performs the connection self-test (connectivity plus account
// access), logging the outcome.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, "ping", http.MethodGet, "/fapi/v1/ping", url.Values{}, c.marketLimiter, false, &struct{}{}); err != nil {
		return err
	}
	var acct accountResponse
	if err := c.do(ctx, "getAccountInfo", http.MethodGet, "/fapi/v2/account", url.Values{}, c.accountLimiter, true, &acct); err != nil {
		return err
	}
	slog.Info("✅ exchange connection verified",
		slog.Bool("testnet", c.isTestnet),
		slog.String("walletBalance", acct.TotalWalletBalance))
	return nil
}

func (c *Client) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (gateway.OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", string(req.Side))
	params.Set("quantity", req.Quantity.String())
	if req.ClientOrderID != "" {
		params.Set("newClientOrderId", req.ClientOrderID)
	}

	switch req.Type {
	case domain.OrderTypeMarket:
		params.Set("type", "MARKET")
	case domain.OrderTypeLimit:
		params.Set("type", "LIMIT")
		params.Set("price", req.Price.String())
		params.Set("timeInForce", req.TimeInForce)
	case domain.OrderTypeStopLimit:
		// Futures stop-limit is type STOP: rests at price once stopPrice
		// triggers.
		params.Set("type", "STOP")
		params.Set("price", req.Price.String())
		params.Set("stopPrice", req.StopPrice.String())
		params.Set("timeInForce", req.TimeInForce)
	default:
		return gateway.OrderAck{}, fmt.Errorf("unsupported order type: %s", req.Type)
	}

	var resp orderResponse
	if err := c.do(ctx, "createOrder", http.MethodPost, "/fapi/v1/order", params, c.orderLimiter, true, &resp); err != nil {
		return gateway.OrderAck{}, err
	}
	return ackFromOrderResponse(resp), nil
}

func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) (gateway.OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", orderID)

	var resp orderResponse
	if err := c.do(ctx, "cancelOrder", http.MethodDelete, "/fapi/v1/order", params, c.orderLimiter, true, &resp); err != nil {
		return gateway.OrderAck{}, err
	}
	return ackFromOrderResponse(resp), nil
}

func (c *Client) QueryOrder(ctx context.Context, symbol, orderID string) (gateway.OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", orderID)

	var resp orderResponse
	if err := c.do(ctx, "queryOrder", http.MethodGet, "/fapi/v1/order", params, c.accountLimiter, true, &resp); err != nil {
		return gateway.OrderAck{}, err
	}
	return ackFromOrderResponse(resp), nil
}

func (c *Client) ListOpenOrders(ctx context.Context, symbol string) ([]gateway.OrderAck, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	var resp []orderResponse
	if err := c.do(ctx, "listOpenOrders", http.MethodGet, "/fapi/v1/openOrders", params, c.accountLimiter, true, &resp); err != nil {
		return nil, err
	}

	acks := make([]gateway.OrderAck, 0, len(resp))
	for _, r := range resp {
		acks = append(acks, ackFromOrderResponse(r))
	}
	return acks, nil
}

func (c *Client) GetAccountInfo(ctx context.Context) (gateway.AccountInfo, error) {
	var resp accountResponse
	if err := c.do(ctx, "getAccountInfo", http.MethodGet, "/fapi/v2/account", url.Values{}, c.accountLimiter, true, &resp); err != nil {
		return gateway.AccountInfo{}, err
	}
	return gateway.AccountInfo{
		TotalBalance:     parseDecimal(resp.TotalWalletBalance),
		AvailableBalance: parseDecimal(resp.AvailableBalance),
		UnrealizedPnl:    parseDecimal(resp.TotalUnrealizedProfit),
	}, nil
}

func (c *Client) GetSymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, error) {
	tickerParams := url.Values{}
	tickerParams.Set("symbol", symbol)
	var ticker tickerPriceResponse
	if err := c.do(ctx, "getSymbolInfo", http.MethodGet, "/fapi/v1/ticker/price", tickerParams, c.marketLimiter, false, &ticker); err != nil {
		return domain.SymbolInfo{}, err
	}

	infoParams := url.Values{}
	infoParams.Set("symbol", symbol)
	var exchInfo exchangeInfoResponse
	if err := c.do(ctx, "getSymbolInfo", http.MethodGet, "/fapi/v1/exchangeInfo", infoParams, c.marketLimiter, false, &exchInfo); err != nil {
		return domain.SymbolInfo{}, err
	}

	for _, s := range exchInfo.Symbols {
		if s.Symbol != symbol {
			continue
		}
		out := domain.SymbolInfo{
			Symbol:            s.Symbol,
			Status:            s.Status,
			BaseAsset:         s.BaseAsset,
			QuoteAsset:        s.QuoteAsset,
			LastPrice:         parseDecimal(ticker.Price),
			QuantityPrecision: s.QuantityPrecision,
			PricePrecision:    s.PricePrecision,
		}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				out.MinQty = parseDecimal(f.MinQty)
				out.StepSize = parseDecimal(f.StepSize)
			case "PRICE_FILTER":
				out.TickSize = parseDecimal(f.TickSize)
			}
		}
		return out, nil
	}

	return domain.SymbolInfo{}, gateway.NewExecutionError(gateway.ExecInvalidSymbol, "getSymbolInfo",
		fmt.Errorf("symbol %s not found in exchange info", symbol))
}

// do executes one REST round-trip: rate limit, circuit breaker, optional
// signature, response decoding, and error classification.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, limiter *infra.RateLimiter, signed bool, out any) error {
	limiter.Wait()

	if !c.breaker.Allow() {
		return gateway.NewExecutionError(gateway.ExecNetworkError, op,
			errors.New("circuit breaker open, request rejected"))
	}

	query := params.Encode()
	if signed {
		params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		params.Set("recvWindow", strconv.Itoa(c.recvWindow))
		query = params.Encode()
		query += "&signature=" + c.signer.Sign(query)
	}

	endpoint := c.baseURL + path
	if query != "" {
		endpoint += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return gateway.NewExecutionError(gateway.ExecUnknown, op, err)
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return gateway.Classify(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return gateway.NewExecutionError(gateway.ExecNetworkError, op, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return classifyAPIError(op, resp.StatusCode, apiErr)
	}
	c.breaker.RecordSuccess()

	if err := json.Unmarshal(body, out); err != nil {
		return gateway.NewExecutionError(gateway.ExecUnknown, op,
			fmt.Errorf("decoding %s response: %w", path, err))
	}
	return nil
}

// Exchange error codes that matter to the caller. Anything unrecognized
// maps to ExecUnknown rather than failing classification.
func classifyAPIError(op string, status int, apiErr apiError) error {
	err := fmt.Errorf("exchange error %d: %s (http %d)", apiErr.Code, apiErr.Msg, status)

	switch apiErr.Code {
	case -2013: // order does not exist
		return fmt.Errorf("%w: %s", gateway.ErrOrderNotFound, apiErr.Msg)
	case -2018, -2019: // balance / margin insufficient
		return gateway.NewExecutionError(gateway.ExecInsufficientBalance, op, err)
	case -1121: // invalid symbol
		return gateway.NewExecutionError(gateway.ExecInvalidSymbol, op, err)
	case -1003: // too many requests
		return gateway.NewExecutionError(gateway.ExecRateLimited, op, err)
	}

	if status == http.StatusTooManyRequests || status == 418 {
		return gateway.NewExecutionError(gateway.ExecRateLimited, op, err)
	}
	return gateway.NewExecutionError(gateway.ExecUnknown, op, err)
}
