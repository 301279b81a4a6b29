package execution

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
)

// MockGateway is a safe in-memory exchange used for tests and MOCK mode.
// Market orders fill immediately at the seeded ticker price; limit and
// stop-limit orders rest as NEW until canceled. FailNextWith injects a
// one-shot failure for the next call.
type MockGateway struct {
	mu      sync.Mutex
	nextID  int64
	orders  map[string]gateway.OrderAck
	symbols map[string]domain.SymbolInfo
	account gateway.AccountInfo

	failNext error
}

func NewMockGateway() *MockGateway {
	m := &MockGateway{
		orders:  make(map[string]gateway.OrderAck),
		symbols: make(map[string]domain.SymbolInfo),
		account: gateway.AccountInfo{
			TotalBalance:     decimal.NewFromInt(10_000),
			AvailableBalance: decimal.NewFromInt(9_500),
			UnrealizedPnl:    decimal.RequireFromString("12.5"),
		},
	}
	m.SeedSymbol(domain.SymbolInfo{
		Symbol: "BTCUSDT", Status: "TRADING", BaseAsset: "BTC", QuoteAsset: "USDT",
		LastPrice: decimal.NewFromInt(65_000), MinQty: decimal.RequireFromString("0.001"),
		StepSize: decimal.RequireFromString("0.001"), TickSize: decimal.RequireFromString("0.10"),
		QuantityPrecision: 3, PricePrecision: 2,
	})
	m.SeedSymbol(domain.SymbolInfo{
		Symbol: "ETHUSDT", Status: "TRADING", BaseAsset: "ETH", QuoteAsset: "USDT",
		LastPrice: decimal.NewFromInt(3_400), MinQty: decimal.RequireFromString("0.01"),
		StepSize: decimal.RequireFromString("0.01"), TickSize: decimal.RequireFromString("0.01"),
		QuantityPrecision: 2, PricePrecision: 2,
	})
	return m
}

// SeedSymbol registers (or replaces) symbol metadata.
func (m *MockGateway) SeedSymbol(info domain.SymbolInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols[info.Symbol] = info
}

// SetAccount overrides the balance view returned by GetAccountInfo.
func (m *MockGateway) SetAccount(info gateway.AccountInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = info
}

// FailNextWith makes the next gateway call return err.
func (m *MockGateway) FailNextWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockGateway) consumeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *MockGateway) CreateOrder(_ context.Context, req gateway.CreateOrderRequest) (gateway.OrderAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.consumeFailure(); err != nil {
		return gateway.OrderAck{}, err
	}

	info, ok := m.symbols[req.Symbol]
	if !ok {
		return gateway.OrderAck{}, gateway.NewExecutionError(gateway.ExecInvalidSymbol, "createOrder",
			fmt.Errorf("symbol %s not listed", req.Symbol))
	}

	m.nextID++
	now := time.Now().UTC().Truncate(time.Millisecond)
	ack := gateway.OrderAck{
		OrderID:       strconv.FormatInt(m.nextID, 10),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          string(req.Side),
		Type:          string(req.Type),
		RawStatus:     "NEW",
		Quantity:      req.Quantity,
		Price:         req.Price,
		StopPrice:     req.StopPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Type == domain.OrderTypeMarket {
		ack.RawStatus = "FILLED"
		ack.ExecutedQty = req.Quantity
		ack.AvgPrice = info.LastPrice
	}
	m.orders[ack.OrderID] = ack

	slog.Info("mock gateway: order created",
		slog.String("id", ack.OrderID),
		slog.String("symbol", ack.Symbol),
		slog.String("side", ack.Side),
		slog.String("type", ack.Type),
		slog.String("status", ack.RawStatus))
	return ack, nil
}

func (m *MockGateway) CancelOrder(_ context.Context, symbol, orderID string) (gateway.OrderAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.consumeFailure(); err != nil {
		return gateway.OrderAck{}, err
	}

	ack, ok := m.orders[orderID]
	if !ok || (symbol != "" && ack.Symbol != symbol) {
		return gateway.OrderAck{}, fmt.Errorf("%w: id %s", gateway.ErrOrderNotFound, orderID)
	}
	ack.RawStatus = "CANCELED"
	ack.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	m.orders[orderID] = ack

	slog.Info("mock gateway: order canceled", slog.String("id", orderID))
	return ack, nil
}

func (m *MockGateway) QueryOrder(_ context.Context, symbol, orderID string) (gateway.OrderAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.consumeFailure(); err != nil {
		return gateway.OrderAck{}, err
	}

	ack, ok := m.orders[orderID]
	if !ok || (symbol != "" && ack.Symbol != symbol) {
		return gateway.OrderAck{}, fmt.Errorf("%w: id %s", gateway.ErrOrderNotFound, orderID)
	}
	return ack, nil
}

func (m *MockGateway) ListOpenOrders(_ context.Context, symbol string) ([]gateway.OrderAck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.consumeFailure(); err != nil {
		return nil, err
	}

	var out []gateway.OrderAck
	for _, ack := range m.orders {
		if symbol != "" && ack.Symbol != symbol {
			continue
		}
		if ack.RawStatus == "NEW" || ack.RawStatus == "PARTIALLY_FILLED" {
			out = append(out, ack)
		}
	}
	return out, nil
}

func (m *MockGateway) GetAccountInfo(_ context.Context) (gateway.AccountInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.consumeFailure(); err != nil {
		return gateway.AccountInfo{}, err
	}
	return m.account, nil
}

func (m *MockGateway) GetSymbolInfo(_ context.Context, symbol string) (domain.SymbolInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.consumeFailure(); err != nil {
		return domain.SymbolInfo{}, err
	}

	info, ok := m.symbols[symbol]
	if !ok {
		return domain.SymbolInfo{}, gateway.NewExecutionError(gateway.ExecInvalidSymbol, "getSymbolInfo",
			fmt.Errorf("symbol %s not listed", symbol))
	}
	return info, nil
}

// MarkFilled drives a resting order to FILLED, simulating exchange-side
// execution between operator actions.
func (m *MockGateway) MarkFilled(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ack, ok := m.orders[orderID]; ok {
		ack.RawStatus = "FILLED"
		ack.ExecutedQty = ack.Quantity
		ack.AvgPrice = ack.Price
		ack.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		m.orders[orderID] = ack
	}
}
