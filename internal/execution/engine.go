// Package execution is the order validation and execution core. It turns a
// loosely-specified trading intent into an exchange-compliant request,
// dispatches it through the gateway collaborator, and keeps a consistent
// local registry of order state and account exposure.
package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
)

const (
	// DefaultCallTimeout bounds every gateway round-trip unless configured
	// otherwise. Expiry is classified as a network error, never retried here.
	DefaultCallTimeout = 10 * time.Second

	timeInForceGTC = "GTC"
)

// Journal receives an audit record for every order lifecycle event.
// Implementations must be safe for concurrent use. Journal failures are
// logged and swallowed: the audit trail must never abort a trade.
type Journal interface {
	Append(ctx context.Context, o domain.Order, event string) error
}

// EngineConfig wires the engine's collaborators. Gateway and Logger are
// required; Journal and Prices are optional.
type EngineConfig struct {
	Gateway     gateway.Gateway
	Logger      gateway.ActivityLogger
	Journal     Journal
	Prices      gateway.PriceSource
	CallTimeout time.Duration
}

// Engine exposes the four operator-facing operations: Submit, the tracker
// trio (ListOpen, GetStatus, Cancel) and AccountSnapshot. It owns the order
// registry; nothing else mutates it.
type Engine struct {
	gw          gateway.Gateway
	log         gateway.ActivityLogger
	journal     Journal
	prices      gateway.PriceSource
	registry    *Registry
	callTimeout time.Duration
}

// NewEngine creates the execution engine.
func NewEngine(cfg EngineConfig) *Engine {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Engine{
		gw:          cfg.Gateway,
		log:         cfg.Logger,
		journal:     cfg.Journal,
		prices:      cfg.Prices,
		registry:    NewRegistry(),
		callTimeout: timeout,
	}
}

// Registry exposes the tracked-order view for read-only consumers.
func (e *Engine) Registry() *Registry { return e.registry }

// Submit validates the intent, builds the exchange request for its order
// type, and dispatches it. The order is added to the registry only after a
// successful submission response; on gateway failure no registry mutation
// occurs and the classified error is returned. Submission is at-most-once:
// the engine never retries a create-order call.
func (e *Engine) Submit(ctx context.Context, intent Intent) (domain.Order, error) {
	v, err := ValidateIntent(intent)
	if err != nil {
		e.log.LogError("validate", intent, err)
		return domain.Order{}, err
	}

	meta, err := e.symbolInfo(ctx, v.Symbol)
	if err != nil {
		return domain.Order{}, err
	}
	if err := ValidatePrecision(v, meta); err != nil {
		e.log.LogError("validate", intent, err)
		return domain.Order{}, err
	}

	e.adviseStopPlacement(v)

	req := buildRequest(v)
	e.log.LogRequest("createOrder", req)

	cctx, cancel := e.bound(ctx)
	ack, err := e.gw.CreateOrder(cctx, req)
	cancel()
	if err != nil {
		execErr := gateway.Classify("createOrder", err)
		e.log.LogError("createOrder", req, execErr)
		return domain.Order{}, execErr
	}
	e.log.LogResponse("createOrder", req, ack)

	order := orderFromAck(ack)
	e.registry.Insert(order)
	e.record(ctx, order, "SUBMITTED")
	return order, nil
}

// buildRequest shapes the exchange payload per order type: MARKET carries
// symbol/side/type/quantity, LIMIT adds price and timeInForce, STOP_LIMIT
// adds stopPrice on top.
func buildRequest(v ValidatedOrder) gateway.CreateOrderRequest {
	req := gateway.CreateOrderRequest{
		Symbol:        v.Symbol,
		Side:          v.Side,
		Type:          v.Type,
		Quantity:      v.Quantity,
		ClientOrderID: uuid.NewString(),
	}
	switch v.Type {
	case domain.OrderTypeLimit:
		req.Price = v.LimitPrice
		req.TimeInForce = timeInForceGTC
	case domain.OrderTypeStopLimit:
		req.Price = v.LimitPrice
		req.StopPrice = v.StopPrice
		req.TimeInForce = timeInForceGTC
	}
	return req
}

// adviseStopPlacement warns when a stop sits on the wrong side of the live
// market price (stop below market for a sell-stop, above for a buy-stop).
// Advisory only: the exchange is authoritative and may reject or trigger
// the order immediately.
func (e *Engine) adviseStopPlacement(v ValidatedOrder) {
	if v.Type != domain.OrderTypeStopLimit || e.prices == nil {
		return
	}
	mark, ok := e.prices.LastPrice(v.Symbol)
	if !ok || !mark.IsPositive() {
		return
	}
	wrongSide := (v.Side == domain.SideSell && v.StopPrice.GreaterThanOrEqual(mark)) ||
		(v.Side == domain.SideBuy && v.StopPrice.LessThanOrEqual(mark))
	if wrongSide {
		e.log.LogError("stopPlacement", v, fmt.Errorf(
			"stop price %s is on the trigger side of mark price %s; the exchange may trigger or reject immediately",
			v.StopPrice, mark))
	}
}

func (e *Engine) symbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, error) {
	params := map[string]string{"symbol": symbol}
	e.log.LogRequest("getSymbolInfo", params)

	cctx, cancel := e.bound(ctx)
	defer cancel()
	meta, err := e.gw.GetSymbolInfo(cctx, symbol)
	if err != nil {
		execErr := gateway.Classify("getSymbolInfo", err)
		e.log.LogError("getSymbolInfo", params, execErr)
		return domain.SymbolInfo{}, execErr
	}
	e.log.LogResponse("getSymbolInfo", params, meta)
	return meta, nil
}

// bound applies the per-call timeout so no gateway invocation can suspend
// indefinitely.
func (e *Engine) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.callTimeout)
}

// record appends an audit entry, best effort.
func (e *Engine) record(ctx context.Context, o domain.Order, event string) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Append(ctx, o, event); err != nil {
		e.log.LogError("journal", map[string]string{"orderId": o.ID, "event": event}, err)
	}
}

// orderFromAck maps an exchange acknowledgment into the local order model.
// A response without a status yields StatusPending.
func orderFromAck(ack gateway.OrderAck) domain.Order {
	side, _ := domain.ParseSide(ack.Side)
	typ, _ := domain.ParseOrderType(ack.Type)

	created := ack.CreatedAt
	if created.IsZero() {
		created = ack.UpdatedAt
	}

	return domain.Order{
		ID:            ack.OrderID,
		ClientOrderID: ack.ClientOrderID,
		Symbol:        ack.Symbol,
		Side:          side,
		Type:          typ,
		Quantity:      ack.Quantity,
		ExecutedQty:   ack.ExecutedQty,
		LimitPrice:    ack.Price,
		StopPrice:     ack.StopPrice,
		AvgFillPrice:  ack.AvgPrice,
		Status:        domain.ParseStatus(ack.RawStatus),
		CreatedAt:     created,
		LastUpdatedAt: ack.UpdatedAt,
	}
}

// errOrderNotFound reports whether the gateway signaled an unknown order id.
func errOrderNotFound(err error) bool {
	return errors.Is(err, gateway.ErrOrderNotFound)
}
