package execution

import (
	"context"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
)

// ListOpen queries the exchange for all non-terminal orders in the symbol
// scope (empty symbol means all symbols), refreshes the registry for any
// that changed, and returns the refreshed snapshot. Each call re-queries;
// the returned slice is a point-in-time view, not a live sequence.
func (e *Engine) ListOpen(ctx context.Context, symbol string) ([]domain.Order, error) {
	symbol = normalizeSymbol(symbol)
	params := map[string]string{"symbol": symbol}
	e.log.LogRequest("listOpenOrders", params)

	cctx, cancel := e.bound(ctx)
	acks, err := e.gw.ListOpenOrders(cctx, symbol)
	cancel()
	if err != nil {
		execErr := gateway.Classify("listOpenOrders", err)
		e.log.LogError("listOpenOrders", params, execErr)
		return nil, execErr
	}
	e.log.LogResponse("listOpenOrders", params, len(acks))

	out := make([]domain.Order, 0, len(acks))
	for _, ack := range acks {
		observed := orderFromAck(ack)
		stored, changed, err := e.registry.Refresh(observed)
		if err != nil {
			// Registry entry wins; the stale exchange row is dropped from
			// the listing rather than corrupting local state.
			e.log.LogError("listOpenOrders", map[string]string{"orderId": observed.ID}, err)
			continue
		}
		if changed {
			e.record(ctx, stored, "REFRESHED")
		}
		if !stored.Status.IsTerminal() {
			out = append(out, stored)
		}
	}
	return out, nil
}

// GetStatus fetches the current exchange state for an order id. Ids unknown
// to the registry are still queried (operator-provided ids from a prior
// session) and inserted on success. When symbol is empty the registry's
// symbol for the id is used. Fails with gateway.ErrOrderNotFound only when
// the exchange itself reports the id as unrecognized.
func (e *Engine) GetStatus(ctx context.Context, symbol, orderID string) (domain.Order, error) {
	symbol = normalizeSymbol(symbol)
	if known, ok := e.registry.Get(orderID); ok && symbol == "" {
		symbol = known.Symbol
	}

	params := map[string]string{"symbol": symbol, "orderId": orderID}
	e.log.LogRequest("queryOrder", params)

	cctx, cancel := e.bound(ctx)
	ack, err := e.gw.QueryOrder(cctx, symbol, orderID)
	cancel()
	if err != nil {
		if errOrderNotFound(err) {
			e.log.LogError("queryOrder", params, err)
			return domain.Order{}, err
		}
		execErr := gateway.Classify("queryOrder", err)
		e.log.LogError("queryOrder", params, execErr)
		return domain.Order{}, execErr
	}
	e.log.LogResponse("queryOrder", params, ack)

	observed := orderFromAck(ack)
	stored, changed, err := e.registry.Refresh(observed)
	if err != nil {
		e.log.LogError("queryOrder", params, err)
		return stored, err
	}
	if changed {
		e.record(ctx, stored, "REFRESHED")
	}
	return stored, nil
}

// Cancel attempts to cancel an order. Only Pending and Open orders are
// cancelable; anything else fails with ErrInvalidCancelState and leaves the
// registry entry unchanged. Unknown ids are refreshed from the exchange
// first. On success the entry transitions to Canceled.
func (e *Engine) Cancel(ctx context.Context, symbol, orderID string) (domain.Order, error) {
	symbol = normalizeSymbol(symbol)
	current, ok := e.registry.Get(orderID)
	if !ok {
		refreshed, err := e.GetStatus(ctx, symbol, orderID)
		if err != nil {
			return domain.Order{}, err
		}
		current = refreshed
	}
	if symbol == "" {
		symbol = current.Symbol
	}

	params := map[string]string{"symbol": symbol, "orderId": orderID}

	if current.Status != domain.StatusPending && current.Status != domain.StatusOpen {
		e.log.LogError("cancelOrder", params, ErrInvalidCancelState)
		return current, ErrInvalidCancelState
	}

	e.log.LogRequest("cancelOrder", params)
	cctx, cancel := e.bound(ctx)
	ack, err := e.gw.CancelOrder(cctx, symbol, orderID)
	cancel()
	if err != nil {
		if errOrderNotFound(err) {
			e.log.LogError("cancelOrder", params, err)
			return domain.Order{}, err
		}
		execErr := gateway.Classify("cancelOrder", err)
		e.log.LogError("cancelOrder", params, execErr)
		return domain.Order{}, execErr
	}
	e.log.LogResponse("cancelOrder", params, ack)

	observed := orderFromAck(ack)
	if ack.RawStatus == "" {
		// An ack without a status field still means the cancel was accepted.
		// Anything the exchange does report is authoritative and goes through
		// the state machine as-is.
		observed.Status = domain.StatusCanceled
	}
	stored, changed, err := e.registry.Refresh(observed)
	if err != nil {
		e.log.LogError("cancelOrder", params, err)
		return stored, err
	}
	if changed {
		event := "REFRESHED"
		if stored.Status == domain.StatusCanceled {
			event = "CANCELED"
		}
		e.record(ctx, stored, event)
	}
	return stored, nil
}
