package execution

import (
	"context"
	"time"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
)

// AccountSnapshot performs a single uncached round-trip for the current
// balance and exposure view. Every call reflects the latest queried value.
func (e *Engine) AccountSnapshot(ctx context.Context) (domain.AccountSnapshot, error) {
	e.log.LogRequest("getAccountInfo", nil)

	cctx, cancel := e.bound(ctx)
	info, err := e.gw.GetAccountInfo(cctx)
	cancel()
	if err != nil {
		execErr := gateway.Classify("getAccountInfo", err)
		e.log.LogError("getAccountInfo", nil, execErr)
		return domain.AccountSnapshot{}, execErr
	}

	snap := domain.AccountSnapshot{
		TotalBalance:     info.TotalBalance,
		AvailableBalance: info.AvailableBalance,
		UnrealizedPnl:    info.UnrealizedPnl,
		CapturedAt:       time.Now().UTC(),
	}
	e.log.LogResponse("getAccountInfo", nil, snap)
	return snap, nil
}

// SymbolInfo returns exchange metadata and the latest ticker price for a
// trading pair.
func (e *Engine) SymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, error) {
	normalized := normalizeSymbol(symbol)
	if !symbolPattern.MatchString(normalized) {
		err := invalid(CodeInvalidSymbol, "symbol", "not a valid trading pair")
		e.log.LogError("getSymbolInfo", map[string]string{"symbol": symbol}, err)
		return domain.SymbolInfo{}, err
	}
	return e.symbolInfo(ctx, normalized)
}
