package execution

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
	"github.com/ShoyebRampure/binance-trading-bot/internal/infra"
	"github.com/ShoyebRampure/binance-trading-bot/internal/infra/binance"
)

// Mode selects which gateway implementation the engine talks to.
type Mode string

const (
	ModeMock    Mode = "MOCK"    // in-memory exchange, no network
	ModeTestnet Mode = "TESTNET" // Binance futures testnet
	ModeMainnet Mode = "MAINNET" // real money
)

// GatewayFactory creates gateway instances based on the configured mode.
type GatewayFactory struct {
	config *infra.Config
}

func NewGatewayFactory(cfg *infra.Config) *GatewayFactory {
	return &GatewayFactory{config: cfg}
}

// CreateGateway returns the gateway for the configured trading mode.
// Mainnet requires the CONFIRM_REAL_MONEY=true environment variable.
func (f *GatewayFactory) CreateGateway() (gateway.Gateway, error) {
	mode := Mode(strings.ToUpper(f.config.Trading.Mode))

	slog.Info("Initializing exchange gateway", "mode", mode)

	switch mode {
	case ModeMock:
		return NewMockGateway(), nil

	case ModeTestnet:
		slog.Info("🔒 Connecting to Binance Futures TESTNET")
		return binance.NewClient(f.config, true), nil

	case ModeMainnet:
		if os.Getenv("CONFIRM_REAL_MONEY") != "true" {
			err := fmt.Errorf("SAFETY_GUARD: mainnet trading requires 'CONFIRM_REAL_MONEY=true' environment variable")
			slog.Error(err.Error())
			return nil, err
		}
		slog.Info("🚨🚨🚨 Connecting to Binance Futures MAINNET 🚨🚨🚨")
		return binance.NewClient(f.config, false), nil

	default:
		return nil, fmt.Errorf("unknown trading mode: %s", f.config.Trading.Mode)
	}
}
