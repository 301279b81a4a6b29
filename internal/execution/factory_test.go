package execution

import (
	"strings"
	"testing"

	"github.com/ShoyebRampure/binance-trading-bot/internal/infra"
)

func factoryConfig(mode string) *infra.Config {
	cfg := &infra.Config{}
	cfg.Trading.Mode = mode
	cfg.API.Binance.APIKey = "k"
	cfg.API.Binance.SecretKey = "s"
	return cfg
}

func TestFactoryMockMode(t *testing.T) {
	gw, err := NewGatewayFactory(factoryConfig("mock")).CreateGateway()
	if err != nil {
		t.Fatalf("mock gateway failed: %v", err)
	}
	if _, ok := gw.(*MockGateway); !ok {
		t.Errorf("expected MockGateway, got %T", gw)
	}
}

func TestFactoryMainnetSafetyGuard(t *testing.T) {
	t.Setenv("CONFIRM_REAL_MONEY", "")

	_, err := NewGatewayFactory(factoryConfig("MAINNET")).CreateGateway()
	if err == nil {
		t.Fatal("mainnet without confirmation accepted")
	}
	if !strings.Contains(err.Error(), "SAFETY_GUARD") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFactoryUnknownMode(t *testing.T) {
	if _, err := NewGatewayFactory(factoryConfig("PAPER")).CreateGateway(); err == nil {
		t.Error("unknown mode accepted")
	}
}
