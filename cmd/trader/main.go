package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
	"github.com/ShoyebRampure/binance-trading-bot/internal/execution"
	"github.com/ShoyebRampure/binance-trading-bot/internal/gateway"
	"github.com/ShoyebRampure/binance-trading-bot/internal/infra"
	"github.com/ShoyebRampure/binance-trading-bot/internal/infra/binance"
	"github.com/ShoyebRampure/binance-trading-bot/internal/logging"
	"github.com/ShoyebRampure/binance-trading-bot/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := execution.NewGatewayFactory(cfg).CreateGateway()
	if err != nil {
		slog.Error("❌ gateway initialization failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Self-test the exchange connection before accepting operator input.
	var prices gateway.PriceSource
	if client, ok := gw.(*binance.Client); ok {
		if err := client.Ping(ctx); err != nil {
			slog.Error("❌ exchange connection test failed", slog.Any("error", err))
			os.Exit(1)
		}
		if len(cfg.API.Binance.Symbols) > 0 {
			worker := binance.NewTickerWorker(cfg.API.Binance.WSURL, cfg.API.Binance.Symbols)
			if err := worker.Connect(ctx); err != nil {
				slog.Warn("mark price worker failed to start", slog.Any("error", err))
			} else {
				defer worker.Disconnect()
				prices = worker
			}
		}
	}

	journal, err := storage.NewJournal(cfg.Storage.JournalPath)
	if err != nil {
		slog.Error("❌ journal initialization failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer journal.Close()

	engine := execution.NewEngine(execution.EngineConfig{
		Gateway:     gw,
		Logger:      logging.NewActivityLog(logger),
		Journal:     journal,
		Prices:      prices,
		CallTimeout: time.Duration(cfg.Trading.CallTimeoutSec) * time.Second,
	})

	slog.Info("✨ Trading client operational",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("mode", cfg.Trading.Mode))

	runMenu(ctx, engine, journal)

	slog.Info("👋 Shutting down")
}

const menu = `
========== FUTURES TRADING CLIENT ==========
 1. Place market order
 2. Place limit order
 3. Place stop-limit order
 4. Show open orders
 5. Cancel order
 6. Check order status
 7. Symbol info
 8. Account balance
 9. Order history
 0. Exit
============================================`

func runMenu(ctx context.Context, engine *execution.Engine, journal *storage.Journal) {
	reader := bufio.NewReader(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Println(menu)
		choice := prompt(reader, "Select option: ")

		switch choice {
		case "1":
			placeOrder(ctx, engine, reader, domain.OrderTypeMarket)
		case "2":
			placeOrder(ctx, engine, reader, domain.OrderTypeLimit)
		case "3":
			placeOrder(ctx, engine, reader, domain.OrderTypeStopLimit)
		case "4":
			showOpenOrders(ctx, engine, reader)
		case "5":
			cancelOrder(ctx, engine, reader)
		case "6":
			checkStatus(ctx, engine, reader)
		case "7":
			showSymbolInfo(ctx, engine, reader)
		case "8":
			showBalance(ctx, engine)
		case "9":
			showHistory(ctx, journal)
		case "0", "q", "quit", "exit":
			return
		default:
			fmt.Println("Unknown option, try again.")
		}
	}
}

func placeOrder(ctx context.Context, engine *execution.Engine, reader *bufio.Reader, typ domain.OrderType) {
	intent := execution.Intent{
		Symbol: prompt(reader, "Symbol (e.g. BTCUSDT): "),
		Side:   prompt(reader, "Side (BUY/SELL): "),
		Type:   string(typ),
	}

	qty, ok := promptDecimal(reader, "Quantity: ")
	if !ok {
		return
	}
	intent.Quantity = qty

	if typ == domain.OrderTypeLimit || typ == domain.OrderTypeStopLimit {
		price, ok := promptDecimal(reader, "Limit price: ")
		if !ok {
			return
		}
		intent.LimitPrice = price
	}
	if typ == domain.OrderTypeStopLimit {
		stop, ok := promptDecimal(reader, "Stop price: ")
		if !ok {
			return
		}
		intent.StopPrice = stop
	}

	order, err := engine.Submit(ctx, intent)
	if err != nil {
		fmt.Printf("❌ Order rejected: %v\n", err)
		return
	}

	fmt.Println("✅ Order submitted")
	printOrder(order)
}

func showOpenOrders(ctx context.Context, engine *execution.Engine, reader *bufio.Reader) {
	symbol := prompt(reader, "Symbol (empty for all): ")

	orders, err := engine.ListOpen(ctx, symbol)
	if err != nil {
		fmt.Printf("❌ Failed to list open orders: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Println("No open orders.")
		return
	}

	fmt.Printf("Open orders (%d):\n", len(orders))
	for _, o := range orders {
		fmt.Printf("  [%s] %s %s %s qty=%s filled=%s price=%s status=%s\n",
			o.ID, o.Symbol, o.Side, o.Type,
			o.Quantity, o.ExecutedQty, o.LimitPrice, o.Status)
	}
}

func cancelOrder(ctx context.Context, engine *execution.Engine, reader *bufio.Reader) {
	symbol := prompt(reader, "Symbol: ")
	orderID := prompt(reader, "Order ID: ")

	order, err := engine.Cancel(ctx, symbol, orderID)
	if err != nil {
		fmt.Printf("❌ Cancel failed: %v\n", err)
		return
	}

	fmt.Println("✅ Order canceled")
	printOrder(order)
}

func checkStatus(ctx context.Context, engine *execution.Engine, reader *bufio.Reader) {
	symbol := prompt(reader, "Symbol (empty if known locally): ")
	orderID := prompt(reader, "Order ID: ")

	order, err := engine.GetStatus(ctx, symbol, orderID)
	if err != nil {
		fmt.Printf("❌ Status query failed: %v\n", err)
		return
	}
	printOrder(order)
}

func showSymbolInfo(ctx context.Context, engine *execution.Engine, reader *bufio.Reader) {
	symbol := prompt(reader, "Symbol: ")

	info, err := engine.SymbolInfo(ctx, symbol)
	if err != nil {
		fmt.Printf("❌ Symbol info failed: %v\n", err)
		return
	}

	fmt.Printf("Symbol:     %s (%s/%s, %s)\n", info.Symbol, info.BaseAsset, info.QuoteAsset, info.Status)
	fmt.Printf("Last price: %s\n", info.LastPrice)
	fmt.Printf("Min qty:    %s  step: %s  tick: %s\n", info.MinQty, info.StepSize, info.TickSize)
	fmt.Printf("Precision:  qty=%d price=%d\n", info.QuantityPrecision, info.PricePrecision)
}

func showBalance(ctx context.Context, engine *execution.Engine) {
	snap, err := engine.AccountSnapshot(ctx)
	if err != nil {
		fmt.Printf("❌ Balance query failed: %v\n", err)
		return
	}

	fmt.Printf("Total balance:     %s USDT\n", snap.TotalBalance)
	fmt.Printf("Available balance: %s USDT\n", snap.AvailableBalance)
	fmt.Printf("Unrealized PnL:    %s USDT\n", snap.UnrealizedPnl)
	fmt.Printf("As of:             %s\n", snap.CapturedAt.Format(time.RFC3339))
}

func showHistory(ctx context.Context, journal *storage.Journal) {
	entries, err := journal.History(ctx, 20)
	if err != nil {
		fmt.Printf("❌ History query failed: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No recorded order activity.")
		return
	}

	fmt.Printf("Recent order activity (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %s  %-9s [%s] %s %s %s qty=%s status=%s\n",
			e.RecordedAt.Format("2006-01-02 15:04:05"),
			e.Event, e.OrderID, e.Symbol, e.Side, e.Type, e.Quantity, e.Status)
	}
}

func printOrder(o domain.Order) {
	fmt.Printf("Order ID:   %s\n", o.ID)
	fmt.Printf("Symbol:     %s\n", o.Symbol)
	fmt.Printf("Side/Type:  %s %s\n", o.Side, o.Type)
	fmt.Printf("Quantity:   %s (filled %s)\n", o.Quantity, o.ExecutedQty)
	if o.LimitPrice.IsPositive() {
		fmt.Printf("Price:      %s\n", o.LimitPrice)
	}
	if o.StopPrice.IsPositive() {
		fmt.Printf("Stop price: %s\n", o.StopPrice)
	}
	if o.AvgFillPrice.IsPositive() {
		fmt.Printf("Avg fill:   %s\n", o.AvgFillPrice)
	}
	fmt.Printf("Status:     %s\n", o.Status)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptDecimal(reader *bufio.Reader, label string) (decimal.Decimal, bool) {
	raw := prompt(reader, label)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Printf("❌ Invalid number: %q\n", raw)
		return decimal.Zero, false
	}
	return d, true
}
