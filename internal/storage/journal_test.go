package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleOrder(id string, status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID:         id,
		Symbol:     "BTCUSDT",
		Side:       domain.SideBuy,
		Type:       domain.OrderTypeLimit,
		Quantity:   decimal.RequireFromString("0.001"),
		LimitPrice: decimal.RequireFromString("60000"),
		Status:     status,
	}
}

func TestJournalAppendAndHistory(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	if err := j.Append(ctx, sampleOrder("1", domain.StatusOpen), "SUBMITTED"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := j.Append(ctx, sampleOrder("2", domain.StatusOpen), "SUBMITTED"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := j.Append(ctx, sampleOrder("1", domain.StatusCanceled), "CANCELED"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	entries, err := j.History(ctx, 10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("history length = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Event != "CANCELED" || entries[0].OrderID != "1" {
		t.Errorf("latest entry = %+v, want the cancellation", entries[0])
	}
	if entries[0].Seq <= entries[1].Seq {
		t.Error("sequence numbers not descending")
	}
	if entries[0].Quantity != "0.001" || entries[0].Price != "60000" {
		t.Errorf("decimals not round-tripped: %+v", entries[0])
	}
	if entries[0].RecordedAt.IsZero() {
		t.Error("recorded_at missing")
	}
}

func TestJournalHistoryLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.Append(ctx, sampleOrder("1", domain.StatusOpen), "REFRESHED"); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := j.History(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("history length = %d, want 2", len(entries))
	}
}

func TestJournalEventsForOrder(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	j.Append(ctx, sampleOrder("7", domain.StatusOpen), "SUBMITTED")
	j.Append(ctx, sampleOrder("8", domain.StatusOpen), "SUBMITTED")
	j.Append(ctx, sampleOrder("7", domain.StatusFilled), "REFRESHED")

	events, err := j.EventsForOrder(ctx, "7")
	if err != nil {
		t.Fatalf("events query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events length = %d, want 2", len(events))
	}
	// Oldest first: the lifecycle reads top to bottom.
	if events[0].Event != "SUBMITTED" || events[1].Event != "REFRESHED" {
		t.Errorf("lifecycle out of order: %+v", events)
	}
	if events[1].Status != string(domain.StatusFilled) {
		t.Errorf("status = %s, want FILLED", events[1].Status)
	}
}

func TestJournalEmptyHistory(t *testing.T) {
	j := newTestJournal(t)

	entries, err := j.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history on empty journal failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}
