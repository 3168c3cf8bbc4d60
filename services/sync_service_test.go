package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"lunchsync/domain/models"
)

// fakeLedger implements interfaces.LedgerClient for testing
type fakeLedger struct {
	assets  []models.Asset
	listErr error
	failIDs map[int64]bool
	updates []models.BalanceUpdate
}

func (f *fakeLedger) ListAssets(ctx context.Context) ([]models.Asset, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.assets, nil
}

func (f *fakeLedger) UpdateAsset(ctx context.Context, update models.BalanceUpdate) error {
	if f.failIDs[update.AssetID] {
		return errors.New("simulated update failure")
	}
	f.updates = append(f.updates, update)
	return nil
}

// fakeQuotes implements interfaces.QuoteClient for testing
type fakeQuotes struct {
	quotes     map[string]models.Quote
	err        error
	gotSymbols []string
}

func (f *fakeQuotes) GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	f.gotSymbols = symbols
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func asset(id int64, name string) models.Asset {
	return models.Asset{ID: id, Name: name, Balance: decimal.Zero, Currency: "usd"}
}

func quote(symbol, price string) models.Quote {
	return models.Quote{Symbol: symbol, Price: decimal.RequireFromString(price), Currency: "USD"}
}

func newTestService(ledger *fakeLedger, quotes *fakeQuotes, updateNames bool) *SyncService {
	return NewSyncService(ledger, quotes, nil, nil, zerolog.Nop(), "15m", updateNames)
}

func TestSyncService_RunOnce(t *testing.T) {
	ledger := &fakeLedger{
		assets: []models.Asset{
			asset(1, "Apple [AAPL]: 10"),
			asset(2, "Cash"),
		},
	}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{"AAPL": quote("AAPL", "150.00")}}
	svc := newTestService(ledger, quotes, true)

	report, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}

	if report.Assets != 2 || report.Parsed != 1 || report.Updated != 1 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("Unexpected report: %s", report)
	}
	if len(ledger.updates) != 1 {
		t.Fatalf("Expected 1 update, got %d", len(ledger.updates))
	}

	update := ledger.updates[0]
	if update.AssetID != 1 {
		t.Errorf("Expected update for asset 1, got %d", update.AssetID)
	}
	if update.Balance.StringFixed(2) != "1500.00" {
		t.Errorf("Expected balance 1500.00, got %s", update.Balance.StringFixed(2))
	}
	if update.Currency != "usd" {
		t.Errorf("Expected currency usd, got %q", update.Currency)
	}
	if update.Name != "Apple [AAPL]: 10 @ USD 150.00" {
		t.Errorf("Unexpected refreshed name: %q", update.Name)
	}
}

func TestSyncService_RunOnceRoundsHalfEven(t *testing.T) {
	ledger := &fakeLedger{assets: []models.Asset{asset(1, "Apple [AAPL]: 10")}}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{"AAPL": quote("AAPL", "150.005")}}
	svc := newTestService(ledger, quotes, false)

	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}
	if len(ledger.updates) != 1 {
		t.Fatalf("Expected 1 update, got %d", len(ledger.updates))
	}
	if got := ledger.updates[0].Balance.StringFixed(2); got != "1500.05" {
		t.Errorf("Expected balance 1500.05, got %s", got)
	}
}

func TestSyncService_RunOnceSkipsMissingQuotes(t *testing.T) {
	ledger := &fakeLedger{
		assets: []models.Asset{
			asset(1, "Apple [AAPL]: 10"),
			asset(2, "Obscure Fund [ZZZZ]: 5"),
		},
	}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{"AAPL": quote("AAPL", "150.00")}}
	svc := newTestService(ledger, quotes, true)

	report, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}

	if report.Skipped != 1 || report.Updated != 1 {
		t.Errorf("Unexpected report: %s", report)
	}
	// The asset without a quote must never be written, not even with zero
	for _, update := range ledger.updates {
		if update.AssetID == 2 {
			t.Errorf("Asset without a quote was updated: %+v", update)
		}
	}
}

func TestSyncService_RunOnceIsolatesUpdateFailures(t *testing.T) {
	ledger := &fakeLedger{
		assets: []models.Asset{
			asset(1, "Apple [AAPL]: 10"),
			asset(2, "Google [GOOG]: 2"),
		},
		failIDs: map[int64]bool{1: true},
	}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"AAPL": quote("AAPL", "150.00"),
		"GOOG": quote("GOOG", "2800.00"),
	}}
	svc := newTestService(ledger, quotes, true)

	report, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() should not fail on a per-asset update error, got: %v", err)
	}

	if report.Failed != 1 || report.Updated != 1 {
		t.Errorf("Unexpected report: %s", report)
	}
	if len(ledger.updates) != 1 || ledger.updates[0].AssetID != 2 {
		t.Errorf("Expected the second asset to still be updated, got %+v", ledger.updates)
	}
}

func TestSyncService_RunOnceFatalErrors(t *testing.T) {
	t.Run("listing failure aborts the run", func(t *testing.T) {
		ledger := &fakeLedger{listErr: errors.New("boom")}
		svc := newTestService(ledger, &fakeQuotes{}, true)

		if _, err := svc.RunOnce(context.Background()); err == nil {
			t.Error("RunOnce() expected an error when listing fails")
		}
	})

	t.Run("quote failure aborts the run", func(t *testing.T) {
		ledger := &fakeLedger{assets: []models.Asset{asset(1, "Apple [AAPL]: 10")}}
		quotes := &fakeQuotes{err: errors.New("boom")}
		svc := newTestService(ledger, quotes, true)

		if _, err := svc.RunOnce(context.Background()); err == nil {
			t.Error("RunOnce() expected an error when quote fetching fails")
		}
		if len(ledger.updates) != 0 {
			t.Errorf("Expected no updates after a quote failure, got %d", len(ledger.updates))
		}
	})
}

func TestSyncService_RunOnceDeduplicatesSymbols(t *testing.T) {
	ledger := &fakeLedger{
		assets: []models.Asset{
			asset(1, "Apple [AAPL]: 10"),
			asset(2, "More Apple [AAPL]: 5"),
			asset(3, "Google [GOOG]: 2"),
		},
	}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"AAPL": quote("AAPL", "150.00"),
		"GOOG": quote("GOOG", "2800.00"),
	}}
	svc := newTestService(ledger, quotes, true)

	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}

	want := []string{"AAPL", "GOOG"}
	if len(quotes.gotSymbols) != len(want) {
		t.Fatalf("Expected symbols %v, got %v", want, quotes.gotSymbols)
	}
	for i, symbol := range want {
		if quotes.gotSymbols[i] != symbol {
			t.Errorf("Expected symbol %s at %d, got %s", symbol, i, quotes.gotSymbols[i])
		}
	}
	if len(ledger.updates) != 3 {
		t.Errorf("Expected 3 updates, got %d", len(ledger.updates))
	}
}

func TestSyncService_RunOnceDryRun(t *testing.T) {
	ledger := &fakeLedger{assets: []models.Asset{asset(1, "Apple [AAPL]: 10")}}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{"AAPL": quote("AAPL", "150.00")}}
	svc := newTestService(ledger, quotes, true)
	svc.SetDryRun(true)

	report, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}

	if !report.DryRun || report.Updated != 1 {
		t.Errorf("Unexpected report: %s", report)
	}
	if len(ledger.updates) != 0 {
		t.Errorf("Dry run wrote %d updates to the ledger", len(ledger.updates))
	}
}

func TestSyncService_RunOnceWithoutNameUpdates(t *testing.T) {
	ledger := &fakeLedger{assets: []models.Asset{asset(1, "Apple [AAPL]: 10")}}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{"AAPL": quote("AAPL", "150.00")}}
	svc := newTestService(ledger, quotes, false)

	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}
	if len(ledger.updates) != 1 {
		t.Fatalf("Expected 1 update, got %d", len(ledger.updates))
	}
	if ledger.updates[0].Name != "" {
		t.Errorf("Expected no name rewrite, got %q", ledger.updates[0].Name)
	}
}

func TestSyncService_RunOnceNoPricedAssets(t *testing.T) {
	ledger := &fakeLedger{assets: []models.Asset{asset(1, "Cash"), asset(2, "Savings")}}
	quotes := &fakeQuotes{}
	svc := newTestService(ledger, quotes, true)

	report, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() returned unexpected error: %v", err)
	}

	if report.Parsed != 0 || report.Updated != 0 {
		t.Errorf("Unexpected report: %s", report)
	}
	if quotes.gotSymbols != nil {
		t.Errorf("Expected no quote request, got symbols %v", quotes.gotSymbols)
	}
}
