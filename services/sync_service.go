package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lunchsync/domain/models"
	"lunchsync/interfaces"
)

// defaultInterval is used in watch mode when the configured interval is unset
// or unparsable.
const defaultInterval = 15 * time.Minute

// Report summarizes a single sync run
type Report struct {
	RunID    string
	Assets   int
	Parsed   int
	Updated  int
	Skipped  int
	Failed   int
	DryRun   bool
	Duration time.Duration
}

// String renders the report for console output
func (r *Report) String() string {
	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}
	return fmt.Sprintf("%d assets, %d priced, %d updated, %d skipped, %d failed%s",
		r.Assets, r.Parsed, r.Updated, r.Skipped, r.Failed, mode)
}

// holding pairs a ledger asset with the priced asset parsed from its name
type holding struct {
	asset  models.Asset
	parsed *models.PricedAsset
}

// SyncService runs the list → parse → quote → compute → update pipeline.
// Control flow within a run is linear and synchronous.
type SyncService struct {
	ledger      interfaces.LedgerClient
	quotes      interfaces.QuoteClient
	journal     interfaces.SyncJournal
	publisher   interfaces.EventPublisher
	logger      zerolog.Logger
	interval    string
	updateNames bool
	dryRun      bool
}

// NewSyncService creates a new sync service. Journal and publisher may be nil;
// both are best-effort side channels.
func NewSyncService(
	ledger interfaces.LedgerClient,
	quotes interfaces.QuoteClient,
	journal interfaces.SyncJournal,
	publisher interfaces.EventPublisher,
	logger zerolog.Logger,
	interval string,
	updateNames bool,
) *SyncService {
	return &SyncService{
		ledger:      ledger,
		quotes:      quotes,
		journal:     journal,
		publisher:   publisher,
		logger:      logger,
		interval:    interval,
		updateNames: updateNames,
	}
}

// SetDryRun makes runs compute and log updates without writing anything
func (s *SyncService) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// RunOnce performs a single sync run. Listing and quote-fetch failures abort
// the run; per-asset update failures are isolated and reported in the Report.
func (s *SyncService) RunOnce(ctx context.Context) (*Report, error) {
	started := time.Now()
	runID := uuid.New().String()
	log := s.logger.With().Str("run_id", runID).Logger()

	assets, err := s.ledger.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	report := &Report{RunID: runID, Assets: len(assets), DryRun: s.dryRun}

	holdings := make([]holding, 0, len(assets))
	for _, asset := range assets {
		parsed, err := models.ParsePricedAsset(asset.Name)
		if err != nil {
			log.Debug().Str("name", asset.Name).Msg("not a priced asset")
			continue
		}
		holdings = append(holdings, holding{asset: asset, parsed: parsed})
	}
	report.Parsed = len(holdings)

	if len(holdings) == 0 {
		log.Info().Msg("no priced assets found")
		report.Duration = time.Since(started)
		s.recordRun(report, started)
		return report, nil
	}

	quotes, err := s.quotes.GetQuotes(ctx, dedupeSymbols(holdings))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	for _, h := range holdings {
		quote, ok := quotes[h.parsed.Symbol]
		if !ok {
			// No quote means no update, never a zero or stale balance
			log.Warn().
				Str("symbol", h.parsed.Symbol).
				Int64("asset_id", h.asset.ID).
				Msg("no quote for symbol, skipping asset")
			report.Skipped++
			continue
		}
		h.parsed.SetQuote(quote)

		balance, _ := h.parsed.Value()
		update := models.BalanceUpdate{
			AssetID:  h.asset.ID,
			Balance:  balance,
			Currency: strings.ToLower(h.parsed.Currency),
		}
		if s.updateNames {
			update.Name = h.parsed.String()
		}

		if s.dryRun {
			log.Info().
				Int64("asset_id", h.asset.ID).
				Str("symbol", h.parsed.Symbol).
				Str("value", h.parsed.DisplayValue()).
				Msg("dry run, would update asset balance")
			report.Updated++
			continue
		}

		if err := s.ledger.UpdateAsset(ctx, update); err != nil {
			log.Error().
				Err(err).
				Int64("asset_id", h.asset.ID).
				Str("symbol", h.parsed.Symbol).
				Msg("failed to update asset")
			report.Failed++
			s.recordUpdate(runID, update, h.parsed.Symbol, "failed", err.Error())
			continue
		}

		log.Info().
			Int64("asset_id", h.asset.ID).
			Str("symbol", h.parsed.Symbol).
			Str("value", h.parsed.DisplayValue()).
			Msg("updated asset balance")
		report.Updated++
		s.recordUpdate(runID, update, h.parsed.Symbol, "updated", "")
		s.publish(ctx, runID, update)
	}

	report.Duration = time.Since(started)
	s.recordRun(report, started)
	log.Info().Str("report", report.String()).Msg("sync run finished")
	return report, nil
}

// Start runs the pipeline on an interval until the context is canceled
func (s *SyncService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.parseInterval())
	defer ticker.Stop()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial sync run failed")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sync run failed")
			}
		}
	}
}

// parseInterval parses the configured interval, falling back to the default
func (s *SyncService) parseInterval() time.Duration {
	interval, err := time.ParseDuration(s.interval)
	if err != nil || interval <= 0 {
		return defaultInterval
	}
	return interval
}

// dedupeSymbols collects the distinct symbols across holdings, in order
func dedupeSymbols(holdings []holding) []string {
	seen := make(map[string]bool, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if seen[h.parsed.Symbol] {
			continue
		}
		seen[h.parsed.Symbol] = true
		symbols = append(symbols, h.parsed.Symbol)
	}
	return symbols
}

// recordRun writes the run summary to the journal, if one is configured
func (s *SyncService) recordRun(report *Report, started time.Time) {
	if s.journal == nil {
		return
	}
	err := s.journal.RecordRun(report.RunID, started.Unix(), started.Add(report.Duration).Unix(),
		report.Assets, report.Updated, report.Skipped, report.Failed)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record sync run in journal")
	}
}

// recordUpdate writes one update outcome to the journal, if one is configured
func (s *SyncService) recordUpdate(runID string, update models.BalanceUpdate, symbol, status, errMsg string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordUpdate(runID, update, symbol, status, errMsg); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record asset update in journal")
	}
}

// publish announces an applied update, if a publisher is configured
func (s *SyncService) publish(ctx context.Context, runID string, update models.BalanceUpdate) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishUpdate(ctx, runID, update); err != nil {
		s.logger.Warn().Err(err).Int64("asset_id", update.AssetID).Msg("failed to publish update event")
	}
}
