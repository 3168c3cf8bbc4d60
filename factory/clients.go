package factory

import (
	"github.com/rs/zerolog"

	"lunchsync/events"
	"lunchsync/interfaces"
	"lunchsync/internal"
	"lunchsync/lunchmoney"
	"lunchsync/services"
	"lunchsync/yahoo"
)

// NewLedgerClient creates the Lunch Money ledger client from configuration
func NewLedgerClient(cfg *internal.Config) interfaces.LedgerClient {
	return lunchmoney.NewClient(cfg.LunchMoney.URL, cfg.LunchMoney.Token)
}

// NewQuoteClient creates the Yahoo Finance quote client from configuration
func NewQuoteClient(cfg *internal.Config) interfaces.QuoteClient {
	return yahoo.NewClient(cfg.Quotes.URL)
}

// NewSyncService wires a sync service together with its optional journal and
// event publisher. The returned cleanup closes whatever was opened.
func NewSyncService(cfg *internal.Config, logger zerolog.Logger) (*services.SyncService, func(), error) {
	ledger := NewLedgerClient(cfg)
	quotes := NewQuoteClient(cfg)

	var journal interfaces.SyncJournal
	if cfg.Database.Path != "" {
		j, err := internal.NewSQLiteJournal(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		journal = j
	}

	var publisher interfaces.EventPublisher
	if cfg.NATS.URL != "" {
		p, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			if journal != nil {
				journal.Close()
			}
			return nil, nil, err
		}
		publisher = p
	}

	svc := services.NewSyncService(
		ledger,
		quotes,
		journal,
		publisher,
		internal.ComponentLogger(logger, internal.ComponentSync),
		cfg.Interval,
		cfg.UpdateNames,
	)

	cleanup := func() {
		if publisher != nil {
			publisher.Close()
		}
		if journal != nil {
			if err := journal.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close sync journal")
			}
		}
	}

	return svc, cleanup, nil
}
