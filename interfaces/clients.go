package interfaces

import (
	"context"

	"lunchsync/domain/models"
)

// ErrorType represents different types of client errors
type ErrorType string

const (
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeInvalid  ErrorType = "invalid"
	ErrorTypeNotFound ErrorType = "not_found"
)

// ClientError represents an error from a client
type ClientError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new client error
func NewClientError(errorType ErrorType, message string, err error) error {
	return &ClientError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// LedgerClient defines the interface for the personal finance ledger API
type LedgerClient interface {
	// ListAssets retrieves all manually-managed assets from the ledger
	ListAssets(ctx context.Context) ([]models.Asset, error)

	// UpdateAsset writes a new balance (and refreshed name metadata) for one asset
	UpdateAsset(ctx context.Context, update models.BalanceUpdate) error
}

// QuoteClient defines the interface for the external market quote source
type QuoteClient interface {
	// GetQuotes resolves current prices for a deduplicated batch of symbols.
	// Symbols the quote source does not recognize are absent from the result;
	// callers must treat absence as "skip this asset".
	GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error)
}

// EventPublisher defines the interface for publishing sync events
type EventPublisher interface {
	// PublishUpdate announces an applied balance update
	PublishUpdate(ctx context.Context, runID string, update models.BalanceUpdate) error

	// Close releases the underlying connection
	Close()
}

// SyncJournal defines the interface for the local sync history store
type SyncJournal interface {
	// RecordRun stores the summary row for a completed sync run
	RecordRun(runID string, started, finished int64, assets, updated, skipped, failed int) error

	// RecordUpdate stores the outcome of a single asset update attempt
	RecordUpdate(runID string, update models.BalanceUpdate, symbol, status, errMsg string) error

	// Close closes the underlying store
	Close() error
}
