package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"lunchsync/domain/models"
)

// BalanceUpdated is the event published for every applied balance update
type BalanceUpdated struct {
	RunID    string    `json:"run_id"`
	AssetID  int64     `json:"asset_id"`
	Balance  string    `json:"balance"`
	Currency string    `json:"currency,omitempty"`
	Name     string    `json:"name,omitempty"`
	At       time.Time `json:"at"`
}

// NATSPublisher implements the EventPublisher interface on a plain NATS
// connection. Publishing is best effort; the sync run never fails on it.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the given NATS server
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishUpdate announces an applied balance update
func (p *NATSPublisher) PublishUpdate(ctx context.Context, runID string, update models.BalanceUpdate) error {
	event := BalanceUpdated{
		RunID:    runID,
		AssetID:  update.AssetID,
		Balance:  update.Balance.StringFixed(2),
		Currency: update.Currency,
		Name:     update.Name,
		At:       time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains and closes the connection
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
