package lunchmoney

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lunchsync/domain/models"
	"lunchsync/interfaces"
)

// DefaultBaseURL is the public Lunch Money developer API endpoint
const DefaultBaseURL = "https://dev.lunchmoney.app/v1"

// HTTPClient interface for dependency injection and testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client represents a client for the Lunch Money API
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// NewClient creates a new Lunch Money API client. The access token is passed
// in explicitly; reading it from the environment is the caller's concern.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client, mainly for tests
func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// assetObject mirrors the asset records the API returns
type assetObject struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type assetsResponse struct {
	Assets []assetObject `json:"assets"`
}

// updateAssetRequest mirrors the PUT /assets/{id} body
type updateAssetRequest struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency,omitempty"`
	Name     string `json:"name,omitempty"`
}

// apiError captures both error shapes the API uses
type apiError struct {
	Error  json.RawMessage `json:"error"`
	Errors []string        `json:"errors"`
}

func (e *apiError) message() string {
	if len(e.Errors) > 0 {
		return strings.Join(e.Errors, "; ")
	}
	if raw := string(e.Error); raw != "" && raw != "null" {
		return strings.Trim(raw, `"`)
	}
	return ""
}

// ListAssets retrieves all manually-managed assets from the ledger
func (c *Client) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var resp assetsResponse
	if err := c.do(ctx, http.MethodGet, "/assets", nil, &resp); err != nil {
		return nil, err
	}

	assets := make([]models.Asset, 0, len(resp.Assets))
	for _, obj := range resp.Assets {
		asset, err := obj.toModel()
		if err != nil {
			return nil, interfaces.NewClientError(interfaces.ErrorTypeInvalid,
				fmt.Sprintf("invalid asset record %d", obj.ID), err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// UpdateAsset writes a new balance (and refreshed name metadata) for one asset
func (c *Client) UpdateAsset(ctx context.Context, update models.BalanceUpdate) error {
	if update.AssetID == 0 {
		return interfaces.NewClientError(interfaces.ErrorTypeInvalid, "balance update has no asset ID", models.ErrMissingAssetID)
	}

	body := updateAssetRequest{
		Balance:  update.Balance.StringFixed(2),
		Currency: strings.ToLower(update.Currency),
		Name:     update.Name,
	}

	path := fmt.Sprintf("/assets/%d", update.AssetID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// toModel validates the wire record and converts it to the domain model.
// Missing required fields fail here, at the boundary, not downstream.
func (o assetObject) toModel() (models.Asset, error) {
	if o.ID == 0 {
		return models.Asset{}, models.ErrMissingAssetID
	}
	if o.Name == "" {
		return models.Asset{}, models.ErrMissingAssetName
	}
	balance, err := decimal.NewFromString(o.Balance)
	if err != nil {
		return models.Asset{}, fmt.Errorf("unparsable balance %q: %w", o.Balance, err)
	}
	return models.Asset{
		ID:       o.ID,
		Name:     o.Name,
		Balance:  balance,
		Currency: o.Currency,
	}, nil
}

// do performs an authenticated JSON request and decodes the response into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return interfaces.NewClientError(interfaces.ErrorTypeInvalid, "failed to encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return interfaces.NewClientError(interfaces.ErrorTypeInvalid, "failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return interfaces.NewClientError(interfaces.ErrorTypeNetwork, "lunch money request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return interfaces.NewClientError(interfaces.ErrorTypeNetwork, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return interfaces.NewClientError(interfaces.ErrorTypeAuth, "lunch money rejected the access token",
			fmt.Errorf("unexpected status: %s", resp.Status))
	case resp.StatusCode == http.StatusNotFound:
		return interfaces.NewClientError(interfaces.ErrorTypeNotFound, "lunch money resource not found",
			fmt.Errorf("unexpected status: %s", resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return interfaces.NewClientError(interfaces.ErrorTypeInvalid, "lunch money request rejected",
			fmt.Errorf("unexpected status: %s", resp.Status))
	}

	// The API reports validation failures in-band on a 200 response
	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err == nil {
		if msg := apiErr.message(); msg != "" {
			return interfaces.NewClientError(interfaces.ErrorTypeInvalid, "lunch money reported an error",
				fmt.Errorf("%s", msg))
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return interfaces.NewClientError(interfaces.ErrorTypeInvalid, "failed to parse response", err)
	}
	return nil
}
