package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lunchsync/domain/models"
	"lunchsync/interfaces"
)

// DefaultBaseURL is the public Yahoo Finance quote endpoint
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// HTTPClient interface for dependency injection and testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches market quotes from Yahoo Finance. One batched request is
// issued per run, no caching across runs.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a new Yahoo Finance quote client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client, mainly for tests
func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// quoteResult mirrors one entry of the quote endpoint response
type quoteResult struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	Currency           string   `json:"currency"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult   `json:"result"`
		Error  json.RawMessage `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuotes resolves current prices for a batch of symbols in a single
// request. Symbols Yahoo does not recognize, or returns without a usable
// price, are simply absent from the result map. Transport failures and
// service-level errors are fatal for the whole batch.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	quotes := make(map[string]models.Quote, len(symbols))
	if len(symbols) == 0 {
		return quotes, nil
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	addr := c.baseURL + "/v7/finance/quote?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeInvalid, "failed to build quote request", err)
	}
	// Yahoo rejects requests without a browser-ish user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; lunchsync)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeNetwork, "quote request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeAuth, "quote source rejected the request",
			fmt.Errorf("unexpected status: %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeInvalid, "quote request rejected",
			fmt.Errorf("unexpected status: %s", resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeNetwork, "failed to read quote response", err)
	}

	var payload quoteResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeInvalid, "failed to parse quote response", err)
	}
	if raw := string(payload.QuoteResponse.Error); raw != "" && raw != "null" {
		return nil, interfaces.NewClientError(interfaces.ErrorTypeInvalid, "quote source reported an error",
			fmt.Errorf("%s", raw))
	}

	for _, result := range payload.QuoteResponse.Result {
		if result.Symbol == "" || result.RegularMarketPrice == nil {
			continue
		}
		quotes[result.Symbol] = models.Quote{
			Symbol:   result.Symbol,
			Price:    decimal.NewFromFloat(*result.RegularMarketPrice),
			Currency: result.Currency,
		}
	}
	return quotes, nil
}
