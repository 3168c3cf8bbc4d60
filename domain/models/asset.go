package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Asset represents an account held in the ledger. It is owned by the ledger:
// this system only ever rewrites its balance (and name metadata), it never
// creates or destroys assets.
type Asset struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Quote is a point-in-time market price for a symbol. Quotes are fetched fresh
// every run and never cached.
type Quote struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// BalanceUpdate is the write issued back to the ledger for a single asset.
type BalanceUpdate struct {
	AssetID  int64           `json:"assetId"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Name     string          `json:"name,omitempty"`
}

// maxNameLength is the asset name length limit imposed by the Lunch Money API.
const maxNameLength = 45

// assetPattern matches "<label> [<symbol>]: <quantity>" with an optional
// " @ <CUR> <price>" suffix carrying the price from the previous sync.
var assetPattern = regexp.MustCompile(`^(?P<label>.*?)\s*\[(?P<symbol>[A-Za-z0-9.^=-]+)\]:\s*(?P<quantity>[0-9.]+)(?:\s*@\s*(?P<currency>[A-Z]{3})\s*(?P<price>[0-9.]+))?\s*$`)

// PricedAsset is the holding parsed out of an asset's display name. The symbol
// must be resolvable by the quote source for the asset to be updated.
type PricedAsset struct {
	Label    string
	Symbol   string
	Quantity decimal.Decimal
	Currency string
	Price    *decimal.Decimal
}

// ParsePricedAsset extracts a PricedAsset from an asset display name.
// Names that don't follow the pattern return ErrNotPricedAsset; that includes
// names with a bracketed symbol but an unparsable quantity. Whitespace around
// fields is trimmed, the symbol is matched case-sensitively.
func ParsePricedAsset(name string) (*PricedAsset, error) {
	m := assetPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, ErrNotPricedAsset
	}

	groups := make(map[string]string, 5)
	for i, groupName := range assetPattern.SubexpNames() {
		if groupName != "" {
			groups[groupName] = m[i]
		}
	}

	quantity, err := decimal.NewFromString(groups["quantity"])
	if err != nil || quantity.IsNegative() {
		return nil, ErrNotPricedAsset
	}

	asset := &PricedAsset{
		Label:    strings.TrimSpace(groups["label"]),
		Symbol:   groups["symbol"],
		Quantity: quantity,
		Currency: groups["currency"],
	}

	if groups["price"] != "" {
		price, err := decimal.NewFromString(groups["price"])
		if err != nil {
			return nil, ErrNotPricedAsset
		}
		asset.Price = &price
	}

	return asset, nil
}

// SetQuote fills the price and currency from a fetched quote.
func (p *PricedAsset) SetQuote(q Quote) {
	price := q.Price
	p.Price = &price
	if q.Currency != "" {
		p.Currency = q.Currency
	}
}

// Value returns quantity times price rounded to the ledger's currency
// precision (2 decimal places, round-half-even). The second return is false
// when no price has been loaded.
func (p *PricedAsset) Value() (decimal.Decimal, bool) {
	if p.Price == nil {
		return decimal.Zero, false
	}
	return p.Quantity.Mul(*p.Price).RoundBank(2), true
}

// DisplayValue formats the asset's value with its currency for reporting.
func (p *PricedAsset) DisplayValue() string {
	value, ok := p.Value()
	if !ok {
		return ""
	}
	code := strings.ToUpper(p.Currency)
	if code == "" {
		return value.StringFixed(2)
	}
	return money.New(value.Shift(2).IntPart(), code).Display()
}

// String renders the asset back into the ledger name format, refreshing the
// price metadata. The label is truncated so the whole name fits the ledger's
// 45 character limit; the metadata is never cut.
func (p *PricedAsset) String() string {
	metadata := fmt.Sprintf(" [%s]: %s", p.Symbol, p.Quantity.String())
	if p.Price != nil {
		metadata += " @"
		if p.Currency != "" {
			metadata += " " + strings.ToUpper(p.Currency)
		}
		metadata += " " + p.Price.StringFixed(2)
	}

	label := p.Label
	if max := maxNameLength - len(metadata); len(label) > max {
		if max < 0 {
			max = 0
		}
		label = label[:max]
	}
	return label + metadata
}
