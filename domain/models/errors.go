package models

import (
	"errors"
)

// Domain error types
var (
	// ErrNotPricedAsset is returned when an asset name does not follow the
	// "<label> [<symbol>]: <quantity>" pattern. Callers skip such assets.
	ErrNotPricedAsset = errors.New("asset name is not a priced asset")

	// ErrMissingAssetID is returned when the ledger reports an asset without an ID
	ErrMissingAssetID = errors.New("asset must have an ID")

	// ErrMissingAssetName is returned when the ledger reports an asset without a name
	ErrMissingAssetName = errors.New("asset must have a name")
)
