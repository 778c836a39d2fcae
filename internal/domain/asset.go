package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset is a fungible instrument tracked by one order book. Type is a
// classification tag; a book only accepts orders whose asset Type matches
// its own (see book.ErrAssetMismatch).
type Asset struct {
	ID        uuid.UUID       // stable identifier
	Type      string          // classification tag, gates book routing
	LastPrice decimal.Decimal // updated on every settled trade
	Quantity  decimal.Decimal // total units outstanding
}

// NewAsset allocates an Asset with a fresh ID.
func NewAsset(assetType string, startPrice, quantity decimal.Decimal) *Asset {
	return &Asset{
		ID:        uuid.New(),
		Type:      assetType,
		LastPrice: startPrice,
		Quantity:  quantity,
	}
}

// UpdatePrice sets the asset's last traded price.
func (a *Asset) UpdatePrice(price decimal.Decimal) {
	a.LastPrice = price
}
