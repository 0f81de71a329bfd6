package models

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// GapItem is a shopping-list entry produced by meal planning
type GapItem struct {
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	Unit           string          `json:"unit"`
	Category       string          `json:"category"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
	StoreItemID    string          `json:"store_item_id,omitempty"`
	Reason         string          `json:"reason,omitempty"`
}

// CatalogEntry is the store's reference data for one product
type CatalogEntry struct {
	UnitPrice decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	Available bool            `json:"available"`
	CatalogID string          `json:"store_id"`
}

// StoreItem is the pricing snapshot taken when a gap item matches the catalog
type StoreItem struct {
	Name      string          `json:"name"`
	StoreID   string          `json:"store_id"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	Available bool            `json:"available"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ResolvedLine pairs a requested gap item with its catalog match, if any
type ResolvedLine struct {
	Requested GapItem    `json:"requested_item"`
	Matched   *StoreItem `json:"store_item"`
	Error     string     `json:"error,omitempty"`
}

// IsMatched reports whether the catalog knew the requested product.
func (r ResolvedLine) IsMatched() bool {
	return r.Matched != nil
}

// IsOrderable reports whether the line can go into an order.
func (r ResolvedLine) IsOrderable() bool {
	return r.Matched != nil && r.Matched.Available
}
