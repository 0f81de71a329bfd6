// Package catalog resolves a grocery gap list against a store catalog.
package catalog

import (
	"log"

	"concierge/internal/models"

	"github.com/shopspring/decimal"
)

// NotFoundMessage marks a gap item that the catalog does not carry.
const NotFoundMessage = "Product not found in store catalog"

// Catalog maps lower-cased product names to store entries
type Catalog map[string]models.CatalogEntry

// DefaultCatalog returns the simulated store's product list
func DefaultCatalog() Catalog {
	return Catalog{
		"milk":           entry("3.99", "gallon", "MILK001"),
		"eggs":           entry("2.49", "dozen", "EGG001"),
		"chicken breast": entry("8.99", "lb", "CHKN001"),
		"broccoli":       entry("1.99", "head", "BROC001"),
		"spinach":        entry("2.99", "bag", "SPIN001"),
		"salmon":         entry("12.99", "lb", "SALM001"),
		"pasta":          entry("1.49", "box", "PAST001"),
		"olive oil":      entry("4.99", "bottle", "OIL001"),
	}
}

func entry(price, unit, id string) models.CatalogEntry {
	return models.CatalogEntry{
		UnitPrice: decimal.RequireFromString(price),
		Unit:      unit,
		Available: true,
		CatalogID: id,
	}
}

// Lookup finds a product by case-insensitive name
func (c Catalog) Lookup(name string) (models.CatalogEntry, bool) {
	e, ok := c[models.NameKey(name)]
	return e, ok
}

// Merge returns a copy of c with overrides applied. Override keys are
// normalized the same way lookups are.
func (c Catalog) Merge(overrides map[string]models.CatalogEntry) Catalog {
	out := make(Catalog, len(c)+len(overrides))
	for k, v := range c {
		out[models.NameKey(k)] = v
	}
	for k, v := range overrides {
		out[models.NameKey(k)] = v
	}
	return out
}

// Resolver matches gap items to catalog products
type Resolver struct {
	catalog Catalog
	logger  *log.Logger
}

// NewResolver creates a resolver that owns the given catalog
func NewResolver(c Catalog, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{catalog: c.Merge(nil), logger: logger}
}

// Catalog returns the resolver's catalog
func (r *Resolver) Catalog() Catalog {
	return r.catalog
}

// Resolve returns one line per gap item, in input order. Matching is on
// name only; units are not compared.
func (r *Resolver) Resolve(items []models.GapItem) []models.ResolvedLine {
	lines := make([]models.ResolvedLine, 0, len(items))
	found := 0

	for _, item := range items {
		e, ok := r.catalog.Lookup(item.Name)
		if !ok {
			lines = append(lines, models.ResolvedLine{Requested: item, Error: NotFoundMessage})
			continue
		}

		found++
		lines = append(lines, models.ResolvedLine{
			Requested: item,
			Matched: &models.StoreItem{
				Name:      item.Name,
				StoreID:   e.CatalogID,
				Price:     e.UnitPrice,
				Unit:      e.Unit,
				Available: e.Available,
				TotalCost: e.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			},
		})
	}

	r.logger.Printf("Found %d out of %d items", found, len(items))
	return lines
}
