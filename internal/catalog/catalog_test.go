package catalog

import (
	"io"
	"log"
	"testing"

	"concierge/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gap(name string, qty int, unit string) models.GapItem {
	return models.GapItem{Name: name, Quantity: qty, Unit: unit, Category: models.CategoryMisc}
}

func newTestResolver(c Catalog) *Resolver {
	return NewResolver(c, log.New(io.Discard, "", 0))
}

func TestResolve_MatchesCaseInsensitively(t *testing.T) {
	r := newTestResolver(DefaultCatalog())

	lines := r.Resolve([]models.GapItem{
		gap("SALMON", 2, "kg"),
		gap("Dragonfruit", 1, "piece"),
		gap(" olive oil ", 1, "bottle"),
	})

	require.Len(t, lines, 3)

	assert.Equal(t, "SALMON", lines[0].Requested.Name)
	require.NotNil(t, lines[0].Matched)
	assert.Equal(t, "SALM001", lines[0].Matched.StoreID)
	assert.Equal(t, "lb", lines[0].Matched.Unit, "unit comes from the catalog, not the request")
	assert.Equal(t, "25.98", lines[0].Matched.TotalCost.StringFixed(2))
	assert.True(t, lines[0].Matched.Available)
	assert.Empty(t, lines[0].Error)

	assert.Nil(t, lines[1].Matched)
	assert.Equal(t, NotFoundMessage, lines[1].Error)
	assert.Equal(t, "Dragonfruit", lines[1].Requested.Name)

	require.NotNil(t, lines[2].Matched)
	assert.Equal(t, "OIL001", lines[2].Matched.StoreID)
}

func TestResolve_CountInvariant(t *testing.T) {
	r := newTestResolver(DefaultCatalog())

	inputs := [][]models.GapItem{
		nil,
		{},
		{gap("milk", 1, "gallon")},
		{gap("a", 1, ""), gap("b", 1, ""), gap("eggs", 3, "dozen"), gap("a", 1, "")},
	}
	for _, in := range inputs {
		assert.Len(t, r.Resolve(in), len(in))
	}
}

func TestResolve_CopiesAvailability(t *testing.T) {
	c := DefaultCatalog().Merge(map[string]models.CatalogEntry{
		"Pasta": {UnitPrice: decimal.RequireFromString("1.49"), Unit: "box", Available: false, CatalogID: "PAST001"},
	})
	r := newTestResolver(c)

	lines := r.Resolve([]models.GapItem{gap("pasta", 3, "box")})
	require.NotNil(t, lines[0].Matched)
	assert.False(t, lines[0].Matched.Available)
	assert.False(t, lines[0].IsOrderable())
	assert.Equal(t, "4.47", lines[0].Matched.TotalCost.StringFixed(2))
}

func TestResolver_OwnsItsCatalog(t *testing.T) {
	c := DefaultCatalog()
	r := newTestResolver(c)
	delete(c, "milk")

	_, ok := r.Catalog().Lookup("Milk")
	assert.True(t, ok)
}

func TestDefaultCatalog_FallbackStaples(t *testing.T) {
	c := DefaultCatalog()
	for _, name := range []string{"Spinach", "Salmon", "Pasta", "Olive Oil"} {
		e, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, e.Available)
	}
	assert.Len(t, c, 8)
}
